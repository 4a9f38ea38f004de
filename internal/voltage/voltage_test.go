package voltage

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
)

func TestCentralDiff_Sine(t *testing.T) {
	// For phi = sin(t) the induced voltage is -cos(t).
	f := math.Sin
	for _, tt := range []float64{0, 0.5, 1.2, math.Pi, 4.9} {
		got := CentralDiff(f, tt, 0.001)
		require.InDelta(t, -math.Cos(tt), got, 1e-4, "t=%v", tt)
	}
}

func TestCentralDiff_ConstantFlux(t *testing.T) {
	f := func(float64) float64 { return 3.7 }
	require.Equal(t, 0.0, CentralDiff(f, 1.0, 0.001))
}

func TestDifferentiate_Ramp(t *testing.T) {
	phi := emf.NewSeries("flux", 10)
	for i := 0; i < 10; i++ {
		tt := float64(i) * 0.1
		phi.Append(tt, 2*tt)
	}

	v, err := Differentiate(phi)
	require.NoError(t, err)
	require.Equal(t, phi.Len(), v.Len())
	require.Equal(t, 0.0, v.Values[0], "first sample has no predecessor")
	for i := 1; i < v.Len(); i++ {
		require.InDelta(t, 2.0, v.Values[i], 1e-9, "i=%d", i)
	}
}

func TestDifferentiate_Empty(t *testing.T) {
	_, err := Differentiate(emf.NewSeries("flux", 0))
	require.ErrorIs(t, err, emf.ErrEmptySeries)
}

func TestDifferentiate_IntegratesBack(t *testing.T) {
	// Summing v*dt telescopes back to the net flux change.
	phi := emf.NewSeries("flux", 200)
	for i := 0; i < 200; i++ {
		tt := float64(i) * 0.01
		phi.Append(tt, math.Sin(3*tt)*math.Exp(-tt))
	}

	v, err := Differentiate(phi)
	require.NoError(t, err)

	integral := 0.0
	for i := 1; i < v.Len(); i++ {
		integral += v.Values[i] * (v.Times[i] - v.Times[i-1])
	}
	want := phi.Values[phi.Len()-1] - phi.Values[0]
	require.InDelta(t, want, integral, 1e-9)
}

func TestGaussianSmooth_PreservesConstant(t *testing.T) {
	values := []float64{4, 4, 4, 4, 4, 4, 4, 4}
	for _, mode := range []BoundaryMode{Reflect, Wrap} {
		out := GaussianSmooth(values, 1.5, mode)
		for i, v := range out {
			require.InDelta(t, 4.0, v, 1e-12, "mode=%v i=%d", mode, i)
		}
	}
}

func TestGaussianSmooth_SpreadsSpike(t *testing.T) {
	values := make([]float64, 21)
	values[10] = 1

	out := GaussianSmooth(values, 2, Reflect)

	require.Less(t, out[10], 1.0, "peak should flatten")
	require.Greater(t, out[10], out[9], "peak should stay the maximum")
	for k := 1; k <= 8; k++ {
		require.InDelta(t, out[10-k], out[10+k], 1e-12, "smoothing should stay symmetric, k=%d", k)
	}
}

func TestGaussianSmooth_WrapPreservesSum(t *testing.T) {
	values := []float64{0, 1, 5, 2, -3, 0.5, 7, -1, 0, 2}
	sumIn := 0.0
	for _, v := range values {
		sumIn += v
	}

	out := GaussianSmooth(values, 1.2, Wrap)
	sumOut := 0.0
	for _, v := range out {
		sumOut += v
	}
	require.InDelta(t, sumIn, sumOut, 1e-9, "periodic smoothing conserves total")
}

func TestGaussianSmooth_ZeroSigmaCopies(t *testing.T) {
	values := []float64{1, 2, 3}
	out := GaussianSmooth(values, 0, Reflect)
	require.Equal(t, values, out)

	out[0] = 99
	require.Equal(t, 1.0, values[0], "output must be an independent copy")
}

func TestGaussianSmooth_InputUntouched(t *testing.T) {
	values := []float64{0, 0, 10, 0, 0}
	GaussianSmooth(values, 1, Wrap)
	require.Equal(t, []float64{0, 0, 10, 0, 0}, values)
}

func TestTable_SampleBoundary(t *testing.T) {
	fn := func(phase float64) float64 { return math.Sin(phase) }
	tb := BuildTable(fn, 1000, 0)

	for _, i := range []int{0, 1, 250, 999} {
		phase := 2 * math.Pi * float64(i) / 1000
		require.InDelta(t, tb.At(i), tb.Eval(phase), 1e-9, "i=%d", i)
	}
}

func TestTable_MidpointBlends(t *testing.T) {
	fn := func(phase float64) float64 { return math.Sin(phase) }
	tb := BuildTable(fn, 1000, 0)

	for _, i := range []int{0, 42, 500, 998} {
		phase := 2 * math.Pi * (float64(i) + 0.5) / 1000
		want := (tb.At(i) + tb.At(i+1)) / 2
		require.InDelta(t, want, tb.Eval(phase), 1e-9, "i=%d", i)
	}
}

func TestTable_PeriodicQuery(t *testing.T) {
	fn := func(phase float64) float64 { return math.Cos(phase) }
	tb := BuildTable(fn, 5000, 0)

	for _, phase := range []float64{0.1, 1.9, 4.4} {
		require.InDelta(t, tb.Eval(phase), tb.Eval(phase+2*math.Pi), 1e-9)
		require.InDelta(t, tb.Eval(phase), tb.Eval(phase-2*math.Pi), 1e-9)
	}
}

func TestTable_InterpolationAccuracy(t *testing.T) {
	tb := BuildTable(math.Sin, 5000, 0)

	for phase := 0.0; phase < 2*math.Pi; phase += 0.013 {
		require.InDelta(t, math.Sin(phase), tb.Eval(phase), 1e-6, "phase=%v", phase)
	}
}

func TestTable_DefaultResolution(t *testing.T) {
	tb := BuildTable(func(float64) float64 { return 1 }, 0, 0)
	require.Equal(t, DefaultTableSamples, tb.Len())
}

func TestCache_BuildOnce(t *testing.T) {
	c := NewCache()
	k := Key{MagnetCount: 4, MagnetRadius: 0.5, PathRadius: 2, Pattern: "NSNS", Field: 1, Samples: 100}

	builds := 0
	build := func() *Table {
		builds++
		return BuildTable(math.Sin, 100, 0)
	}

	tb1 := c.Get(k, build)
	tb2 := c.Get(k, build)
	require.Same(t, tb1, tb2)
	require.Equal(t, 1, builds)
}

func TestCache_RebuildsOnNewKey(t *testing.T) {
	c := NewCache()
	build := func() *Table { return BuildTable(math.Sin, 50, 0) }

	a := c.Get(Key{MagnetCount: 4, Samples: 50}, build)
	b := c.Get(Key{MagnetCount: 6, Samples: 50}, build)
	require.NotSame(t, a, b)
	require.Equal(t, 2, c.Len())
}

func TestSmoothedTableStaysPeriodic(t *testing.T) {
	// Smoothing with Wrap must not open a seam at phase zero.
	fn := func(phase float64) float64 { return math.Sin(phase) + 0.3*math.Sin(2*phase) }
	tb := BuildTable(fn, 2000, 4)

	seamJump := math.Abs(tb.At(0) - tb.At(1999))
	innerJump := math.Abs(tb.At(1000) - tb.At(999))
	require.Less(t, seamJump, 10*innerJump+1e-9, "seam discontinuity after wrap smoothing")
}

func TestErrorsIsWiring(t *testing.T) {
	_, err := Differentiate(&emf.Series{Name: "empty"})
	require.True(t, errors.Is(err, emf.ErrEmptySeries))
}
