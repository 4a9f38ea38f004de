package waveform

import (
	"errors"
	"math"
	"testing"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
)

func sineSeries(freq, dt float64, n int) *emf.Series {
	s := emf.NewSeries("v", n)
	for i := 0; i < n; i++ {
		tt := float64(i) * dt
		s.Append(tt, math.Sin(2*math.Pi*freq*tt))
	}
	return s
}

func TestPowerSpectrum_PeakBin(t *testing.T) {
	// 1024 samples at dt=0.01 with a 5 Hz tone: the peak lands in bin 51.
	s := sineSeries(5, 0.01, 1024)

	mags, df, err := PowerSpectrum(s)
	if err != nil {
		t.Fatalf("PowerSpectrum: %v", err)
	}
	if len(mags) != 512 {
		t.Fatalf("len(mags) = %d, want 512", len(mags))
	}

	best, bestMag := 0, 0.0
	for i, m := range mags {
		if m > bestMag {
			best, bestMag = i, m
		}
	}
	gotFreq := float64(best) * df
	if math.Abs(gotFreq-5) > df {
		t.Errorf("peak at %v Hz, want 5 within one bin (%v)", gotFreq, df)
	}
}

func TestPowerSpectrum_PadsToPowerOfTwo(t *testing.T) {
	s := sineSeries(2, 0.01, 300)
	mags, _, err := PowerSpectrum(s)
	if err != nil {
		t.Fatalf("PowerSpectrum: %v", err)
	}
	if len(mags) != 256 {
		t.Errorf("len(mags) = %d, want 256 (padded to 512)", len(mags))
	}
}

func TestPowerSpectrum_TooShort(t *testing.T) {
	s := emf.NewSeries("v", 1)
	s.Append(0, 1)
	if _, _, err := PowerSpectrum(s); !errors.Is(err, emf.ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
}

func TestDominantFrequency(t *testing.T) {
	s := sineSeries(8, 0.005, 2048)

	got, err := DominantFrequency(s)
	if err != nil {
		t.Fatalf("DominantFrequency: %v", err)
	}
	df := 1 / (2048 * 0.005)
	if math.Abs(got-8) > df {
		t.Errorf("DominantFrequency = %v, want 8 within %v", got, df)
	}
}

func TestDominantFrequency_IgnoresDC(t *testing.T) {
	// A large constant offset must not win over the tone.
	s := emf.NewSeries("v", 1024)
	for i := 0; i < 1024; i++ {
		tt := float64(i) * 0.01
		s.Append(tt, 10+0.5*math.Sin(2*math.Pi*3*tt))
	}

	got, err := DominantFrequency(s)
	if err != nil {
		t.Fatalf("DominantFrequency: %v", err)
	}
	df := 1 / (1024 * 0.01)
	if math.Abs(got-3) > df {
		t.Errorf("DominantFrequency = %v, want 3 within %v", got, df)
	}
}

func TestNextPow2(t *testing.T) {
	tests := []struct{ in, want int }{
		{1, 1}, {2, 2}, {3, 4}, {300, 512}, {1024, 1024}, {1025, 2048},
	}
	for _, tt := range tests {
		if got := nextPow2(tt.in); got != tt.want {
			t.Errorf("nextPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
