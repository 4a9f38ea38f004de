package generator_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
	"github.com/EvanCarter/ElectroSimulations/internal/flux"
	"github.com/EvanCarter/ElectroSimulations/internal/generator"
	"github.com/EvanCarter/ElectroSimulations/internal/waveform"
)

func rotorWith(count int) *generator.RotaryRig {
	return &generator.RotaryRig{
		DiskRadius:     4,
		MagnetDiameter: 1,
		EdgeOffset:     0.5,
		MagnetCount:    count,
		Omega:          math.Pi,
		Field:          1,
	}
}

var _ = Describe("Driver", func() {
	Describe("a four magnet rotor past a single coil", func() {
		var res *generator.Result

		BeforeEach(func() {
			// Influence width equal to the magnet spacing merges
			// neighbouring lobes into a clean two-cycle wave.
			cfg := generator.DefaultRunConfig()
			cfg.Kernel = flux.KernelSinusoid
			cfg.InfluenceWidth = math.Pi / 2

			var err error
			res, err = generator.New(rotorWith(4), nil).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Traces).To(HaveLen(1))
		})

		It("produces two positive and two negative voltage peaks per revolution", func() {
			v := res.Traces[0].Voltage.Values
			peak := 0.0
			for _, x := range v {
				if math.Abs(x) > peak {
					peak = math.Abs(x)
				}
			}
			Expect(peak).To(BeNumerically(">", 0))

			pos, neg := waveform.Peaks(v, 0.2*peak)
			Expect(pos).To(Equal(2))
			Expect(neg).To(Equal(2))
		})

		It("repeats the flux wave every half revolution", func() {
			phi := res.Traces[0].Flux.Values
			half := 1000
			for i := 0; i+half < len(phi); i += 137 {
				Expect(phi[i+half]).To(BeNumerically("~", phi[i], 1e-9))
			}
		})
	})

	Describe("three windings on a two magnet rotor", func() {
		var res *generator.Result

		BeforeEach(func() {
			coils := []generator.Coil{
				{Name: "a", Angle: generator.ReferenceAngle},
				{Name: "b", Angle: generator.ReferenceAngle - 2*math.Pi/3},
				{Name: "c", Angle: generator.ReferenceAngle - 4*math.Pi/3},
			}

			cfg := generator.DefaultRunConfig()
			cfg.Kernel = flux.KernelSinusoid
			cfg.InfluenceWidth = math.Pi

			var err error
			res, err = generator.New(rotorWith(2), coils).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Traces).To(HaveLen(3))
		})

		It("sums the three voltages to zero at every instant", func() {
			sum := waveform.Sum(
				res.Trace("a").Voltage.Values,
				res.Trace("b").Voltage.Values,
				res.Trace("c").Voltage.Values,
			)
			for _, x := range sum {
				Expect(math.Abs(x)).To(BeNumerically("<", 1e-9))
			}
		})

		It("sums the three flux traces to zero as well", func() {
			sum := waveform.Sum(
				res.Trace("a").Flux.Values,
				res.Trace("b").Flux.Values,
				res.Trace("c").Flux.Values,
			)
			for _, x := range sum {
				Expect(math.Abs(x)).To(BeNumerically("<", 1e-9))
			}
		})

		It("gives every winding the same amplitude", func() {
			want := math.Pi * 0.25 * math.Pi // field area times omega
			for _, name := range []string{"a", "b", "c"} {
				v := res.Trace(name).Voltage.Values
				peak := 0.0
				for _, x := range v {
					if math.Abs(x) > peak {
						peak = math.Abs(x)
					}
				}
				Expect(peak).To(BeNumerically("~", want, 0.01))
			}
		})
	})

	Describe("rig validation", func() {
		It("rejects a rotor with more magnets than the ring can hold", func() {
			rig := rotorWith(40)
			_, err := generator.New(rig, nil).Run(context.Background(), generator.DefaultRunConfig())
			Expect(err).To(MatchError(emf.ErrTooManyMagnets))
		})

		It("reports cancellation through the returned error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := generator.New(rotorWith(4), nil).Run(ctx, generator.DefaultRunConfig())
			Expect(err).To(MatchError(emf.ErrCanceled))
		})
	})
})
