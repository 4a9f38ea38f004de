package flux

import (
	"math"
	"testing"

	"github.com/EvanCarter/ElectroSimulations/internal/dipole"
	"github.com/EvanCarter/ElectroSimulations/internal/emf"
	"github.com/EvanCarter/ElectroSimulations/internal/motion"
)

func benchTrain(n int) []TrackMagnet {
	train := make([]TrackMagnet, n)
	for i := range train {
		train[i] = TrackMagnet{
			Magnet: emf.Magnet{Radius: 0.5, Polarity: emf.Alternating(i)},
			Path:   motion.Linear{X0: float64(i) * 1.2, V: 2},
		}
	}
	return train
}

func BenchmarkStrip(b *testing.B) {
	s := &Strip{
		Window:  Window{Left: -1, Right: 1},
		Field:   1,
		Magnets: benchTrain(8),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Flux(float64(i%1000) * 0.001)
	}
}

func BenchmarkOrbit(b *testing.B) {
	o := &Orbit{
		PathRadius: 2.25,
		Field:      1,
		Omega:      1,
		Magnets:    AlternatingRing(8, 0.35),
		CoilAngle:  motion.Fixed(math.Pi / 2),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		o.Flux(float64(i%1000) * 0.001)
	}
}

func BenchmarkSinusoid(b *testing.B) {
	s := &Sinusoid{
		Amplitude:      1,
		InfluenceWidth: 0.5,
		Omega:          1,
		Magnets:        AlternatingRing(8, 0.35),
		CoilAngle:      motion.Fixed(math.Pi / 2),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Flux(float64(i%1000) * 0.001)
	}
}

func BenchmarkFieldKernel(b *testing.B) {
	k := &FieldKernel{
		PathRadius: 2.25,
		CoilRadius: 0.35,
		Standoff:   0.35,
		Moment:     1,
		Omega:      1,
		Magnets:    AlternatingRing(8, 0.35),
		CoilAngle:  motion.Fixed(math.Pi / 2),
		Model:      dipole.DefaultFieldModel(),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k.Flux(float64(i%1000) * 0.001)
	}
}

func BenchmarkSampled(b *testing.B) {
	s := NewSampled(Window{Left: -1, Right: 1}, benchTrain(4), DefaultCloudPoints, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Flux(float64(i%1000) * 0.001)
	}
}
