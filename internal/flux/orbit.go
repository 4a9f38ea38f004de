package flux

import (
	"github.com/EvanCarter/ElectroSimulations/internal/emf"
	"github.com/EvanCarter/ElectroSimulations/internal/geometry"
	"github.com/EvanCarter/ElectroSimulations/internal/motion"
)

// RingMagnet is a magnet at a rest angle on the rotor ring.
type RingMagnet struct {
	Magnet emf.Magnet
	Angle  float64
}

// AlternatingRing builds n magnets of the given radius spaced evenly around
// the ring, polarity alternating, the first one North at twelve o'clock.
func AlternatingRing(n int, radius float64) []RingMagnet {
	ring := make([]RingMagnet, n)
	for i := range ring {
		ring[i] = RingMagnet{
			Magnet: emf.Magnet{Radius: radius, Polarity: emf.Alternating(i)},
			Angle:  motion.RingAngle(i, n),
		}
	}
	return ring
}

// Orbit is the exact rotary kernel: the coil face is a disc on the same
// ring as the magnets, and each magnet contributes the lens overlap between
// the two discs at their current angular distance.
type Orbit struct {
	PathRadius float64
	Field      float64
	Omega      float64
	Magnets    []RingMagnet
	CoilAngle  motion.Profile
}

func (o *Orbit) Flux(t float64) float64 {
	coil := o.CoilAngle(t)

	total := 0.0
	for _, rm := range o.Magnets {
		angle := motion.Rotary{Theta0: rm.Angle, Omega: o.Omega}.Angle(t)
		dist := geometry.AngularDistance(angle, coil)
		area := geometry.LensOverlap(o.PathRadius, dist, rm.Magnet.Radius)
		total += rm.Magnet.Polarity.Sign() * o.Field * area
	}
	return total
}
