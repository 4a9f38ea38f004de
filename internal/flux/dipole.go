package flux

import (
	"math"

	"github.com/EvanCarter/ElectroSimulations/internal/dipole"
	"github.com/EvanCarter/ElectroSimulations/internal/motion"
)

// FieldKernel is the off-axis rotary kernel. Each magnet is a point dipole
// on the ring with its moment along the rotor axis, and the coil face is a
// disc hovering Standoff above the rotor plane. Flux comes from numeric
// integration of the dipole field over the coil face, so unlike the overlap
// kernels every magnet always contributes: the field has no cutoff, only
// cubic decay with distance.
type FieldKernel struct {
	PathRadius float64
	CoilRadius float64
	Standoff   float64
	Moment     float64
	Omega      float64
	Magnets    []RingMagnet
	CoilAngle  motion.Profile
	Model      dipole.FieldModel
}

func (k *FieldKernel) Flux(t float64) float64 {
	coil := ringPoint(k.PathRadius, k.CoilAngle(t))
	coil.Z = k.Standoff
	normal := dipole.Vec3{Z: 1}

	total := 0.0
	for _, rm := range k.Magnets {
		angle := motion.Rotary{Theta0: rm.Angle, Omega: k.Omega}.Angle(t)
		d := dipole.Dipole{
			Position: ringPoint(k.PathRadius, angle),
			Moment:   dipole.Vec3{Z: rm.Magnet.Polarity.Sign() * k.Moment},
		}
		total += k.Model.DiscFlux(d, coil, normal, k.CoilRadius)
	}
	return total
}

// ringPoint places an angle on the ring, in the rotor plane.
func ringPoint(radius, angle float64) dipole.Vec3 {
	return dipole.Vec3{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
}
