package flux

import (
	"math"

	"github.com/EvanCarter/ElectroSimulations/internal/motion"
)

// DefaultInfluenceWidth sizes a sinusoid kernel's angular window from the
// rig geometry: the half-angle subtended by one magnet diameter on the ring.
func DefaultInfluenceWidth(magnetRadius, pathRadius float64) float64 {
	return 2 * magnetRadius / pathRadius
}

// Sinusoid is the raised-cosine rotary kernel. A magnet within the
// influence window contributes
//
//	amplitude * 0.5 * (1 + cos(pi*d/width))
//
// where d is the signed angular offset from the coil. The contribution
// reaches amplitude at alignment and falls continuously to zero at the
// window edge.
type Sinusoid struct {
	Amplitude      float64
	InfluenceWidth float64
	Omega          float64
	Magnets        []RingMagnet
	CoilAngle      motion.Profile
}

func (s *Sinusoid) Flux(t float64) float64 {
	coil := s.CoilAngle(t)

	total := 0.0
	for _, rm := range s.Magnets {
		d := motion.SignedAngle(rm.Angle - s.Omega*t - coil)
		if math.Abs(d) >= s.InfluenceWidth {
			continue
		}
		shape := 0.5 * (1 + math.Cos(math.Pi*d/s.InfluenceWidth))
		total += rm.Magnet.Polarity.Sign() * s.Amplitude * shape
	}
	return total
}
