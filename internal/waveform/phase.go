package waveform

import (
	"math"

	"github.com/EvanCarter/ElectroSimulations/internal/motion"
)

// Phase labels a coil's electrical phase group.
type Phase int

const (
	PhaseA Phase = iota
	PhaseB
	PhaseC
)

func (p Phase) String() string {
	switch p {
	case PhaseA:
		return "A"
	case PhaseB:
		return "B"
	case PhaseC:
		return "C"
	}
	return "?"
}

// PolePairs returns the number of electrical cycles per mechanical
// revolution for an alternating ring: one pair per two magnets.
func PolePairs(magnetCount int) int {
	return magnetCount / 2
}

// ElectricalFrequency returns the electrical frequency in hertz for a rotor
// spinning at mechHz mechanical revolutions per second.
func ElectricalFrequency(mechHz float64, polePairs int) float64 {
	return mechHz * float64(polePairs)
}

// ElectricalOffset converts a coil's mechanical angle offset into electrical
// radians, wrapped to [0, 2pi). Coils a full electrical cycle apart see the
// same waveform.
func ElectricalOffset(mechOffset float64, polePairs int) float64 {
	return motion.WrapAngle(mechOffset * float64(polePairs))
}

// CoilPhase buckets a coil into its phase group by the nearest third of the
// electrical cycle. On an 18-coil stator over a 24-magnet rotor this yields
// the repeating A, C, B pattern.
func CoilPhase(mechOffset float64, polePairs int) Phase {
	e := ElectricalOffset(mechOffset, polePairs)
	third := 2 * math.Pi / 3
	return Phase(int(math.Round(e/third)) % 3)
}
