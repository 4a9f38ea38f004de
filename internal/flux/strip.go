package flux

import (
	"math"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
	"github.com/EvanCarter/ElectroSimulations/internal/geometry"
	"github.com/EvanCarter/ElectroSimulations/internal/motion"
)

// cutoffMargin pads the skip distance so a magnet is never culled while any
// part of it could still overlap the window.
const cutoffMargin = 0.1

// TrackMagnet binds a magnet to its straight-line trajectory.
type TrackMagnet struct {
	Magnet emf.Magnet
	Path   motion.Linear
}

// Window is a coil aperture on the track, a vertical strip in magnet
// coordinates.
type Window struct {
	Left  float64
	Right float64
}

func (w Window) Width() float64 {
	return w.Right - w.Left
}

func (w Window) Center() float64 {
	return (w.Left + w.Right) / 2
}

// Strip is the exact linear-track kernel: each magnet contributes its
// polarity-signed overlap with the window, scaled by the field strength.
type Strip struct {
	Window  Window
	Field   float64
	Magnets []TrackMagnet
}

func (s *Strip) Flux(t float64) float64 {
	center := s.Window.Center()
	cutoff := s.Window.Width()/2 + cutoffMargin

	total := 0.0
	for _, tm := range s.Magnets {
		cx := tm.Path.Position(t)
		if math.Abs(cx-center) >= cutoff+tm.Magnet.Radius {
			continue
		}
		area := geometry.StripOverlap(tm.Magnet.Radius, cx, s.Window.Left, s.Window.Right)
		total += tm.Magnet.Polarity.Sign() * s.Field * area
	}
	return total
}
