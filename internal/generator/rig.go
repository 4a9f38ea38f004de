package generator

import (
	"fmt"
	"math"
	"strings"

	"github.com/EvanCarter/ElectroSimulations/internal/emf"
	"github.com/EvanCarter/ElectroSimulations/internal/flux"
	"github.com/EvanCarter/ElectroSimulations/internal/geometry"
	"github.com/EvanCarter/ElectroSimulations/internal/motion"
)

// Rig describes a magnet arrangement the driver can run.
type Rig interface {
	Validate() error

	// DefaultDuration returns the natural run length: one revolution for a
	// rotor, one full traverse for a track.
	DefaultDuration() float64
}

// RotaryRig is a spinning disk with an alternating ring of magnets set in
// from the edge. Coils sit on the same ring and see each magnet sweep past
// once per revolution.
type RotaryRig struct {
	DiskRadius     float64
	MagnetDiameter float64
	EdgeOffset     float64
	MagnetCount    int
	Omega          float64
	Field          float64
}

func (r *RotaryRig) MagnetRadius() float64 {
	return r.MagnetDiameter / 2
}

// PathRadius is the radius of the circle the magnet centers ride on.
func (r *RotaryRig) PathRadius() float64 {
	return r.DiskRadius - r.EdgeOffset - r.MagnetRadius()
}

// MaxMagnets returns how many magnets fit on the ring without touching,
// from the chord angle one magnet diameter subtends. Only meaningful once
// the geometry checks in Validate pass.
func (r *RotaryRig) MaxMagnets() int {
	theta := 2 * math.Asin(geometry.Clamp(r.MagnetDiameter/(2*r.PathRadius()), -1, 1))
	if theta <= 0 {
		return 0
	}
	return int(2 * math.Pi / theta)
}

func (r *RotaryRig) Validate() error {
	if r.DiskRadius <= 0 {
		return fmt.Errorf("disk radius must be positive, got %f", r.DiskRadius)
	}
	if r.MagnetDiameter <= 0 {
		return fmt.Errorf("magnet diameter must be positive, got %f", r.MagnetDiameter)
	}
	if r.EdgeOffset < 0 {
		return fmt.Errorf("edge offset must be non-negative, got %f", r.EdgeOffset)
	}
	if r.MagnetCount <= 0 {
		return fmt.Errorf("magnet count must be positive, got %d", r.MagnetCount)
	}
	if r.Omega <= 0 {
		return fmt.Errorf("angular velocity must be positive, got %f", r.Omega)
	}
	if r.Field <= 0 {
		return fmt.Errorf("field strength must be positive, got %f", r.Field)
	}

	if r.MagnetDiameter > r.DiskRadius {
		return &emf.RigError{Field: "magnetDiameter", Value: r.MagnetDiameter, Wrapped: emf.ErrMagnetTooLarge}
	}
	if r.MagnetDiameter+r.EdgeOffset > r.DiskRadius {
		return &emf.RigError{Field: "edgeOffset", Value: r.EdgeOffset, Wrapped: emf.ErrMagnetOverlapsCenter}
	}
	if max := r.MaxMagnets(); r.MagnetCount > max {
		return &emf.RigError{Field: "magnetCount", Value: float64(r.MagnetCount), Wrapped: emf.ErrTooManyMagnets}
	}
	return nil
}

// Ring builds the rig's magnets at their rest angles.
func (r *RotaryRig) Ring() []flux.RingMagnet {
	return flux.AlternatingRing(r.MagnetCount, r.MagnetRadius())
}

// Pattern is the polarity sequence around the ring, used to key the lookup
// table cache.
func (r *RotaryRig) Pattern() string {
	var b strings.Builder
	for i := 0; i < r.MagnetCount; i++ {
		b.WriteString(emf.Alternating(i).String())
	}
	return b.String()
}

func (r *RotaryRig) DefaultDuration() float64 {
	return motion.Rotary{Omega: r.Omega}.Period()
}

// LinearRig is a train of magnets sliding along a track past a fixed coil
// window. Magnet centers start at StartX and repeat every Stride.
type LinearRig struct {
	MagnetRadius float64
	MagnetCount  int
	Gap          float64
	Speed        float64
	StartX       float64
	Alternating  bool
	Window       flux.Window
	Field        float64
}

// Stride is the center-to-center spacing of the train.
func (l *LinearRig) Stride() float64 {
	return 2*l.MagnetRadius + l.Gap
}

func (l *LinearRig) Validate() error {
	if l.MagnetRadius <= 0 {
		return fmt.Errorf("magnet radius must be positive, got %f", l.MagnetRadius)
	}
	if l.MagnetCount <= 0 {
		return fmt.Errorf("magnet count must be positive, got %d", l.MagnetCount)
	}
	if l.Gap < 0 {
		return fmt.Errorf("gap must be non-negative, got %f", l.Gap)
	}
	if l.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %f", l.Speed)
	}
	if l.Window.Width() <= 0 {
		return fmt.Errorf("coil window must have positive width, got %f", l.Window.Width())
	}
	if l.Field <= 0 {
		return fmt.Errorf("field strength must be positive, got %f", l.Field)
	}
	return nil
}

// Train builds the rig's magnets bound to their trajectories.
func (l *LinearRig) Train() []flux.TrackMagnet {
	train := make([]flux.TrackMagnet, l.MagnetCount)
	for i := range train {
		pol := emf.North
		if l.Alternating {
			pol = emf.Alternating(i)
		}
		train[i] = flux.TrackMagnet{
			Magnet: emf.Magnet{Radius: l.MagnetRadius, Polarity: pol},
			Path:   motion.Linear{X0: l.StartX + float64(i)*l.Stride(), V: l.Speed},
		}
	}
	return train
}

// DefaultDuration runs until the rear magnet has fully cleared the window.
func (l *LinearRig) DefaultDuration() float64 {
	distance := l.Window.Right - l.StartX + 2*l.MagnetRadius
	return distance / l.Speed
}
