package generator

import (
	"fmt"
)

// Stepper advances a rotary run one sample at a time, for callers that
// interleave simulation with something else, like a frame loop. Voltages
// come from per-step backward differences, so nothing has to be recorded.
type Stepper struct {
	rig      *RotaryRig
	coils    []Coil
	evals    []func(t float64) float64
	dt       float64
	duration float64

	i     int
	prev  []float64
	flux  []float64
	volts []float64
}

// Stepper prepares a single-sample walk over the configured span. Only
// rotary rigs support it.
func (d *Driver) Stepper(cfg RunConfig) (*Stepper, error) {
	if err := d.rig.Validate(); err != nil {
		return nil, err
	}
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}

	rig, ok := d.rig.(*RotaryRig)
	if !ok {
		return nil, fmt.Errorf("live runs require a rotary rig, got %T", d.rig)
	}

	duration := cfg.Duration
	if duration == 0 {
		duration = rig.DefaultDuration()
	}

	coils := d.coils
	if len(coils) == 0 {
		coils = []Coil{{Name: "coil", Angle: ReferenceAngle}}
	}
	evals, err := d.rotaryEvals(rig, cfg, coils)
	if err != nil {
		return nil, err
	}

	return &Stepper{
		rig:      rig,
		coils:    coils,
		evals:    evals,
		dt:       cfg.Dt,
		duration: duration,
		prev:     make([]float64, len(coils)),
		flux:     make([]float64, len(coils)),
		volts:    make([]float64, len(coils)),
	}, nil
}

// Step advances one sample and reports the time plus one flux and voltage
// value per coil. The slices are reused between calls. ok turns false once
// the span is exhausted.
func (s *Stepper) Step() (t float64, flx, volts []float64, ok bool) {
	t = float64(s.i) * s.dt
	if t >= s.duration {
		return t, nil, nil, false
	}

	for c := range s.evals {
		phi := s.evals[c](t)
		if s.i > 0 {
			s.volts[c] = (phi - s.prev[c]) / s.dt
		} else {
			s.volts[c] = 0
		}
		s.prev[c] = phi
		s.flux[c] = phi
	}
	s.i++
	return t, s.flux, s.volts, true
}

// Reset rewinds the walk to t = 0.
func (s *Stepper) Reset() {
	s.i = 0
}

func (s *Stepper) Rig() *RotaryRig { return s.rig }

func (s *Stepper) Coils() []Coil { return s.coils }

func (s *Stepper) Dt() float64 { return s.dt }

func (s *Stepper) Duration() float64 { return s.duration }

// Time is the timestamp the next Step will report.
func (s *Stepper) Time() float64 { return float64(s.i) * s.dt }

func (s *Stepper) Done() bool { return float64(s.i)*s.dt >= s.duration }
