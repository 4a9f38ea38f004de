package generator

import (
	"context"
	"fmt"
	"math"

	"github.com/EvanCarter/ElectroSimulations/internal/dipole"
	"github.com/EvanCarter/ElectroSimulations/internal/emf"
	"github.com/EvanCarter/ElectroSimulations/internal/flux"
	"github.com/EvanCarter/ElectroSimulations/internal/metrics"
	"github.com/EvanCarter/ElectroSimulations/internal/motion"
	"github.com/EvanCarter/ElectroSimulations/internal/voltage"
)

// ReferenceAngle is the coil position lookup tables are built at. Every
// static coil reads the same table through the effective-time shift
// t - (ReferenceAngle - coilAngle) / omega.
const ReferenceAngle = math.Pi / 2

const defaultTableSigma = 100

// Coil is a named pickup position on a rotary rig. A nil Motion keeps the
// coil fixed at Angle; a profile moves it, which forgoes the shared table.
type Coil struct {
	Name   string
	Angle  float64
	Motion motion.Profile
}

func (c Coil) AngleAt(t float64) float64 {
	if c.Motion != nil {
		return c.Motion(t)
	}
	return c.Angle
}

func (c Coil) IsStatic() bool {
	return c.Motion == nil
}

// RunConfig sets the numerical knobs of a run. The zero values of most
// fields mean "derive a sensible default from the rig".
type RunConfig struct {
	Dt       float64
	Duration float64
	Kernel   flux.Kernel

	// SmoothSigma is the Gaussian width, in samples, applied to
	// exact-geometry traces before differencing. Zero derives one percent
	// of a period; negative disables smoothing.
	SmoothSigma float64

	// TableSamples and TableSigma size the shared lookup table. Zero picks
	// the defaults; a negative TableSigma leaves the table unsmoothed.
	TableSamples int
	TableSigma   float64

	// InfluenceWidth overrides the sinusoid kernel window; zero derives it
	// from the rig geometry.
	InfluenceWidth float64

	// Standoff lifts the dipole kernel's coil face off the rotor plane;
	// zero derives one magnet radius.
	Standoff float64

	// CloudPoints and Seed drive the sampled kernel.
	CloudPoints int
	Seed        int64
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Dt:           0.001,
		Kernel:       flux.KernelExact,
		TableSamples: voltage.DefaultTableSamples,
		TableSigma:   defaultTableSigma,
		CloudPoints:  flux.DefaultCloudPoints,
		Seed:         1,
	}
}

// Trace is one coil's finished run output.
type Trace struct {
	Coil    Coil
	Flux    *emf.Series
	Voltage *emf.Series
}

// Result collects every coil's traces plus run bookkeeping.
type Result struct {
	Traces     []Trace
	Metrics    map[string]float64
	StepsTaken int
	Dt         float64
	Duration   float64
}

// Trace returns the named coil's trace, nil if absent.
func (r *Result) Trace(name string) *Trace {
	for i := range r.Traces {
		if r.Traces[i].Coil.Name == name {
			return &r.Traces[i]
		}
	}
	return nil
}

// Driver runs a rig's coils through time and extracts their voltages. The
// kernel evaluation is sequential and pure; the only state kept between
// runs is the keyed lookup-table cache.
type Driver struct {
	rig     Rig
	coils   []Coil
	metrics []metrics.Metric
	cache   *voltage.Cache
}

func New(rig Rig, coils []Coil) *Driver {
	return &Driver{
		rig:     rig,
		coils:   coils,
		metrics: make([]metrics.Metric, 0),
		cache:   voltage.NewCache(),
	}
}

// AddMetric registers a streaming metric. Metrics observe the first coil's
// finished trace.
func (d *Driver) AddMetric(m metrics.Metric) {
	d.metrics = append(d.metrics, m)
}

// Run simulates the rig over the configured span and returns one flux and
// one voltage series per coil.
func (d *Driver) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := d.rig.Validate(); err != nil {
		return nil, err
	}
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}

	duration := cfg.Duration
	if duration == 0 {
		duration = d.rig.DefaultDuration()
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %f", duration)
	}

	switch rig := d.rig.(type) {
	case *RotaryRig:
		return d.runRotary(ctx, rig, cfg, duration)
	case *LinearRig:
		return d.runLinear(ctx, rig, cfg, duration)
	}
	return nil, fmt.Errorf("unsupported rig type %T", d.rig)
}

func validateRunConfig(cfg RunConfig) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("duration must be non-negative, got %f", cfg.Duration)
	}
	if cfg.TableSamples < 0 {
		return fmt.Errorf("table samples must be non-negative, got %d", cfg.TableSamples)
	}
	if cfg.CloudPoints < 0 {
		return fmt.Errorf("cloud points must be non-negative, got %d", cfg.CloudPoints)
	}
	switch cfg.Kernel {
	case flux.KernelExact, flux.KernelSinusoid, flux.KernelDipole, flux.KernelSampled:
		return nil
	}
	return fmt.Errorf("%w: %q", emf.ErrUnknownKernel, cfg.Kernel)
}

func (d *Driver) runRotary(ctx context.Context, rig *RotaryRig, cfg RunConfig, duration float64) (*Result, error) {
	coils := d.coils
	if len(coils) == 0 {
		coils = []Coil{{Name: "coil", Angle: ReferenceAngle}}
	}

	evals, err := d.rotaryEvals(rig, cfg, coils)
	if err != nil {
		return nil, err
	}

	steps := int(duration / cfg.Dt)
	result := &Result{
		Traces:   make([]Trace, len(coils)),
		Metrics:  make(map[string]float64),
		Dt:       cfg.Dt,
		Duration: duration,
	}
	for i, c := range coils {
		result.Traces[i] = Trace{
			Coil: c,
			Flux: emf.NewSeries(c.Name+"_flux", steps+1),
		}
	}

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %v", emf.ErrCanceled, ctx.Err())
		default:
		}

		t := float64(i) * cfg.Dt
		for c := range coils {
			result.Traces[c].Flux.Append(t, evals[c](t))
		}
		result.StepsTaken++
	}

	useTable := cfg.Kernel == flux.KernelExact && allStatic(coils)
	for c := range coils {
		phi := result.Traces[c].Flux

		// Direct exact traces keep the overlap curve's slope kinks; filter
		// them out before differencing. Table traces were smoothed at build
		// time; sinusoid and dipole traces are smooth by construction.
		if cfg.Kernel == flux.KernelExact && !useTable {
			sigma := cfg.SmoothSigma
			if sigma == 0 {
				sigma = 0.01 * rig.DefaultDuration() / cfg.Dt
			}
			if sigma > 0 {
				phi.Values = voltage.GaussianSmooth(phi.Values, sigma, voltage.Reflect)
			}
		}

		v, err := voltage.Differentiate(phi)
		if err != nil {
			return nil, err
		}
		v.Name = result.Traces[c].Coil.Name + "_voltage"

		// The sinusoid traces follow the physical sign convention
		// v = -dPhi/dt; the other kernels report the raw slope.
		if cfg.Kernel == flux.KernelSinusoid {
			for i := range v.Values {
				v.Values[i] = -v.Values[i]
			}
		}
		result.Traces[c].Voltage = v
	}

	d.observe(result)
	return result, nil
}

// rotaryEvals builds one flux evaluator per coil. Static coils over the
// exact kernel share a single lookup table, shifted per coil; everything
// else evaluates its kernel directly.
func (d *Driver) rotaryEvals(rig *RotaryRig, cfg RunConfig, coils []Coil) ([]func(t float64) float64, error) {
	evals := make([]func(t float64) float64, len(coils))

	switch cfg.Kernel {
	case flux.KernelExact:
		if allStatic(coils) {
			table := d.lookupTable(rig, cfg)
			for i := range coils {
				angle := coils[i].Angle
				evals[i] = func(t float64) float64 {
					return table.Eval(rig.Omega*t - ReferenceAngle + angle)
				}
			}
			return evals, nil
		}
		for i := range coils {
			src := &flux.Orbit{
				PathRadius: rig.PathRadius(),
				Field:      rig.Field,
				Omega:      rig.Omega,
				Magnets:    rig.Ring(),
				CoilAngle:  coilProfile(coils[i]),
			}
			evals[i] = src.Flux
		}
		return evals, nil

	case flux.KernelSinusoid:
		width := cfg.InfluenceWidth
		if width == 0 {
			width = flux.DefaultInfluenceWidth(rig.MagnetRadius(), rig.PathRadius())
		}
		amplitude := rig.Field * math.Pi * rig.MagnetRadius() * rig.MagnetRadius()
		for i := range coils {
			src := &flux.Sinusoid{
				Amplitude:      amplitude,
				InfluenceWidth: width,
				Omega:          rig.Omega,
				Magnets:        rig.Ring(),
				CoilAngle:      coilProfile(coils[i]),
			}
			evals[i] = src.Flux
		}
		return evals, nil

	case flux.KernelDipole:
		standoff := cfg.Standoff
		if standoff == 0 {
			standoff = rig.MagnetRadius()
		}
		for i := range coils {
			src := &flux.FieldKernel{
				PathRadius: rig.PathRadius(),
				CoilRadius: rig.MagnetRadius(),
				Standoff:   standoff,
				Moment:     rig.Field,
				Omega:      rig.Omega,
				Magnets:    rig.Ring(),
				CoilAngle:  coilProfile(coils[i]),
				Model:      dipole.DefaultFieldModel(),
			}
			evals[i] = src.Flux
		}
		return evals, nil
	}

	return nil, fmt.Errorf("kernel %q does not support rotary rigs", cfg.Kernel)
}

// lookupTable fetches or builds the rig's flux-vs-phase table. The key
// covers everything the samples depend on, so a changed rig rebuilds
// instead of reusing.
func (d *Driver) lookupTable(rig *RotaryRig, cfg RunConfig) *voltage.Table {
	samples := cfg.TableSamples
	if samples <= 0 {
		samples = voltage.DefaultTableSamples
	}
	sigma := cfg.TableSigma
	if sigma == 0 {
		sigma = defaultTableSigma
	} else if sigma < 0 {
		sigma = 0
	}
	key := voltage.Key{
		MagnetCount:  rig.MagnetCount,
		MagnetRadius: rig.MagnetRadius(),
		PathRadius:   rig.PathRadius(),
		Pattern:      rig.Pattern(),
		Field:        rig.Field,
		Samples:      samples,
		Sigma:        sigma,
	}
	return d.cache.Get(key, func() *voltage.Table {
		src := &flux.Orbit{
			PathRadius: rig.PathRadius(),
			Field:      rig.Field,
			Omega:      rig.Omega,
			Magnets:    rig.Ring(),
			CoilAngle:  motion.Fixed(ReferenceAngle),
		}
		return voltage.BuildTable(func(phase float64) float64 {
			return src.Flux(phase / rig.Omega)
		}, samples, sigma)
	})
}

func (d *Driver) runLinear(ctx context.Context, rig *LinearRig, cfg RunConfig, duration float64) (*Result, error) {
	var src flux.Source
	switch cfg.Kernel {
	case flux.KernelExact:
		src = &flux.Strip{Window: rig.Window, Field: rig.Field, Magnets: rig.Train()}
	case flux.KernelSampled:
		src = flux.NewSampled(rig.Window, rig.Train(), cfg.CloudPoints, cfg.Seed)
	default:
		return nil, fmt.Errorf("kernel %q does not support linear rigs", cfg.Kernel)
	}

	steps := int(duration / cfg.Dt)
	result := &Result{
		Traces: []Trace{{
			Coil:    Coil{Name: "coil"},
			Flux:    emf.NewSeries("coil_flux", steps+1),
			Voltage: emf.NewSeries("coil_voltage", steps+1),
		}},
		Metrics:  make(map[string]float64),
		Dt:       cfg.Dt,
		Duration: duration,
	}
	trace := &result.Traces[0]

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %v", emf.ErrCanceled, ctx.Err())
		default:
		}

		t := float64(i) * cfg.Dt
		trace.Flux.Append(t, src.Flux(t))
		trace.Voltage.Append(t, voltage.CentralDiff(src.Flux, t, cfg.Dt))
		result.StepsTaken++
	}

	d.observe(result)
	return result, nil
}

// observe replays the first coil's finished trace through the registered
// metrics and records their values.
func (d *Driver) observe(result *Result) {
	if len(result.Traces) == 0 || len(d.metrics) == 0 {
		return
	}
	for _, m := range d.metrics {
		m.Reset()
	}

	ref := result.Traces[0]
	for i := 0; i < ref.Flux.Len(); i++ {
		for _, m := range d.metrics {
			m.Observe(ref.Flux.Times[i], ref.Flux.Values[i], ref.Voltage.Values[i])
		}
	}
	for _, m := range d.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunLive steps the rig and hands each sample to the callback: the current
// time and one voltage per coil, from per-step backward differences.
// Returning false stops the run early. Nothing is recorded.
func (d *Driver) RunLive(ctx context.Context, cfg RunConfig, fn func(t float64, volts []float64) bool) error {
	s, err := d.Stepper(cfg)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", emf.ErrCanceled, ctx.Err())
		default:
		}

		t, _, volts, ok := s.Step()
		if !ok {
			return nil
		}
		if !fn(t, volts) {
			return nil
		}
	}
}

func allStatic(coils []Coil) bool {
	for _, c := range coils {
		if !c.IsStatic() {
			return false
		}
	}
	return true
}

// coilProfile returns the coil's angle function with the coil's parameters
// captured explicitly.
func coilProfile(c Coil) motion.Profile {
	if c.Motion != nil {
		return c.Motion
	}
	return motion.Fixed(c.Angle)
}
