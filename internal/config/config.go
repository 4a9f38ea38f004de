package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/EvanCarter/ElectroSimulations/internal/flux"
	"github.com/EvanCarter/ElectroSimulations/internal/generator"
	"github.com/EvanCarter/ElectroSimulations/internal/motion"
)

const (
	DefaultDt             = 0.001
	DefaultDiskRadius     = 4.0
	DefaultMagnetDiameter = 1.0
	DefaultEdgeOffset     = 0.5
	DefaultMagnetCount    = 4
	DefaultRPM            = 30.0
	DefaultField          = 1.0
	DefaultTableSamples   = 50000
	DefaultTableSigma     = 100.0
	DefaultCloudPoints    = 5000
)

// Config is the on-disk description of a rig and a run. Angles are given in
// degrees and rotor speed in RPM; the build methods convert to radians.
type Config struct {
	Rig      string        `yaml:"rig"`
	Kernel   string        `yaml:"kernel"`
	Dt       float64       `yaml:"dt"`
	Duration float64       `yaml:"duration"`
	Seed     int64         `yaml:"seed"`
	Rotor    RotorConfig   `yaml:"rotor"`
	Track    TrackConfig   `yaml:"track"`
	Coils    []CoilConfig  `yaml:"coils"`
	Voltage  VoltageConfig `yaml:"voltage"`
}

type RotorConfig struct {
	DiskRadius     float64 `yaml:"disk_radius"`
	MagnetDiameter float64 `yaml:"magnet_diameter"`
	EdgeOffset     float64 `yaml:"edge_offset"`
	MagnetCount    int     `yaml:"magnet_count"`
	RPM            float64 `yaml:"rpm"`
	Field          float64 `yaml:"field"`
}

type TrackConfig struct {
	MagnetRadius float64 `yaml:"magnet_radius"`
	MagnetCount  int     `yaml:"magnet_count"`
	Gap          float64 `yaml:"gap"`
	Speed        float64 `yaml:"speed"`
	StartX       float64 `yaml:"start_x"`
	Alternating  bool    `yaml:"alternating"`
	WindowLeft   float64 `yaml:"window_left"`
	WindowRight  float64 `yaml:"window_right"`
	Field        float64 `yaml:"field"`
}

type CoilConfig struct {
	Name     string      `yaml:"name"`
	AngleDeg float64     `yaml:"angle_deg"`
	Ramp     *RampConfig `yaml:"ramp,omitempty"`
}

// RampConfig eases a coil between two angles with a smoothstep profile.
type RampConfig struct {
	FromDeg float64 `yaml:"from_deg"`
	ToDeg   float64 `yaml:"to_deg"`
	Start   float64 `yaml:"start"`
	End     float64 `yaml:"end"`
}

type VoltageConfig struct {
	SmoothSigma       float64 `yaml:"smooth_sigma"`
	TableSamples      int     `yaml:"table_samples"`
	TableSigma        float64 `yaml:"table_sigma"`
	InfluenceWidthDeg float64 `yaml:"influence_width_deg"`
	Standoff          float64 `yaml:"standoff"`
	CloudPoints       int     `yaml:"cloud_points"`
}

func DefaultConfig() *Config {
	return &Config{
		Rig:    "rotary",
		Kernel: "exact",
		Dt:     DefaultDt,
		Seed:   1,
		Rotor: RotorConfig{
			DiskRadius:     DefaultDiskRadius,
			MagnetDiameter: DefaultMagnetDiameter,
			EdgeOffset:     DefaultEdgeOffset,
			MagnetCount:    DefaultMagnetCount,
			RPM:            DefaultRPM,
			Field:          DefaultField,
		},
		Track: TrackConfig{
			MagnetRadius: 0.5,
			MagnetCount:  3,
			Gap:          0.4,
			Speed:        2.0,
			StartX:       -6.0,
			Alternating:  true,
			WindowLeft:   -1.0,
			WindowRight:  1.0,
			Field:        DefaultField,
		},
		Voltage: VoltageConfig{
			TableSamples: DefaultTableSamples,
			TableSigma:   DefaultTableSigma,
			CloudPoints:  DefaultCloudPoints,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Omega converts the configured rotor speed to radians per second.
func (r RotorConfig) Omega() float64 {
	return r.RPM * 2 * math.Pi / 60
}

func (c *Config) BuildRig() (generator.Rig, error) {
	switch c.Rig {
	case "rotary", "":
		return &generator.RotaryRig{
			DiskRadius:     c.Rotor.DiskRadius,
			MagnetDiameter: c.Rotor.MagnetDiameter,
			EdgeOffset:     c.Rotor.EdgeOffset,
			MagnetCount:    c.Rotor.MagnetCount,
			Omega:          c.Rotor.Omega(),
			Field:          c.Rotor.Field,
		}, nil
	case "linear":
		return &generator.LinearRig{
			MagnetRadius: c.Track.MagnetRadius,
			MagnetCount:  c.Track.MagnetCount,
			Gap:          c.Track.Gap,
			Speed:        c.Track.Speed,
			StartX:       c.Track.StartX,
			Alternating:  c.Track.Alternating,
			Window:       flux.Window{Left: c.Track.WindowLeft, Right: c.Track.WindowRight},
			Field:        c.Track.Field,
		}, nil
	default:
		return nil, fmt.Errorf("unknown rig type %q", c.Rig)
	}
}

func (c *Config) BuildCoils() []generator.Coil {
	coils := make([]generator.Coil, 0, len(c.Coils))
	for _, cc := range c.Coils {
		coil := generator.Coil{Name: cc.Name, Angle: radians(cc.AngleDeg)}
		if cc.Ramp != nil {
			coil.Motion = motion.SmoothStep(
				radians(cc.Ramp.FromDeg), radians(cc.Ramp.ToDeg),
				cc.Ramp.Start, cc.Ramp.End,
			)
		}
		coils = append(coils, coil)
	}
	return coils
}

// RunConfig converts the numeric knobs to run settings. An empty kernel
// means exact and a zero dt means the default, so partial configs, like the
// inline ones in scenario files, stay usable.
func (c *Config) RunConfig() (generator.RunConfig, error) {
	name := c.Kernel
	if name == "" {
		name = string(flux.KernelExact)
	}
	kernel, err := flux.ParseKernel(name)
	if err != nil {
		return generator.RunConfig{}, err
	}
	dt := c.Dt
	if dt == 0 {
		dt = DefaultDt
	}
	return generator.RunConfig{
		Dt:             dt,
		Duration:       c.Duration,
		Kernel:         kernel,
		SmoothSigma:    c.Voltage.SmoothSigma,
		TableSamples:   c.Voltage.TableSamples,
		TableSigma:     c.Voltage.TableSigma,
		InfluenceWidth: radians(c.Voltage.InfluenceWidthDeg),
		Standoff:       c.Voltage.Standoff,
		CloudPoints:    c.Voltage.CloudPoints,
		Seed:           c.Seed,
	}, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
