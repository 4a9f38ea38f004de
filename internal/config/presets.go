package config

import "sort"

var Presets = map[string]map[string]*Config{
	"rotary": {
		"demo": {
			Rig: "rotary", Kernel: "exact", Dt: 0.001, Seed: 1,
			Rotor: RotorConfig{
				DiskRadius: 4, MagnetDiameter: 1, EdgeOffset: 0.5,
				MagnetCount: 4, RPM: 30, Field: 1,
			},
		},
		"three_phase": {
			Rig: "rotary", Kernel: "sinusoid", Dt: 0.001, Seed: 1,
			Rotor: RotorConfig{
				DiskRadius: 4, MagnetDiameter: 1, EdgeOffset: 0.5,
				MagnetCount: 2, RPM: 30, Field: 1,
			},
			Coils: []CoilConfig{
				{Name: "a", AngleDeg: 90},
				{Name: "b", AngleDeg: -30},
				{Name: "c", AngleDeg: 210},
			},
			Voltage: VoltageConfig{InfluenceWidthDeg: 180},
		},
		"alternator": {
			Rig: "rotary", Kernel: "exact", Dt: 0.0005, Seed: 1,
			Rotor: RotorConfig{
				DiskRadius: 6, MagnetDiameter: 1, EdgeOffset: 0.25,
				MagnetCount: 12, RPM: 60, Field: 1,
			},
			Voltage: VoltageConfig{TableSamples: 50000, TableSigma: 100},
		},
		"pickup": {
			Rig: "rotary", Kernel: "dipole", Dt: 0.001, Seed: 1,
			Rotor: RotorConfig{
				DiskRadius: 4, MagnetDiameter: 1, EdgeOffset: 0.5,
				MagnetCount: 4, RPM: 30, Field: 1,
			},
			Voltage: VoltageConfig{Standoff: 0.75},
		},
		"sweep_coil": {
			Rig: "rotary", Kernel: "exact", Dt: 0.001, Duration: 4, Seed: 1,
			Rotor: RotorConfig{
				DiskRadius: 4, MagnetDiameter: 1, EdgeOffset: 0.5,
				MagnetCount: 4, RPM: 30, Field: 1,
			},
			Coils: []CoilConfig{
				{Name: "swept", AngleDeg: 90, Ramp: &RampConfig{FromDeg: 90, ToDeg: 180, Start: 1, End: 3}},
			},
		},
	},
	"linear": {
		"single_pass": {
			Rig: "linear", Kernel: "exact", Dt: 0.001, Seed: 1,
			Track: TrackConfig{
				MagnetRadius: 0.5, MagnetCount: 1, Speed: 1, StartX: -2,
				WindowLeft: -1, WindowRight: 1, Field: 1,
			},
		},
		"train": {
			Rig: "linear", Kernel: "exact", Dt: 0.001, Seed: 1,
			Track: TrackConfig{
				MagnetRadius: 0.5, MagnetCount: 5, Gap: 0.4, Speed: 2,
				StartX: -8, Alternating: true,
				WindowLeft: -1, WindowRight: 1, Field: 1,
			},
		},
		"cloud": {
			Rig: "linear", Kernel: "sampled", Dt: 0.001, Seed: 7,
			Track: TrackConfig{
				MagnetRadius: 0.5, MagnetCount: 3, Gap: 0.4, Speed: 2,
				StartX: -6, Alternating: true,
				WindowLeft: -1, WindowRight: 1, Field: 1,
			},
			Voltage: VoltageConfig{CloudPoints: 5000},
		},
	},
}

func GetPreset(rig, preset string) *Config {
	rigPresets, ok := Presets[rig]
	if !ok {
		return nil
	}
	cfg, ok := rigPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(rig string) []string {
	rigPresets, ok := Presets[rig]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(rigPresets))
	for name := range rigPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
