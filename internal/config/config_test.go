package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/EvanCarter/ElectroSimulations/internal/flux"
	"github.com/EvanCarter/ElectroSimulations/internal/generator"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Rig != "rotary" {
		t.Errorf("expected rig rotary, got %s", cfg.Rig)
	}
	if cfg.Kernel != "exact" {
		t.Errorf("expected kernel exact, got %s", cfg.Kernel)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Rotor.MagnetCount <= 0 {
		t.Error("rotor magnet count should be positive")
	}
	if cfg.Voltage.TableSamples != DefaultTableSamples {
		t.Errorf("expected %d table samples, got %d", DefaultTableSamples, cfg.Voltage.TableSamples)
	}
}

func TestRotorOmega(t *testing.T) {
	r := RotorConfig{RPM: 30}
	if got := r.Omega(); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("30 rpm = %f rad/s, want pi", got)
	}

	r.RPM = 60
	if got := r.Omega(); math.Abs(got-2*math.Pi) > 1e-12 {
		t.Errorf("60 rpm = %f rad/s, want 2pi", got)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rig.yaml")
	data := []byte("rig: rotary\nrotor:\n  magnet_count: 8\n  rpm: 45\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Rotor.MagnetCount != 8 {
		t.Errorf("expected 8 magnets, got %d", cfg.Rotor.MagnetCount)
	}
	if cfg.Rotor.RPM != 45 {
		t.Errorf("expected 45 rpm, got %f", cfg.Rotor.RPM)
	}
	if cfg.Rotor.DiskRadius != DefaultDiskRadius {
		t.Errorf("unset disk radius should keep default, got %f", cfg.Rotor.DiskRadius)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("unset dt should keep default, got %f", cfg.Dt)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	cfg := DefaultConfig()
	cfg.Rig = "linear"
	cfg.Track.MagnetCount = 7

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Rig != "linear" {
		t.Errorf("expected rig linear, got %s", loaded.Rig)
	}
	if loaded.Track.MagnetCount != 7 {
		t.Errorf("expected 7 magnets, got %d", loaded.Track.MagnetCount)
	}
}

func TestBuildRig(t *testing.T) {
	cfg := DefaultConfig()

	rig, err := cfg.BuildRig()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	rr, ok := rig.(*generator.RotaryRig)
	if !ok {
		t.Fatalf("expected rotary rig, got %T", rig)
	}
	if math.Abs(rr.Omega-math.Pi) > 1e-12 {
		t.Errorf("expected omega pi, got %f", rr.Omega)
	}

	cfg.Rig = "linear"
	rig, err = cfg.BuildRig()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, ok := rig.(*generator.LinearRig); !ok {
		t.Fatalf("expected linear rig, got %T", rig)
	}

	cfg.Rig = "maglev"
	if _, err := cfg.BuildRig(); err == nil {
		t.Error("expected error for unknown rig")
	}
}

func TestBuildCoils(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Coils = []CoilConfig{
		{Name: "a", AngleDeg: 90},
		{Name: "swept", AngleDeg: 90, Ramp: &RampConfig{FromDeg: 90, ToDeg: 180, Start: 1, End: 3}},
	}

	coils := cfg.BuildCoils()
	if len(coils) != 2 {
		t.Fatalf("expected 2 coils, got %d", len(coils))
	}

	if math.Abs(coils[0].Angle-math.Pi/2) > 1e-12 {
		t.Errorf("expected pi/2, got %f", coils[0].Angle)
	}
	if !coils[0].IsStatic() {
		t.Error("coil without ramp should be static")
	}

	if coils[1].IsStatic() {
		t.Fatal("ramped coil should have a motion profile")
	}
	if got := coils[1].Motion(0); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("ramp start angle = %f, want pi/2", got)
	}
	if got := coils[1].Motion(4); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("ramp end angle = %f, want pi", got)
	}
}

func TestRunConfig(t *testing.T) {
	cfg := DefaultConfig()

	rc, err := cfg.RunConfig()
	if err != nil {
		t.Fatalf("run config failed: %v", err)
	}
	if rc.Dt != DefaultDt {
		t.Errorf("expected dt %f, got %f", DefaultDt, rc.Dt)
	}
	if rc.TableSamples != DefaultTableSamples {
		t.Errorf("expected %d samples, got %d", DefaultTableSamples, rc.TableSamples)
	}

	cfg.Voltage.InfluenceWidthDeg = 180
	rc, err = cfg.RunConfig()
	if err != nil {
		t.Fatalf("run config failed: %v", err)
	}
	if math.Abs(rc.InfluenceWidth-math.Pi) > 1e-12 {
		t.Errorf("expected pi, got %f", rc.InfluenceWidth)
	}

	cfg.Kernel = "fourier"
	if _, err := cfg.RunConfig(); err == nil {
		t.Error("expected error for unknown kernel")
	}

	// Partial configs fall back to exact kernel and the default dt.
	bare := &Config{}
	rc, err = bare.RunConfig()
	if err != nil {
		t.Fatalf("run config failed: %v", err)
	}
	if rc.Kernel != flux.KernelExact {
		t.Errorf("expected exact kernel, got %q", rc.Kernel)
	}
	if rc.Dt != DefaultDt {
		t.Errorf("expected dt %f, got %f", DefaultDt, rc.Dt)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("rotary", "demo")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Rotor.MagnetCount != 4 {
		t.Errorf("expected 4 magnets, got %d", cfg.Rotor.MagnetCount)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("rotary", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "demo")
	if cfg != nil {
		t.Error("expected nil for nonexistent rig")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("rotary")
	if len(presets) == 0 {
		t.Error("expected presets for rotary")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}

	presets = ListPresets("nonexistent")
	if presets != nil {
		t.Error("expected nil for nonexistent rig")
	}
}

func TestPresetsBuild(t *testing.T) {
	for rigType, group := range Presets {
		for name, cfg := range group {
			rig, err := cfg.BuildRig()
			if err != nil {
				t.Errorf("%s/%s: build failed: %v", rigType, name, err)
				continue
			}
			if err := rig.Validate(); err != nil {
				t.Errorf("%s/%s: invalid rig: %v", rigType, name, err)
			}
			if _, err := cfg.RunConfig(); err != nil {
				t.Errorf("%s/%s: run config failed: %v", rigType, name, err)
			}
		}
	}
}
