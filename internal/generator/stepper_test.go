package generator

import (
	"context"
	"testing"

	"github.com/EvanCarter/ElectroSimulations/internal/flux"
)

func TestStepper_WalksSpan(t *testing.T) {
	rig := validRotary()
	cfg := DefaultRunConfig()
	cfg.Kernel = flux.KernelSinusoid

	s, err := New(rig, nil).Stepper(cfg)
	if err != nil {
		t.Fatalf("Stepper() error = %v", err)
	}
	if got := len(s.Coils()); got != 1 {
		t.Fatalf("Coils() len = %d, want 1", got)
	}

	steps := 0
	for {
		tm, flx, volts, ok := s.Step()
		if !ok {
			break
		}
		if steps == 0 {
			if tm != 0 {
				t.Fatalf("first step time = %f, want 0", tm)
			}
			if volts[0] != 0 {
				t.Fatalf("first step voltage = %f, want 0", volts[0])
			}
		}
		if len(flx) != 1 || len(volts) != 1 {
			t.Fatalf("sample widths = %d, %d, want 1, 1", len(flx), len(volts))
		}
		steps++
	}

	want := int(rig.DefaultDuration() / cfg.Dt)
	if steps != want {
		t.Errorf("steps = %d, want %d", steps, want)
	}
	if !s.Done() {
		t.Error("Done() = false after exhausting the span")
	}

	s.Reset()
	if s.Time() != 0 {
		t.Errorf("Time() after Reset = %f, want 0", s.Time())
	}
	if _, _, _, ok := s.Step(); !ok {
		t.Error("Step() after Reset should produce a sample")
	}
}

func TestStepper_MatchesRun(t *testing.T) {
	rig := validRotary()
	cfg := DefaultRunConfig()
	cfg.Kernel = flux.KernelSinusoid

	res, err := New(rig, nil).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	s, err := New(rig, nil).Stepper(cfg)
	if err != nil {
		t.Fatalf("Stepper() error = %v", err)
	}

	phi := res.Traces[0].Flux
	for i := 0; ; i++ {
		_, flx, _, ok := s.Step()
		if !ok {
			break
		}
		if flx[0] != phi.Values[i] {
			t.Fatalf("step %d flux = %g, recorded run has %g", i, flx[0], phi.Values[i])
		}
	}
}

func TestStepper_RejectsLinear(t *testing.T) {
	rig := singleMagnetPass()
	if _, err := New(rig, nil).Stepper(DefaultRunConfig()); err == nil {
		t.Fatal("Stepper() on a linear rig should fail")
	}
}
