// Package scenario runs scripted sequences of generator experiments from
// YAML files.
package scenario

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/EvanCarter/ElectroSimulations/internal/config"
	"github.com/EvanCarter/ElectroSimulations/internal/generator"
	"github.com/EvanCarter/ElectroSimulations/internal/metrics"
	"github.com/EvanCarter/ElectroSimulations/internal/storage"
)

// Scenario defines a scripted experiment sequence.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single run in a scenario, either a named preset or an inline
// config. An inline config wins when both are given.
type Step struct {
	Name   string         `yaml:"name"`
	Rig    string         `yaml:"rig"`
	Preset string         `yaml:"preset"`
	Config *config.Config `yaml:"config"`
	SaveAs string         `yaml:"save_as"`
}

// StepResult reports one finished step.
type StepResult struct {
	Name    string
	RunID   string
	Metrics map[string]float64
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}

	return &sc, nil
}

// RunScenario executes all steps in order. Steps with a save_as name are
// written to the store; a nil store skips saving.
func RunScenario(ctx context.Context, sc *Scenario, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		cfg, err := resolveStep(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		label := step.Name
		if label == "" {
			label = fmt.Sprintf("step %d", i+1)
		}
		fmt.Printf("Running step %d/%d: %s\n", i+1, len(sc.Steps), label)

		rig, err := cfg.BuildRig()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		runCfg, err := cfg.RunConfig()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		driver := generator.New(rig, cfg.BuildCoils())
		driver.AddMetric(metrics.NewRMS())
		driver.AddMetric(metrics.NewFluxBalance())

		result, err := driver.Run(ctx, runCfg)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		runID := ""
		if step.SaveAs != "" && store != nil {
			runID, err = store.SaveNamed(step.SaveAs, cfg.Rig, string(runCfg.Kernel), runCfg.Seed, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, StepResult{
			Name:    label,
			RunID:   runID,
			Metrics: result.Metrics,
		})
	}

	return results, nil
}

func resolveStep(step Step) (*config.Config, error) {
	if step.Config != nil {
		return step.Config, nil
	}
	if step.Preset == "" {
		return nil, fmt.Errorf("step needs a preset or an inline config")
	}

	family := step.Rig
	if family == "" {
		family = "rotary"
	}
	cfg := config.GetPreset(family, step.Preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q for rig %q", step.Preset, family)
	}
	return cfg, nil
}

// Tolerance describes a geometry jitter study: the base rotary config is
// rerun with the magnet diameter and edge offset perturbed by up to
// +-Jitter relative, to see how build slop moves the output.
type Tolerance struct {
	Base   *config.Config
	Jitter float64
	Trials int
	Seed   int64
}

// TrialResult is one perturbed build. Geometry that fails validation is
// reported with Valid false instead of aborting the study.
type TrialResult struct {
	Trial    int
	Diameter float64
	Offset   float64
	Valid    bool
	RMS      float64
}

// RunTolerance executes the jitter trials.
func RunTolerance(ctx context.Context, tol *Tolerance) ([]TrialResult, error) {
	if tol.Base == nil || tol.Base.Rig != "rotary" {
		return nil, fmt.Errorf("tolerance study needs a rotary base config")
	}
	if tol.Trials < 1 {
		return nil, fmt.Errorf("tolerance study needs at least one trial, got %d", tol.Trials)
	}

	seed := tol.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]TrialResult, 0, tol.Trials)
	for trial := 0; trial < tol.Trials; trial++ {
		cfg := *tol.Base
		cfg.Rotor.MagnetDiameter *= 1 + (rng.Float64()-0.5)*2*tol.Jitter
		cfg.Rotor.EdgeOffset *= 1 + (rng.Float64()-0.5)*2*tol.Jitter

		res := TrialResult{
			Trial:    trial,
			Diameter: cfg.Rotor.MagnetDiameter,
			Offset:   cfg.Rotor.EdgeOffset,
		}

		rig, err := cfg.BuildRig()
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		if err := rig.Validate(); err != nil {
			results = append(results, res)
			continue
		}

		runCfg, err := cfg.RunConfig()
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		driver := generator.New(rig, cfg.BuildCoils())
		driver.AddMetric(metrics.NewRMS())
		out, err := driver.Run(ctx, runCfg)
		if err != nil {
			return results, fmt.Errorf("trial %d run: %w", trial, err)
		}

		res.Valid = true
		res.RMS = out.Metrics["rms"]
		results = append(results, res)

		if (trial+1)%10 == 0 {
			fmt.Printf("Tolerance: %d/%d trials complete\n", trial+1, tol.Trials)
		}
	}

	return results, nil
}

// ToleranceStats counts buildable and unbuildable trials.
func ToleranceStats(results []TrialResult) (valid int, invalid int) {
	for _, r := range results {
		if r.Valid {
			valid++
		} else {
			invalid++
		}
	}
	return
}
