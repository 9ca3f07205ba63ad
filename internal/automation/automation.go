// Package automation runs scripted sequences of simulations described in
// YAML, storing each step as its own run.
package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/r-ferrin/galaxia/internal/config"
	"github.com/r-ferrin/galaxia/internal/metrics"
	"github.com/r-ferrin/galaxia/internal/sim"
	"github.com/r-ferrin/galaxia/internal/storage"
)

// Scenario is a named sequence of simulation steps.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step overrides the base configuration for one run. Zero values keep the
// base setting.
type Step struct {
	Label    string  `yaml:"label"`
	Neurons  int     `yaml:"neurons"`
	Photons  int     `yaml:"photons"`
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	return &sc, nil
}

// StepResult pairs a step with its stored run.
type StepResult struct {
	Label   string
	RunID   string
	Frames  int
	Metrics map[string]float64
}

// Run executes every step against the base config, storing each run.
// Execution stops at the first failing step.
func (sc *Scenario) Run(ctx context.Context, base *config.Config, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		cfg := apply(base, step)
		scfg := sim.Config{
			Neurons:          cfg.Neurons,
			Photons:          cfg.Photons,
			Dt:               cfg.Dt,
			Duration:         cfg.Duration,
			Seed:             cfg.Seed,
			Dynamics:         cfg.DynamicsParams(),
			Diversity:        cfg.DiversityParams(),
			Oracle:           cfg.OracleParams(),
			DiversityEnabled: cfg.Diversity.Enabled,
		}

		runner := sim.New(scfg)
		runner.AddMetric(metrics.NewMeanTemperature())
		runner.AddMetric(metrics.NewClusterCount())
		runner.AddMetric(metrics.NewEnergyDrift())

		result, err := runner.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i, step.Label, err)
		}

		runID, err := store.Save(storage.RunMetadata{
			Seed:     scfg.Seed,
			Dt:       scfg.Dt,
			Duration: scfg.Duration,
			Neurons:  scfg.Neurons,
			Photons:  scfg.Photons,
			Metrics:  result.Metrics,
		}, result.History, result.Final)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i, step.Label, err)
		}

		results = append(results, StepResult{
			Label:   step.Label,
			RunID:   runID,
			Frames:  result.Frames,
			Metrics: result.Metrics,
		})
	}
	return results, nil
}

func apply(base *config.Config, step Step) *config.Config {
	cfg := *base
	if step.Neurons > 0 {
		cfg.Neurons = step.Neurons
	}
	if step.Photons > 0 {
		cfg.Photons = step.Photons
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}
	return &cfg
}
