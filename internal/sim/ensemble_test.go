package sim

import (
	"context"
	"testing"
)

func TestEnsembleRunsAllSeeds(t *testing.T) {
	cfg := testConfig()
	cfg.Neurons = 40
	cfg.Photons = 10

	results, err := NewEnsemble(cfg, 3, 100).Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Frames != 10 {
			t.Errorf("run %d: expected 10 frames, got %d", i, res.Frames)
		}
	}

	// Different seeds should explore different galaxies.
	if results[0].History[9].MeanTemperature == results[1].History[9].MeanTemperature &&
		results[0].History[9].MeanLuminosity == results[1].History[9].MeanLuminosity {
		t.Error("consecutive seeds produced identical histories")
	}
}

func TestEnsemblePropagatesErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Dt = 0

	if _, err := NewEnsemble(cfg, 2, 1).Run(context.Background()); err == nil {
		t.Error("expected config error from ensemble")
	}
}
