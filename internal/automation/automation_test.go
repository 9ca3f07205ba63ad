package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/r-ferrin/galaxia/internal/config"
	"github.com/r-ferrin/galaxia/internal/storage"
)

const sampleScenario = `
name: warmup
description: two short runs
steps:
  - label: tiny
    neurons: 30
    photons: 10
    duration: 0.08
  - label: tinier
    neurons: 20
    photons: 5
    duration: 0.048
    seed: 9
`

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(sampleScenario), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "warmup" || len(sc.Steps) != 2 {
		t.Errorf("unexpected scenario: %+v", sc)
	}
	if sc.Steps[1].Seed != 9 {
		t.Errorf("step seed lost: %+v", sc.Steps[1])
	}
}

func TestLoadScenarioRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: hollow\nsteps: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected an error for a scenario without steps")
	}
}

func TestScenarioRunStoresEachStep(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t))
	if err != nil {
		t.Fatal(err)
	}

	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	base := config.DefaultConfig()
	base.Dt = 0.016

	results, err := sc.Run(context.Background(), base, store)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 step results, got %d", len(results))
	}

	if results[0].Frames != 5 || results[1].Frames != 3 {
		t.Errorf("unexpected frame counts: %d and %d", results[0].Frames, results[1].Frames)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 stored runs, got %d", len(runs))
	}
	if runs[1].Seed != 9 {
		t.Errorf("step seed not applied: %+v", runs[1])
	}
}
