package metrics

import (
	"math"
	"testing"

	"github.com/r-ferrin/galaxia/internal/dynamics"
)

func TestMeanTemperature(t *testing.T) {
	m := NewMeanTemperature()

	m.Observe(Observation{Stats: dynamics.FrameStats{MeanTemperature: 4000}})
	m.Observe(Observation{Stats: dynamics.FrameStats{MeanTemperature: 5000}})

	if got := m.Value(); math.Abs(got-4500) > 1e-9 {
		t.Errorf("expected 4500, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPhotonActivity(t *testing.T) {
	m := NewPhotonActivity(100)

	m.Observe(Observation{Stats: dynamics.FrameStats{ActivePhotons: 100}})
	m.Observe(Observation{Stats: dynamics.FrameStats{ActivePhotons: 50}})

	if got := m.Value(); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("expected 0.75, got %f", got)
	}

	empty := NewPhotonActivity(0)
	empty.Observe(Observation{})
	if empty.Value() != 0 {
		t.Error("empty pool should report 0")
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	m.Observe(Observation{Energy: -100})
	m.Observe(Observation{Energy: -101})
	m.Observe(Observation{Energy: -100.5})

	if got := m.Value(); math.Abs(got-0.01) > 1e-9 {
		t.Errorf("expected max drift 0.01, got %f", got)
	}
}

func TestCollectAndValues(t *testing.T) {
	ms := []Metric{NewMeanTemperature(), NewClusterCount(), NewEnergyDrift()}

	Collect(ms, Observation{
		Stats:    dynamics.FrameStats{MeanTemperature: 3000},
		Clusters: 7,
		Energy:   -50,
	})

	vals := Values(ms)
	if vals["mean_temperature"] != 3000 || vals["cluster_count"] != 7 || vals["energy_drift"] != 0 {
		t.Errorf("unexpected values: %+v", vals)
	}
}
