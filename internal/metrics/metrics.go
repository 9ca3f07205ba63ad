// Package metrics accumulates per-frame observations over a run. Each
// metric is observed once per frame and reports a single summary value at
// the end, which the run loop folds into the stored metadata.
package metrics

import (
	"math"

	"github.com/r-ferrin/galaxia/internal/dynamics"
)

// Observation is everything a metric may look at for one frame.
type Observation struct {
	Stats    dynamics.FrameStats
	Energy   float64
	Clusters int
}

type Metric interface {
	Name() string
	Observe(o Observation)
	Value() float64
	Reset()
}

// MeanTemperature averages the population temperature across frames.
type MeanTemperature struct {
	total   float64
	samples int
}

func NewMeanTemperature() *MeanTemperature { return &MeanTemperature{} }

func (m *MeanTemperature) Name() string { return "mean_temperature" }

func (m *MeanTemperature) Observe(o Observation) {
	m.total += o.Stats.MeanTemperature
	m.samples++
}

func (m *MeanTemperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanTemperature) Reset() {
	m.total = 0
	m.samples = 0
}

// PhotonActivity averages the fraction of the photon pool in flight.
type PhotonActivity struct {
	pool    int
	total   float64
	samples int
}

func NewPhotonActivity(pool int) *PhotonActivity {
	return &PhotonActivity{pool: pool}
}

func (m *PhotonActivity) Name() string { return "photon_activity" }

func (m *PhotonActivity) Observe(o Observation) {
	if m.pool == 0 {
		return
	}
	m.total += float64(o.Stats.ActivePhotons) / float64(m.pool)
	m.samples++
}

func (m *PhotonActivity) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *PhotonActivity) Reset() {
	m.total = 0
	m.samples = 0
}

// ClusterCount reports the final number of clusters.
type ClusterCount struct {
	current int
}

func NewClusterCount() *ClusterCount { return &ClusterCount{} }

func (m *ClusterCount) Name() string { return "cluster_count" }

func (m *ClusterCount) Observe(o Observation) { m.current = o.Clusters }

func (m *ClusterCount) Value() float64 { return float64(m.current) }

func (m *ClusterCount) Reset() { m.current = 0 }

// EnergyDrift tracks the worst relative deviation from the first observed
// total energy.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (m *EnergyDrift) Name() string { return "energy_drift" }

func (m *EnergyDrift) Observe(o Observation) {
	if m.samples == 0 {
		m.initial = o.Energy
	}
	m.samples++

	if m.initial != 0 {
		drift := math.Abs(o.Energy-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *EnergyDrift) Value() float64 { return m.maxDrift }

func (m *EnergyDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// Collect observes one frame on every metric.
func Collect(ms []Metric, o Observation) {
	for _, m := range ms {
		m.Observe(o)
	}
}

// Values snapshots every metric into a name-to-value map.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
