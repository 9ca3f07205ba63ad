// Package sim runs the full galaxy loop: dynamics, clustering, diversity
// control, and optionally the oracle feedback against a task's
// demonstrations. It owns no I/O; callers attach observers and read the
// result.
package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/r-ferrin/galaxia/internal/cluster"
	"github.com/r-ferrin/galaxia/internal/diversity"
	"github.com/r-ferrin/galaxia/internal/dynamics"
	"github.com/r-ferrin/galaxia/internal/metrics"
	"github.com/r-ferrin/galaxia/internal/oracle"
	"github.com/r-ferrin/galaxia/internal/particle"
	"github.com/r-ferrin/galaxia/internal/task"
)

// Observer sees the population after every frame.
type Observer interface {
	OnFrame(store *particle.Store, stats dynamics.FrameStats)
}

type Config struct {
	Neurons  int
	Photons  int
	Dt       float64
	Duration float64
	Seed     int64

	Dynamics  dynamics.Params
	Diversity diversity.Params
	Oracle    oracle.Params

	// DiversityEnabled gates the diversity controller.
	DiversityEnabled bool

	// Train, when non-empty, turns on oracle feedback against these
	// demonstrations.
	Train []task.Pair

	// Bursts are injected when the run clock passes their timestamps.
	Bursts []particle.Burst
}

type Result struct {
	History  []dynamics.FrameStats
	Final    []particle.NeuronState
	Metrics  map[string]float64
	Frames   int
	Validity float64
}

type Runner struct {
	cfg       Config
	metrics   []metrics.Metric
	observers []Observer
}

func New(cfg Config) *Runner {
	return &Runner{cfg: cfg}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }

// Run executes the configured number of frames, honoring context
// cancellation between frames. The partial result is returned alongside
// the context error when cancelled.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	store := particle.NewStore(r.cfg.Neurons, r.cfg.Photons, rand.New(rand.NewSource(r.cfg.Seed)))
	engine := dynamics.New(store, r.cfg.Dynamics)

	var control *diversity.Controller
	if r.cfg.DiversityEnabled {
		control = diversity.New(r.cfg.Diversity)
	}
	var judge *oracle.Oracle
	if len(r.cfg.Train) > 0 {
		judge = oracle.New(r.cfg.Oracle)
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	frames := int(math.Round(r.cfg.Duration / r.cfg.Dt))
	result := &Result{
		History: make([]dynamics.FrameStats, 0, frames),
		Metrics: make(map[string]float64),
	}

	pending := r.cfg.Bursts

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			r.finish(store, result)
			return result, ctx.Err()
		default:
		}

		pending = r.inject(store, pending, engine.Time())

		engine.Step(r.cfg.Dt)
		clusters := cluster.Find(store, r.cfg.Dynamics.ConnectionRadius)

		if control != nil {
			control.Update(store, cluster.Memberships(clusters), r.cfg.Dt)
		}
		if judge != nil {
			_, result.Validity = judge.Evaluate(store, clusters, r.cfg.Train, r.cfg.Dt)
		}

		stats := engine.Stats()
		result.History = append(result.History, stats)
		result.Frames++

		if len(r.metrics) > 0 {
			metrics.Collect(r.metrics, metrics.Observation{
				Stats:    stats,
				Energy:   engine.TotalEnergy(),
				Clusters: len(clusters),
			})
		}
		for _, obs := range r.observers {
			obs.OnFrame(store, stats)
		}
	}

	r.finish(store, result)
	return result, nil
}

func (r *Runner) finish(store *particle.Store, result *Result) {
	result.Final = store.Snapshot()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// inject releases every burst whose timestamp has passed and returns the
// rest. The whole list is scanned so callers need not sort their bursts.
func (r *Runner) inject(store *particle.Store, pending []particle.Burst, now float64) []particle.Burst {
	var due, rest []particle.Burst
	for _, b := range pending {
		if b.Time <= now {
			due = append(due, b)
		} else {
			rest = append(rest, b)
		}
	}
	if len(due) > 0 {
		store.InjectBursts(due)
	}
	return rest
}

func (r *Runner) validate() error {
	if r.cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", r.cfg.Dt)
	}
	if r.cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", r.cfg.Duration)
	}
	if r.cfg.Neurons < 0 || r.cfg.Photons < 0 {
		return fmt.Errorf("population sizes must be non-negative")
	}
	return nil
}
