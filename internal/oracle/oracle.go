// Package oracle scores the galaxy's emergent structure against a task's
// demonstration pairs. The dominant cluster's motion implies a grid
// transformation; the oracle measures how well that transformation
// reproduces the training outputs and feeds the score back into the
// population. Test grids are never consulted, so the feedback loop cannot
// leak the answer.
package oracle

import (
	"math"

	"github.com/r-ferrin/galaxia/internal/cluster"
	"github.com/r-ferrin/galaxia/internal/grid"
	"github.com/r-ferrin/galaxia/internal/particle"
	"github.com/r-ferrin/galaxia/internal/task"
)

type Params struct {
	// VelocityScale converts cluster mean velocity to whole grid cells.
	VelocityScale float64

	// SpinThreshold is the minimum |spin rate| that registers as a
	// quarter-turn rotation.
	SpinThreshold float64

	// FeedbackRate scales how fast validity is folded into luminosity.
	FeedbackRate float64

	// EnergyGain is the per-unit-validity energy credit per second.
	EnergyGain float64
}

func DefaultParams() Params {
	return Params{
		VelocityScale: 0.01,
		SpinThreshold: 0.1,
		FeedbackRate:  10,
		EnergyGain:    0.1,
	}
}

// Transform is the grid operation implied by the dominant cluster's motion.
type Transform struct {
	DX, DY int
	// Rotations is the number of clockwise quarter turns, in [0, 3].
	Rotations int
}

// Apply runs the implied transform on a grid, rotation before translation.
func (t Transform) Apply(g *grid.Grid) *grid.Grid {
	out := g.Rotate90(t.Rotations)
	if t.DX != 0 || t.DY != 0 {
		out = out.Translate(t.DX, t.DY, 0)
	}
	return out
}

// Identity reports whether the transform leaves grids unchanged.
func (t Transform) Identity() bool {
	return t.DX == 0 && t.DY == 0 && t.Rotations == 0
}

type Oracle struct {
	params   Params
	validity float64
}

func New(params Params) *Oracle {
	return &Oracle{params: params}
}

// Validity is the most recent training-pair match score in [0, 1].
func (o *Oracle) Validity() float64 { return o.validity }

// Implied reads the dominant cluster's bulk motion as a grid transform.
// Translation comes from the mean velocity in the disk plane, rotation from
// the spin direction about the disk axis. A nil cluster implies identity.
func (o *Oracle) Implied(neurons []particle.Neuron, c *cluster.Cluster) Transform {
	if c == nil {
		return Transform{}
	}

	t := Transform{
		DX: int(math.Round(c.MeanVelocity.X * o.params.VelocityScale)),
		DY: int(math.Round(c.MeanVelocity.Z * o.params.VelocityScale)),
	}

	if spin := c.SpinRate(neurons); spin > o.params.SpinThreshold {
		if c.AngularMomentum.Y >= 0 {
			t.Rotations = 1
		} else {
			t.Rotations = 3
		}
	}
	return t
}

// Score measures how well the transform reproduces the training pairs:
// the mean cell-match ratio across all demonstrations. No pairs scores 0.
func Score(t Transform, train []task.Pair) float64 {
	if len(train) == 0 {
		return 0
	}

	total := 0.0
	for _, p := range train {
		total += grid.Similarity(t.Apply(p.Input), p.Output)
	}
	return total / float64(len(train))
}

// Evaluate derives the implied transform, scores it on the training pairs,
// and feeds the score back into the evaluated cluster's members: their
// luminosity is eased toward a validity-boosted target and their energy
// accrues with validity. Neurons outside the cluster are untouched.
// Returns the transform and its score.
func (o *Oracle) Evaluate(store *particle.Store, clusters []cluster.Cluster, train []task.Pair, dt float64) (Transform, float64) {
	dominant := cluster.Largest(clusters)
	t := o.Implied(store.Neurons, dominant)
	o.validity = Score(t, train)

	if dominant == nil {
		return t, o.validity
	}

	blend := dt * o.params.FeedbackRate
	if blend > 1 {
		blend = 1
	}

	for _, i := range dominant.Members {
		if i < 0 || i >= len(store.Neurons) {
			continue
		}
		n := &store.Neurons[i]
		target := n.Luminosity * (1 + o.validity)
		n.Luminosity += (target - n.Luminosity) * blend
		n.Energy += o.validity * o.params.EnergyGain * dt
	}

	return t, o.validity
}
