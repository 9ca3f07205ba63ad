// Package solver runs one task end to end: discover transformation rules
// from the demonstrations, optionally let the particle galaxy propose its
// own transform, and apply the strongest surviving chain to each test
// input. A task with no usable rule falls back to copying the input, so
// Solve always produces an answer per test case.
package solver

import (
	"math/rand"

	"github.com/r-ferrin/galaxia/internal/cluster"
	"github.com/r-ferrin/galaxia/internal/diversity"
	"github.com/r-ferrin/galaxia/internal/dynamics"
	"github.com/r-ferrin/galaxia/internal/grid"
	"github.com/r-ferrin/galaxia/internal/oracle"
	"github.com/r-ferrin/galaxia/internal/particle"
	"github.com/r-ferrin/galaxia/internal/pattern"
	"github.com/r-ferrin/galaxia/internal/rules"
	"github.com/r-ferrin/galaxia/internal/task"
)

type Params struct {
	// UseGalaxy turns on the simulation-backed candidate source.
	UseGalaxy bool

	Neurons int
	Photons int
	Frames  int
	Dt      float64
	Seed    int64

	Dynamics  dynamics.Params
	Diversity diversity.Params
	Oracle    oracle.Params
}

func DefaultParams() Params {
	return Params{
		UseGalaxy: false,
		Neurons:   500,
		Photons:   200,
		Frames:    100,
		Dt:        0.016,
		Seed:      1,
		Dynamics:  dynamics.DefaultParams(),
		Diversity: diversity.DefaultParams(),
		Oracle:    oracle.DefaultParams(),
	}
}

// Result is the outcome for one task.
type Result struct {
	TaskID string

	// Rules are the validated candidates, strongest first. Empty means
	// the solver fell back to copying inputs.
	Rules []rules.Rule

	// Outputs holds one prediction per test case.
	Outputs []*grid.Grid

	// Scored counts test cases with known outputs; Correct counts exact
	// matches among them.
	Scored  int
	Correct int

	// Validity is the oracle's final training score when the galaxy ran.
	Validity float64
}

// Solve discovers rules for the task and predicts every test output.
func Solve(t *task.Task, p Params) Result {
	res := Result{TaskID: t.ID}

	candidates := proposeAll(t.Train)
	candidates = append(candidates, hintCandidates(t.Train)...)
	if p.UseGalaxy {
		galaxyRules, validity := galaxyCandidates(t.Train, p)
		candidates = append(candidates, galaxyRules...)
		res.Validity = validity
	}
	res.Rules = rules.Validate(candidates, t.Train)

	for _, tc := range t.Test {
		out := rules.ApplyBest(res.Rules, tc.Input, t.Train)
		res.Outputs = append(res.Outputs, out)

		if tc.Output != nil {
			res.Scored++
			if out.Equal(tc.Output) {
				res.Correct++
			}
		}
	}
	return res
}

func proposeAll(train []task.Pair) []rules.Rule {
	var out []rules.Rule
	for _, g := range rules.Generators() {
		out = append(out, g.Propose(train)...)
	}
	return out
}

// hintCandidates turns detected grid structure into extra rule candidates:
// outputs that all share a mirror symmetry suggest symmetry completion,
// and closed rectangles across every input suggest region filling. Hints
// pass the same validation as every other candidate, so a misleading hint
// costs nothing.
func hintCandidates(train []task.Pair) []rules.Rule {
	var out []rules.Rule
	if everyOutputShows(train, pattern.KindHorizontalSymmetry) {
		out = append(out, rules.Rule{Kind: rules.KindSymmetry, Axis: rules.AxisHorizontal})
	}
	if everyOutputShows(train, pattern.KindVerticalSymmetry) {
		out = append(out, rules.Rule{Kind: rules.KindSymmetry, Axis: rules.AxisVertical})
	}
	if everyInputShows(train, pattern.KindRectangle) {
		out = append(out, rules.Rule{Kind: rules.KindPatternFill})
	}
	return out
}

func everyOutputShows(train []task.Pair, kind string) bool {
	for _, p := range train {
		if !shows(p.Output, kind) {
			return false
		}
	}
	return len(train) > 0
}

func everyInputShows(train []task.Pair, kind string) bool {
	for _, p := range train {
		if !shows(p.Input, kind) {
			return false
		}
	}
	return len(train) > 0
}

func shows(g *grid.Grid, kind string) bool {
	for _, p := range pattern.Detect(g) {
		if p.Kind == kind {
			return true
		}
	}
	return false
}

// galaxyCandidates evolves a seeded galaxy against the demonstrations and
// converts the dominant cluster's implied transform into candidate rules.
// The candidates go through the same validation as everything else, so a
// noisy galaxy can only ever add rules, never force one through.
func galaxyCandidates(train []task.Pair, p Params) ([]rules.Rule, float64) {
	store := particleStore(p)
	engine := dynamics.New(store, p.Dynamics)
	control := diversity.New(p.Diversity)
	judge := oracle.New(p.Oracle)

	var implied oracle.Transform
	for i := 0; i < p.Frames; i++ {
		engine.Step(p.Dt)
		clusters := cluster.Find(store, p.Dynamics.ConnectionRadius)
		control.Update(store, cluster.Memberships(clusters), p.Dt)
		implied, _ = judge.Evaluate(store, clusters, train, p.Dt)
	}

	var out []rules.Rule
	if implied.DX != 0 || implied.DY != 0 {
		out = append(out, rules.Rule{Kind: rules.KindTranslation, DX: implied.DX, DY: implied.DY})
	}
	if implied.Rotations != 0 {
		out = append(out, rules.Rule{Kind: rules.KindRotation, Turns: implied.Rotations})
	}
	return out, judge.Validity()
}

func particleStore(p Params) *particle.Store {
	return particle.NewStore(p.Neurons, p.Photons, rand.New(rand.NewSource(p.Seed)))
}
