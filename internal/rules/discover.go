package rules

import (
	"sort"

	"github.com/r-ferrin/galaxia/internal/grid"
	"github.com/r-ferrin/galaxia/internal/task"
)

// Generator proposes candidate rules from demonstration pairs. Proposals
// are cheap guesses; Validate decides what survives.
type Generator interface {
	Name() string
	Propose(train []task.Pair) []Rule
}

// Generators is the default registry, in proposal order.
func Generators() []Generator {
	return []Generator{
		resizeGenerator{},
		translationGenerator{},
		rotationGenerator{},
		reflectionGenerator{},
		colorMappingGenerator{},
		patternFillGenerator{},
		connectivityGenerator{},
		symmetryGenerator{},
	}
}

// MinConfidence is the validation floor: rules reproducing fewer than half
// the demonstrations exactly are discarded.
const MinConfidence = 0.5

// ChainConfidence is the floor for secondary rules in a chain.
const ChainConfidence = 0.7

// Discover proposes rules from every registered generator and validates
// them against all demonstrations. The result is sorted by confidence,
// strongest first; it may be empty.
func Discover(train []task.Pair) []Rule {
	var candidates []Rule
	for _, g := range Generators() {
		candidates = append(candidates, g.Propose(train)...)
	}
	return Validate(candidates, train)
}

// Validate scores each candidate as the fraction of demonstrations it
// reproduces exactly, drops those below MinConfidence, and sorts the rest
// by confidence descending.
func Validate(candidates []Rule, train []task.Pair) []Rule {
	if len(train) == 0 {
		return nil
	}

	var out []Rule
	for _, r := range candidates {
		exact := 0
		for _, p := range train {
			if r.Apply(p.Input).Equal(p.Output) {
				exact++
			}
		}
		r.Confidence = float64(exact) / float64(len(train))
		if r.Confidence >= MinConfidence {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// ApplyBest applies the strongest rule, then chains up to two further
// rules of other kinds whose confidence clears ChainConfidence, keeping
// each extension only when it does not break any demonstration the chain
// already reproduced. With no rules the input is returned unchanged.
func ApplyBest(rules []Rule, g *grid.Grid, train []task.Pair) *grid.Grid {
	if len(rules) == 0 {
		return g.Clone()
	}

	chain := []Rule{rules[0]}
	for _, r := range rules[1:] {
		if len(chain) >= 3 {
			break
		}
		if r.Confidence < ChainConfidence || sameKind(chain, r.Kind) {
			continue
		}
		if chainScore(append(append([]Rule{}, chain...), r), train) >= chainScore(chain, train) {
			chain = append(chain, r)
		}
	}

	out := g
	for _, r := range chain {
		out = r.Apply(out)
	}
	return out
}

func sameKind(chain []Rule, k Kind) bool {
	for _, r := range chain {
		if r.Kind == k {
			return true
		}
	}
	return false
}

func chainScore(chain []Rule, train []task.Pair) float64 {
	if len(train) == 0 {
		return 0
	}
	exact := 0
	for _, p := range train {
		out := p.Input
		for _, r := range chain {
			out = r.Apply(out)
		}
		if out.Equal(p.Output) {
			exact++
		}
	}
	return float64(exact) / float64(len(train))
}

type resizeGenerator struct{}

func (resizeGenerator) Name() string { return "resize" }

// Propose emits a resize rule when every demonstration scales its input by
// the same whole-number factor per axis.
func (resizeGenerator) Propose(train []task.Pair) []Rule {
	if len(train) == 0 {
		return nil
	}

	sw, sh := 0, 0
	for _, p := range train {
		iw, ih := p.Input.Width(), p.Input.Height()
		ow, oh := p.Output.Width(), p.Output.Height()
		if iw == 0 || ih == 0 || ow%iw != 0 || oh%ih != 0 {
			return nil
		}
		w, h := ow/iw, oh/ih
		if sw == 0 {
			sw, sh = w, h
		} else if w != sw || h != sh {
			return nil
		}
	}

	if sw == 1 && sh == 1 {
		return nil
	}
	return []Rule{{Kind: KindResize, ScaleW: sw, ScaleH: sh}}
}

type translationGenerator struct{}

func (translationGenerator) Name() string { return "translation" }

// Propose reads the shift between the non-background bounding boxes of the
// first demonstration.
func (translationGenerator) Propose(train []task.Pair) []Rule {
	if len(train) == 0 {
		return nil
	}
	p := train[0]
	if p.Input.Width() != p.Output.Width() || p.Input.Height() != p.Output.Height() {
		return nil
	}

	ix, iy, iok := boundsMin(p.Input)
	ox, oy, ook := boundsMin(p.Output)
	if !iok || !ook {
		return nil
	}

	dx, dy := ox-ix, oy-iy
	if dx == 0 && dy == 0 {
		return nil
	}
	return []Rule{{Kind: KindTranslation, DX: dx, DY: dy}}
}

func boundsMin(g *grid.Grid) (minX, minY int, ok bool) {
	minX, minY = g.Width(), g.Height()
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Get(x, y) > 0 {
				ok = true
				if x < minX {
					minX = x
				}
				if y < minY {
					minY = y
				}
			}
		}
	}
	return minX, minY, ok
}

type rotationGenerator struct{}

func (rotationGenerator) Name() string { return "rotation" }

func (rotationGenerator) Propose(train []task.Pair) []Rule {
	return []Rule{
		{Kind: KindRotation, Turns: 1},
		{Kind: KindRotation, Turns: 2},
		{Kind: KindRotation, Turns: 3},
	}
}

type reflectionGenerator struct{}

func (reflectionGenerator) Name() string { return "reflection" }

func (reflectionGenerator) Propose(train []task.Pair) []Rule {
	return []Rule{
		{Kind: KindReflection, Axis: AxisHorizontal},
		{Kind: KindReflection, Axis: AxisVertical},
	}
}

type colorMappingGenerator struct{}

func (colorMappingGenerator) Name() string { return "color_mapping" }

// Propose builds a color map from the cellwise differences of the first
// demonstration. The map must be a function: a source color rewriting to
// two different targets disqualifies the candidate.
func (colorMappingGenerator) Propose(train []task.Pair) []Rule {
	if len(train) == 0 {
		return nil
	}
	p := train[0]
	if p.Input.Width() != p.Output.Width() || p.Input.Height() != p.Output.Height() {
		return nil
	}

	mapping := map[int]int{}
	for y := 0; y < p.Input.Height(); y++ {
		for x := 0; x < p.Input.Width(); x++ {
			from, to := p.Input.Get(x, y), p.Output.Get(x, y)
			if from == to {
				continue
			}
			if prev, seen := mapping[from]; seen && prev != to {
				return nil
			}
			mapping[from] = to
		}
	}

	if len(mapping) == 0 {
		return nil
	}
	return []Rule{{Kind: KindColorMapping, ColorMap: mapping}}
}

type patternFillGenerator struct{}

func (patternFillGenerator) Name() string { return "pattern_fill" }

func (patternFillGenerator) Propose(train []task.Pair) []Rule {
	return []Rule{{Kind: KindPatternFill}}
}

type connectivityGenerator struct{}

func (connectivityGenerator) Name() string { return "connectivity" }

func (connectivityGenerator) Propose(train []task.Pair) []Rule {
	return []Rule{{Kind: KindConnectivity}}
}

type symmetryGenerator struct{}

func (symmetryGenerator) Name() string { return "symmetry" }

func (symmetryGenerator) Propose(train []task.Pair) []Rule {
	return []Rule{
		{Kind: KindSymmetry, Axis: AxisHorizontal},
		{Kind: KindSymmetry, Axis: AxisVertical},
	}
}
