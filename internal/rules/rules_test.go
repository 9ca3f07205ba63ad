package rules

import (
	"testing"

	"github.com/r-ferrin/galaxia/internal/grid"
	"github.com/r-ferrin/galaxia/internal/task"
)

func pair(in, out [][]int) task.Pair {
	return task.Pair{Input: grid.FromRows(in), Output: grid.FromRows(out)}
}

func best(t *testing.T, train []task.Pair, kind Kind) Rule {
	t.Helper()
	for _, r := range Discover(train) {
		if r.Kind == kind {
			return r
		}
	}
	t.Fatalf("no %s rule discovered", kind)
	return Rule{}
}

func TestDiscoverTranslation(t *testing.T) {
	train := []task.Pair{
		pair(
			[][]int{{1, 0, 0}, {0, 0, 0}, {0, 0, 0}},
			[][]int{{0, 1, 0}, {0, 0, 0}, {0, 0, 0}},
		),
		pair(
			[][]int{{0, 0, 0}, {5, 0, 0}, {0, 0, 0}},
			[][]int{{0, 0, 0}, {0, 5, 0}, {0, 0, 0}},
		),
	}

	r := best(t, train, KindTranslation)
	if r.DX != 1 || r.DY != 0 {
		t.Fatalf("expected shift (1,0), got (%d,%d)", r.DX, r.DY)
	}
	if r.Confidence != 1.0 {
		t.Errorf("consistent shift should validate at 1.0, got %f", r.Confidence)
	}

	// Held-out input follows the same shift.
	test := grid.FromRows([][]int{{0, 0, 0}, {0, 0, 0}, {7, 0, 0}})
	got := r.Apply(test)
	if got.Get(1, 2) != 7 || got.Get(0, 2) != 0 {
		t.Errorf("held-out shift wrong: %v", got.Rows())
	}
}

func TestDiscoverColorMapping(t *testing.T) {
	train := []task.Pair{
		pair([][]int{{1, 0}, {0, 1}}, [][]int{{2, 0}, {0, 2}}),
		pair([][]int{{1, 1}, {0, 0}}, [][]int{{2, 2}, {0, 0}}),
	}

	r := best(t, train, KindColorMapping)
	if r.Confidence != 1.0 {
		t.Errorf("consistent recolor should validate at 1.0, got %f", r.Confidence)
	}
	if r.ColorMap[1] != 2 {
		t.Errorf("expected 1 -> 2, got %v", r.ColorMap)
	}
}

func TestCenterCellRecolorGeneralizes(t *testing.T) {
	// One demonstration recoloring the center cell; the discovered rule
	// must recolor the same color anywhere, not just at the center.
	train := []task.Pair{
		pair(
			[][]int{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}},
			[][]int{{0, 0, 0}, {0, 2, 0}, {0, 0, 0}},
		),
	}

	discovered := Discover(train)
	if len(discovered) == 0 {
		t.Fatal("no rules discovered")
	}
	r := discovered[0]
	if r.Kind != KindColorMapping || r.Confidence != 1.0 {
		t.Fatalf("expected a fully-validated color mapping, got %+v", r)
	}

	test := grid.FromRows([][]int{{1, 0, 0}, {0, 0, 0}, {0, 0, 0}})
	got := ApplyBest(discovered, test, train)
	if got.Get(0, 0) != 2 {
		t.Errorf("corner cell not recolored: %v", got.Rows())
	}
}

func TestDiscoverReflection(t *testing.T) {
	train := []task.Pair{
		pair([][]int{{1, 2}, {3, 4}}, [][]int{{2, 1}, {4, 3}}),
		pair([][]int{{5, 0}, {0, 6}}, [][]int{{0, 5}, {6, 0}}),
	}

	r := best(t, train, KindReflection)
	if r.Axis != AxisHorizontal || r.Confidence != 1.0 {
		t.Errorf("expected horizontal mirror at 1.0, got %+v", r)
	}
}

func TestDiscoverRotation(t *testing.T) {
	in := grid.FromRows([][]int{{1, 2}, {0, 0}})
	train := []task.Pair{{Input: in, Output: in.Rotate90(2)}}

	r := best(t, train, KindRotation)
	if r.Turns != 2 {
		t.Errorf("expected a half turn, got %d", r.Turns)
	}
}

func TestBorderFill(t *testing.T) {
	train := []task.Pair{
		pair(
			[][]int{
				{2, 2, 2, 2},
				{2, 0, 0, 2},
				{2, 0, 0, 2},
				{2, 2, 2, 2},
			},
			[][]int{
				{2, 2, 2, 2},
				{2, 2, 2, 2},
				{2, 2, 2, 2},
				{2, 2, 2, 2},
			},
		),
	}

	r := best(t, train, KindPatternFill)
	if r.Confidence != 1.0 {
		t.Errorf("border fill should validate at 1.0, got %f", r.Confidence)
	}

	// A smaller bordered region in a held-out grid fills the same way.
	test := grid.FromRows([][]int{
		{0, 3, 3, 3},
		{0, 3, 0, 3},
		{0, 3, 3, 3},
		{0, 0, 0, 0},
	})
	got := r.Apply(test)
	if got.Get(2, 1) != 3 {
		t.Errorf("interior not filled: %v", got.Rows())
	}
	if got.Get(0, 0) != 0 {
		t.Errorf("cells outside the border must not change: %v", got.Rows())
	}
}

func TestDiscoverConnectivity(t *testing.T) {
	in := grid.FromRows([][]int{
		{4, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 4},
	})
	out := in.Clone()
	out.DrawLine(grid.Point{X: 0, Y: 0}, grid.Point{X: 3, Y: 3}, 4)

	r := best(t, []task.Pair{{Input: in, Output: out}}, KindConnectivity)
	if r.Confidence != 1.0 {
		t.Errorf("pair connection should validate at 1.0, got %f", r.Confidence)
	}
}

func TestDiscoverSymmetryCompletion(t *testing.T) {
	in := grid.FromRows([][]int{
		{1, 2, 0, 0},
		{0, 5, 0, 0},
	})
	out := grid.FromRows([][]int{
		{1, 2, 2, 1},
		{0, 5, 5, 0},
	})

	r := best(t, []task.Pair{{Input: in, Output: out}}, KindSymmetry)
	if r.Axis != AxisHorizontal {
		t.Errorf("expected horizontal completion, got %+v", r)
	}
}

func TestDiscoverResize(t *testing.T) {
	in := grid.FromRows([][]int{{1, 2}})
	train := []task.Pair{{Input: in, Output: in.Resample(4, 2)}}

	r := best(t, train, KindResize)
	if r.ScaleW != 2 || r.ScaleH != 2 {
		t.Errorf("expected 2x scale, got %dx%d", r.ScaleW, r.ScaleH)
	}
}

func TestValidateDropsWeakRules(t *testing.T) {
	// The shift fits only one of three demonstrations: 1/3 < 1/2.
	train := []task.Pair{
		pair([][]int{{1, 0}}, [][]int{{0, 1}}),
		pair([][]int{{1, 0}}, [][]int{{1, 0}}),
		pair([][]int{{1, 0}}, [][]int{{1, 0}}),
	}

	kept := Validate([]Rule{{Kind: KindTranslation, DX: 1}}, train)
	if len(kept) != 0 {
		t.Errorf("rule matching 1/3 of demonstrations should be dropped, got %+v", kept)
	}
}

func TestValidateSortsByConfidence(t *testing.T) {
	train := []task.Pair{
		pair([][]int{{1, 0}}, [][]int{{0, 1}}),
		pair([][]int{{2, 0}}, [][]int{{0, 2}}),
		pair([][]int{{1, 1}}, [][]int{{2, 2}}),
	}

	kept := Validate([]Rule{
		{Kind: KindColorMapping, ColorMap: map[int]int{1: 2}}, // 1/3, dropped
		{Kind: KindTranslation, DX: 1},                        // 2/3, kept
	}, train)

	if len(kept) != 1 || kept[0].Kind != KindTranslation {
		t.Fatalf("unexpected survivors: %+v", kept)
	}
	if kept[0].Confidence < 0.66 || kept[0].Confidence > 0.67 {
		t.Errorf("expected confidence 2/3, got %f", kept[0].Confidence)
	}
}

func TestApplyBestChainsCompatibleRules(t *testing.T) {
	train := []task.Pair{
		pair([][]int{{1, 0}}, [][]int{{0, 2}}),
	}
	chainRules := []Rule{
		{Kind: KindTranslation, DX: 1, Confidence: 0.9},
		{Kind: KindColorMapping, ColorMap: map[int]int{1: 2}, Confidence: 0.8},
	}

	got := ApplyBest(chainRules, grid.FromRows([][]int{{1, 0}}), train)
	if !got.Equal(grid.FromRows([][]int{{0, 2}})) {
		t.Errorf("chain not applied: %v", got.Rows())
	}
}

func TestApplyBestRejectsHarmfulExtension(t *testing.T) {
	train := []task.Pair{
		pair([][]int{{1, 0}}, [][]int{{0, 1}}),
	}
	chainRules := []Rule{
		{Kind: KindTranslation, DX: 1, Confidence: 1.0},
		{Kind: KindColorMapping, ColorMap: map[int]int{1: 9}, Confidence: 0.8},
	}

	got := ApplyBest(chainRules, grid.FromRows([][]int{{1, 0}}), train)
	if !got.Equal(grid.FromRows([][]int{{0, 1}})) {
		t.Errorf("extension broke an exact chain: %v", got.Rows())
	}
}

func TestApplyBestWithNoRulesCopiesInput(t *testing.T) {
	g := grid.FromRows([][]int{{1, 2}})
	got := ApplyBest(nil, g, nil)
	if !got.Equal(g) {
		t.Errorf("expected unchanged copy, got %v", got.Rows())
	}
	got.Set(0, 0, 9)
	if g.Get(0, 0) != 1 {
		t.Error("result aliases the input")
	}
}
