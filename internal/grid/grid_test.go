package grid

import "testing"

func TestOutOfBounds(t *testing.T) {
	g := New(3, 3)
	g.Set(1, 1, 5)

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"x past width", 3, 0},
		{"y past height", 0, 3},
		{"far out", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Get(tt.x, tt.y); got != Invalid {
				t.Errorf("expected sentinel %d, got %d", Invalid, got)
			}

			before := g.Clone()
			g.Set(tt.x, tt.y, 9)
			if !g.Equal(before) {
				t.Error("out-of-bounds write modified the grid")
			}
		})
	}
}

func TestEqualAndClone(t *testing.T) {
	a := FromRows([][]int{{1, 2}, {3, 4}})
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("clone not equal to original")
	}
	b.Set(0, 0, 9)
	if a.Equal(b) {
		t.Error("mutation of clone leaked into original")
	}
	if a.Equal(New(2, 3)) {
		t.Error("grids of different shapes reported equal")
	}
}

func TestSimilarity(t *testing.T) {
	a := FromRows([][]int{{1, 0}, {0, 1}})
	b := FromRows([][]int{{1, 0}, {0, 2}})

	if got := Similarity(a, a.Clone()); got != 1.0 {
		t.Errorf("identical grids: expected 1.0, got %f", got)
	}
	if got := Similarity(a, b); got != 0.75 {
		t.Errorf("expected 0.75, got %f", got)
	}
	if got := Similarity(a, New(3, 3)); got != 0 {
		t.Errorf("shape mismatch: expected 0, got %f", got)
	}
}

func TestComponents(t *testing.T) {
	g := FromRows([][]int{
		{1, 1, 0, 2},
		{1, 0, 0, 2},
		{0, 0, 0, 0},
	})

	comps := g.Components()
	if len(comps) != 2 {
		t.Fatalf("expected 2 components, got %d", len(comps))
	}

	sizes := map[int]int{}
	for _, c := range comps {
		sizes[len(c)]++
	}
	if sizes[3] != 1 || sizes[2] != 1 {
		t.Errorf("unexpected component sizes: %v", sizes)
	}
}

func TestDrawLine(t *testing.T) {
	g := New(5, 5)
	g.DrawLine(Point{0, 0}, Point{4, 4}, 3)

	for i := 0; i < 5; i++ {
		if g.Get(i, i) != 3 {
			t.Errorf("diagonal cell (%d,%d) not drawn", i, i)
		}
	}

	// Endpoints outside the grid clip instead of panicking.
	g.DrawLine(Point{-2, 2}, Point{6, 2}, 4)
	for x := 0; x < 5; x++ {
		if g.Get(x, 2) != 4 {
			t.Errorf("clipped line missing cell (%d,2)", x)
		}
	}
}
