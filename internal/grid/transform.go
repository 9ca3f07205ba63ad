package grid

// Rotate90 returns the grid rotated clockwise by times quarter turns.
func (g *Grid) Rotate90(times int) *Grid {
	times = ((times % 4) + 4) % 4
	out := g.Clone()
	for t := 0; t < times; t++ {
		rotated := New(out.Height(), out.Width())
		for y := 0; y < out.Height(); y++ {
			for x := 0; x < out.Width(); x++ {
				rotated.Set(out.Height()-1-y, x, out.Get(x, y))
			}
		}
		out = rotated
	}
	return out
}

// ReflectH mirrors the grid across its vertical axis (left/right swap).
func (g *Grid) ReflectH() *Grid {
	out := New(g.Width(), g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			out.Set(g.Width()-1-x, y, g.Get(x, y))
		}
	}
	return out
}

// ReflectV mirrors the grid across its horizontal axis (top/bottom swap).
func (g *Grid) ReflectV() *Grid {
	out := New(g.Width(), g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			out.Set(x, g.Height()-1-y, g.Get(x, y))
		}
	}
	return out
}

// Translate shifts every cell by (dx, dy). Cells shifted off the edge are
// dropped; vacated cells take the background color.
func (g *Grid) Translate(dx, dy, background int) *Grid {
	out := New(g.Width(), g.Height())
	for i := range out.cells {
		out.cells[i] = background
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			out.Set(x+dx, y+dy, g.Get(x, y))
		}
	}
	return out
}

// MapColors rewrites cells through the mapping; colors without an entry
// pass through unchanged.
func (g *Grid) MapColors(mapping map[int]int) *Grid {
	out := g.Clone()
	for i, c := range out.cells {
		if to, ok := mapping[c]; ok {
			out.cells[i] = to
		}
	}
	return out
}

// Resample scales the grid to the target dimensions with nearest-neighbor
// lookup. Zero or negative targets yield an empty grid.
func (g *Grid) Resample(width, height int) *Grid {
	out := New(width, height)
	if g.Width() == 0 || g.Height() == 0 {
		return out
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx := x * g.Width() / width
			sy := y * g.Height() / height
			out.Set(x, y, g.Get(sx, sy))
		}
	}
	return out
}
