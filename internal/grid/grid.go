// Package grid provides the 2-D colored grid that the reasoning engine
// consumes and produces. Cells hold small integer color codes; color 0 is
// background. Reads outside the bounds return [Invalid], writes outside
// the bounds are silently dropped.
package grid

// Invalid is the sentinel returned for out-of-bounds reads.
const Invalid = -1

// NumColors is the size of the color alphabet (0 = background).
const NumColors = 10

type Grid struct {
	cells  []int
	width  int
	height int
}

func New(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		cells:  make([]int, width*height),
		width:  width,
		height: height,
	}
}

// FromRows builds a grid from row-major data. Ragged rows are truncated
// or zero-padded to the first row's width.
func FromRows(rows [][]int) *Grid {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	g := New(w, h)
	for y, row := range rows {
		for x := 0; x < w && x < len(row); x++ {
			g.cells[y*w+x] = row[x]
		}
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) Get(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Invalid
	}
	return g.cells[y*g.width+x]
}

func (g *Grid) Set(x, y, value int) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = value
}

func (g *Grid) Clone() *Grid {
	c := New(g.width, g.height)
	copy(c.cells, g.cells)
	return c
}

func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.width != o.width || g.height != o.height {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a row-major copy of the cell data.
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.height)
	for y := 0; y < g.height; y++ {
		rows[y] = make([]int, g.width)
		copy(rows[y], g.cells[y*g.width:(y+1)*g.width])
	}
	return rows
}

// Colors returns the set of colors present in the grid.
func (g *Grid) Colors() map[int]bool {
	colors := make(map[int]bool)
	for _, c := range g.cells {
		colors[c] = true
	}
	return colors
}

// Similarity is the fraction of cells equal between two same-sized grids;
// grids of different shapes score 0.
func Similarity(a, b *Grid) float64 {
	if a == nil || b == nil || a.width != b.width || a.height != b.height {
		return 0
	}
	total := a.width * a.height
	if total == 0 {
		return 0
	}
	matches := 0
	for i := range a.cells {
		if a.cells[i] == b.cells[i] {
			matches++
		}
	}
	return float64(matches) / float64(total)
}

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Components returns the 4-connected components of non-background cells.
// Cells of different colors belong to different components.
func (g *Grid) Components() [][]Point {
	visited := make([]bool, len(g.cells))
	var components [][]Point

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			idx := y*g.width + x
			if visited[idx] || g.cells[idx] == 0 {
				continue
			}
			color := g.cells[idx]
			var comp []Point
			stack := []Point{{x, y}}
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if p.X < 0 || p.X >= g.width || p.Y < 0 || p.Y >= g.height {
					continue
				}
				i := p.Y*g.width + p.X
				if visited[i] || g.cells[i] != color {
					continue
				}
				visited[i] = true
				comp = append(comp, p)
				stack = append(stack,
					Point{p.X + 1, p.Y}, Point{p.X - 1, p.Y},
					Point{p.X, p.Y + 1}, Point{p.X, p.Y - 1})
			}
			components = append(components, comp)
		}
	}
	return components
}

// DrawLine writes color along the Bresenham line from a to b, clipping
// at the grid edges.
func (g *Grid) DrawLine(a, b Point, color int) {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		g.Set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
