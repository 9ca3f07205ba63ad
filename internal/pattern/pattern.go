// Package pattern finds structural regularities in colored grids:
// rectangles, straight runs, mirror symmetries, and tiled repetitions. Each
// finding carries a confidence reflecting how constrained the structure is;
// downstream rule discovery uses the findings as hints, not as ground truth.
package pattern

import (
	"fmt"
	"sort"

	"github.com/r-ferrin/galaxia/internal/grid"
)

// Kinds of detected structure.
const (
	KindRectangle          = "rectangle"
	KindHorizontalLine     = "horizontal_line"
	KindVerticalLine       = "vertical_line"
	KindHorizontalSymmetry = "horizontal_symmetry"
	KindVerticalSymmetry   = "vertical_symmetry"
)

// RepetitionKind names a tiled repetition of NxN blocks.
func RepetitionKind(n int) string { return fmt.Sprintf("repetition_%dx%d", n, n) }

const (
	rectangleConfidence = 0.8
	lineConfidence      = 0.7
	symmetryConfidence  = 0.9
	minLineLength       = 3
)

// Pattern is one detected structure. Cells lists the participating
// positions; for symmetries it is empty since the whole grid participates.
type Pattern struct {
	Kind       string
	Confidence float64
	Color      int
	Cells      []grid.Point
}

// Detect runs every detector over the grid, strongest findings first.
func Detect(g *grid.Grid) []Pattern {
	var out []Pattern
	out = append(out, detectSymmetries(g)...)
	out = append(out, detectRectangles(g)...)
	out = append(out, detectLines(g)...)
	out = append(out, detectRepetitions(g)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// detectRectangles finds axis-aligned rectangles whose four corners share a
// non-background color.
func detectRectangles(g *grid.Grid) []Pattern {
	var out []Pattern
	w, h := g.Width(), g.Height()

	for y1 := 0; y1 < h; y1++ {
		for x1 := 0; x1 < w; x1++ {
			c := g.Get(x1, y1)
			if c <= 0 {
				continue
			}
			for y2 := y1 + 1; y2 < h; y2++ {
				for x2 := x1 + 1; x2 < w; x2++ {
					if g.Get(x2, y1) == c && g.Get(x1, y2) == c && g.Get(x2, y2) == c {
						out = append(out, Pattern{
							Kind:       KindRectangle,
							Confidence: rectangleConfidence,
							Color:      c,
							Cells: []grid.Point{
								{X: x1, Y: y1}, {X: x2, Y: y1},
								{X: x1, Y: y2}, {X: x2, Y: y2},
							},
						})
					}
				}
			}
		}
	}
	return out
}

// detectLines finds maximal horizontal and vertical runs of one
// non-background color, at least minLineLength cells long.
func detectLines(g *grid.Grid) []Pattern {
	var out []Pattern
	w, h := g.Width(), g.Height()

	for y := 0; y < h; y++ {
		for x := 0; x < w; {
			c := g.Get(x, y)
			end := x
			for end < w && g.Get(end, y) == c {
				end++
			}
			if c > 0 && end-x >= minLineLength {
				out = append(out, linePattern(KindHorizontalLine, c, x, y, end-x, 1, 0))
			}
			x = end
		}
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; {
			c := g.Get(x, y)
			end := y
			for end < h && g.Get(x, end) == c {
				end++
			}
			if c > 0 && end-y >= minLineLength {
				out = append(out, linePattern(KindVerticalLine, c, x, y, end-y, 0, 1))
			}
			y = end
		}
	}
	return out
}

func linePattern(kind string, color, x, y, length, dx, dy int) Pattern {
	cells := make([]grid.Point, length)
	for i := range cells {
		cells[i] = grid.Point{X: x + i*dx, Y: y + i*dy}
	}
	return Pattern{Kind: kind, Confidence: lineConfidence, Color: color, Cells: cells}
}

// detectSymmetries checks mirror equality across the vertical and the
// horizontal axis of the whole grid.
func detectSymmetries(g *grid.Grid) []Pattern {
	var out []Pattern
	w, h := g.Width(), g.Height()
	if w == 0 || h == 0 {
		return nil
	}

	horizontal := true
	for y := 0; y < h && horizontal; y++ {
		for x := 0; x < w; x++ {
			if g.Get(x, y) != g.Get(w-1-x, y) {
				horizontal = false
				break
			}
		}
	}
	if horizontal {
		out = append(out, Pattern{Kind: KindHorizontalSymmetry, Confidence: symmetryConfidence})
	}

	vertical := true
	for y := 0; y < h && vertical; y++ {
		for x := 0; x < w; x++ {
			if g.Get(x, y) != g.Get(x, h-1-y) {
				vertical = false
				break
			}
		}
	}
	if vertical {
		out = append(out, Pattern{Kind: KindVerticalSymmetry, Confidence: symmetryConfidence})
	}
	return out
}

// detectRepetitions hashes every NxN window at every offset, for each N up
// to half the smaller dimension, and reports window contents appearing at
// least twice. Scanning at unit stride catches repeats that do not sit on a
// block-aligned lattice. Confidence grows with the repeat count, capped
// at 1.
func detectRepetitions(g *grid.Grid) []Pattern {
	var out []Pattern
	w, h := g.Width(), g.Height()

	limit := w
	if h < limit {
		limit = h
	}
	limit /= 2

	for n := 2; n <= limit; n++ {
		groups := map[string][]grid.Point{}

		for y := 0; y+n <= h; y++ {
			for x := 0; x+n <= w; x++ {
				groups[tileKey(g, x, y, n)] = append(groups[tileKey(g, x, y, n)], grid.Point{X: x, Y: y})
			}
		}

		for _, anchors := range groups {
			if len(anchors) < 2 {
				continue
			}
			var cells []grid.Point
			for _, a := range anchors {
				for dy := 0; dy < n; dy++ {
					for dx := 0; dx < n; dx++ {
						cells = append(cells, grid.Point{X: a.X + dx, Y: a.Y + dy})
					}
				}
			}
			conf := 0.6 + 0.1*float64(len(anchors))
			if conf > 1 {
				conf = 1
			}
			out = append(out, Pattern{
				Kind:       RepetitionKind(n),
				Confidence: conf,
				Cells:      cells,
			})
		}
	}
	return out
}

func tileKey(g *grid.Grid, x, y, n int) string {
	key := make([]byte, 0, n*n)
	for dy := 0; dy < n; dy++ {
		for dx := 0; dx < n; dx++ {
			key = append(key, byte(g.Get(x+dx, y+dy)))
		}
	}
	return string(key)
}
