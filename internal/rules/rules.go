// Package rules discovers grid transformation rules from demonstration
// pairs and applies them to new inputs. Discovery runs a registry of
// generators, each proposing candidate rules from the demonstrations; the
// candidates are then validated against every demonstration and kept only
// when they reproduce a majority of them exactly.
package rules

import (
	"fmt"
	"sort"

	"github.com/r-ferrin/galaxia/internal/grid"
)

// Kind identifies a rule family.
type Kind string

const (
	KindNone         Kind = "none"
	KindTranslation  Kind = "translation"
	KindRotation     Kind = "rotation"
	KindReflection   Kind = "reflection"
	KindColorMapping Kind = "color_mapping"
	KindPatternFill  Kind = "pattern_fill"
	KindConnectivity Kind = "connectivity"
	KindSymmetry     Kind = "symmetry"
	KindResize       Kind = "resize"
)

// Axis selects the mirror direction for reflection and symmetry rules.
type Axis string

const (
	AxisHorizontal Axis = "horizontal"
	AxisVertical   Axis = "vertical"
)

// Rule is one concrete transformation. Only the fields relevant to its
// Kind are meaningful.
type Rule struct {
	Kind       Kind
	Confidence float64

	DX, DY   int
	Turns    int
	Axis     Axis
	ColorMap map[int]int

	// ScaleW/ScaleH are per-axis size multipliers for resize rules.
	ScaleW, ScaleH int
}

func (r Rule) String() string {
	switch r.Kind {
	case KindTranslation:
		return fmt.Sprintf("%s(%d,%d)", r.Kind, r.DX, r.DY)
	case KindRotation:
		return fmt.Sprintf("%s(%d turns)", r.Kind, r.Turns)
	case KindReflection, KindSymmetry:
		return fmt.Sprintf("%s(%s)", r.Kind, r.Axis)
	case KindResize:
		return fmt.Sprintf("%s(%dx, %dx)", r.Kind, r.ScaleW, r.ScaleH)
	default:
		return string(r.Kind)
	}
}

// Apply transforms a grid under the rule. Unknown kinds and KindNone copy
// the input.
func (r Rule) Apply(g *grid.Grid) *grid.Grid {
	switch r.Kind {
	case KindTranslation:
		return g.Translate(r.DX, r.DY, 0)
	case KindRotation:
		return g.Rotate90(r.Turns)
	case KindReflection:
		if r.Axis == AxisVertical {
			return g.ReflectV()
		}
		return g.ReflectH()
	case KindColorMapping:
		return g.MapColors(r.ColorMap)
	case KindPatternFill:
		return fillBorderedRegions(g)
	case KindConnectivity:
		return connectColorPairs(g)
	case KindSymmetry:
		return symmetrize(g, r.Axis)
	case KindResize:
		if r.ScaleW < 1 || r.ScaleH < 1 {
			return g.Clone()
		}
		return g.Resample(g.Width()*r.ScaleW, g.Height()*r.ScaleH)
	default:
		return g.Clone()
	}
}

// fillBorderedRegions fills the interior of every rectangle whose full
// border is a single non-background color with that color.
func fillBorderedRegions(g *grid.Grid) *grid.Grid {
	out := g.Clone()
	w, h := g.Width(), g.Height()

	for y1 := 0; y1 < h; y1++ {
		for x1 := 0; x1 < w; x1++ {
			c := g.Get(x1, y1)
			if c <= 0 {
				continue
			}
			for y2 := y1 + 2; y2 < h; y2++ {
				for x2 := x1 + 2; x2 < w; x2++ {
					if !hasSolidBorder(g, x1, y1, x2, y2, c) {
						continue
					}
					for y := y1 + 1; y < y2; y++ {
						for x := x1 + 1; x < x2; x++ {
							out.Set(x, y, c)
						}
					}
				}
			}
		}
	}
	return out
}

func hasSolidBorder(g *grid.Grid, x1, y1, x2, y2, c int) bool {
	for x := x1; x <= x2; x++ {
		if g.Get(x, y1) != c || g.Get(x, y2) != c {
			return false
		}
	}
	for y := y1; y <= y2; y++ {
		if g.Get(x1, y) != c || g.Get(x2, y) != c {
			return false
		}
	}
	return true
}

// connectColorPairs draws a line between the two cells of every color that
// appears exactly twice.
func connectColorPairs(g *grid.Grid) *grid.Grid {
	out := g.Clone()

	positions := map[int][]grid.Point{}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if c := g.Get(x, y); c > 0 {
				positions[c] = append(positions[c], grid.Point{X: x, Y: y})
			}
		}
	}

	colors := make([]int, 0, len(positions))
	for c := range positions {
		colors = append(colors, c)
	}
	sort.Ints(colors)

	for _, c := range colors {
		pts := positions[c]
		if len(pts) == 2 {
			out.DrawLine(pts[0], pts[1], c)
		}
	}
	return out
}

// symmetrize completes the grid's mirror image: background cells take the
// color of their mirrored counterpart.
func symmetrize(g *grid.Grid, axis Axis) *grid.Grid {
	out := g.Clone()
	w, h := g.Width(), g.Height()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if out.Get(x, y) != 0 {
				continue
			}
			var mirrored int
			if axis == AxisVertical {
				mirrored = g.Get(x, h-1-y)
			} else {
				mirrored = g.Get(w-1-x, y)
			}
			if mirrored > 0 {
				out.Set(x, y, mirrored)
			}
		}
	}
	return out
}
