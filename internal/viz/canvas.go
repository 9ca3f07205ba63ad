package viz

import (
	"strings"

	"github.com/r-ferrin/galaxia/internal/particle"
)

// Canvas projects the galaxy's disk plane onto a rune grid. Brighter
// neurons win contested cells.
type Canvas struct {
	width, height int
	cells         []rune
	brightness    []float64
	// Scale is the world radius mapped to the canvas half-width.
	Scale float64
}

func NewCanvas(width, height int, scale float64) *Canvas {
	return &Canvas{
		width:      width,
		height:     height,
		cells:      make([]rune, width*height),
		brightness: make([]float64, width*height),
		Scale:      scale,
	}
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = ' '
		c.brightness[i] = 0
	}
}

// Plot draws the population, one glyph per neuron, spectral class deciding
// the glyph.
func (c *Canvas) Plot(neurons []particle.Neuron) {
	c.Clear()
	for i := range neurons {
		n := &neurons[i]
		x := int((n.Position.X/c.Scale + 1) / 2 * float64(c.width))
		y := int((n.Position.Z/c.Scale + 1) / 2 * float64(c.height))
		if x < 0 || x >= c.width || y < 0 || y >= c.height {
			continue
		}
		idx := y*c.width + x
		if n.Luminosity >= c.brightness[idx] {
			c.cells[idx] = glyph(n)
			c.brightness[idx] = n.Luminosity
		}
	}
}

func glyph(n *particle.Neuron) rune {
	switch n.Spectrum {
	case particle.SpectrumBlue:
		return '*'
	case particle.SpectrumWhite:
		return 'o'
	case particle.SpectrumYellow:
		return '+'
	case particle.SpectrumOrange:
		return '.'
	default:
		return ','
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow((c.width + 1) * c.height)
	for y := 0; y < c.height; y++ {
		b.WriteString(string(c.cells[y*c.width : (y+1)*c.width]))
		if y < c.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
