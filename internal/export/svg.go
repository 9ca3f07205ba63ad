// Package export renders stored population snapshots to SVG, one dot per
// neuron, colored by spectral class and sized by luminosity.
package export

import (
	"fmt"
	"io"

	"github.com/r-ferrin/galaxia/internal/particle"
)

// fill maps a spectral class to its display color.
func fill(class particle.SpectralClass) string {
	switch class {
	case particle.SpectrumBlue:
		return "#8ab4ff"
	case particle.SpectrumWhite:
		return "#f4f4f4"
	case particle.SpectrumYellow:
		return "#ffd75e"
	case particle.SpectrumOrange:
		return "#ff9d45"
	default:
		return "#ff5e45"
	}
}

// SnapshotSVG writes the disk-plane projection of a snapshot. worldScale
// is the world radius mapped to the image half-width.
func SnapshotSVG(w io.Writer, states []particle.NeuronState, size int, worldScale float64) error {
	if size <= 0 || worldScale <= 0 {
		return fmt.Errorf("size and scale must be positive")
	}

	if _, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#05060f"/>
`, size, size, size, size); err != nil {
		return err
	}

	half := float64(size) / 2
	for i := range states {
		s := &states[i]
		cx := half + s.X/worldScale*half
		cy := half + s.Z/worldScale*half
		if cx < 0 || cx > float64(size) || cy < 0 || cy > float64(size) {
			continue
		}

		r := 0.8 + s.Luminosity*0.15
		if r > 4 {
			r = 4
		}
		class := particle.ClassifySpectrum(s.Temperature)

		if _, err := fmt.Fprintf(w, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			cx, cy, r, fill(class)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "</svg>\n")
	return err
}
