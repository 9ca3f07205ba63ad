package particle

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// NeuronState is the read-only per-neuron view handed to visualization and
// persistence consumers. Field order matches the snapshot text format.
type NeuronState struct {
	X, Y, Z     float64
	VX, VY, VZ  float64
	Mass        float64
	Luminosity  float64
	Temperature float64
}

// Snapshot exports the neuron population. The returned slice is a copy;
// consumers cannot feed anything back into the store.
func (s *Store) Snapshot() []NeuronState {
	out := make([]NeuronState, len(s.Neurons))
	for i := range s.Neurons {
		n := &s.Neurons[i]
		out[i] = NeuronState{
			X: n.Position.X, Y: n.Position.Y, Z: n.Position.Z,
			VX: n.Velocity.X, VY: n.Velocity.Y, VZ: n.Velocity.Z,
			Mass:        n.Mass,
			Luminosity:  n.Luminosity,
			Temperature: n.Temperature,
		}
	}
	return out
}

// WriteSnapshot writes one neuron per line in the stable whitespace format:
// x y z vx vy vz mass luminosity temperature. Consumers of saved state rely
// on this field order.
func WriteSnapshot(w io.Writer, states []NeuronState) error {
	bw := bufio.NewWriter(w)
	for _, n := range states {
		_, err := fmt.Fprintf(bw, "%g %g %g %g %g %g %g %g %g\n",
			n.X, n.Y, n.Z, n.VX, n.VY, n.VZ, n.Mass, n.Luminosity, n.Temperature)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadSnapshot parses the whitespace snapshot format. Blank lines and lines
// starting with '#' are skipped.
func ReadSnapshot(r io.Reader) ([]NeuronState, error) {
	var states []NeuronState
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var n NeuronState
		_, err := fmt.Sscan(text,
			&n.X, &n.Y, &n.Z, &n.VX, &n.VY, &n.VZ, &n.Mass, &n.Luminosity, &n.Temperature)
		if err != nil {
			return nil, fmt.Errorf("snapshot line %d: %w", line, err)
		}
		states = append(states, n)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return states, nil
}
