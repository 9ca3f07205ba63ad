package viz

import (
	"strings"
	"testing"

	"github.com/r-ferrin/galaxia/internal/particle"
	"github.com/r-ferrin/galaxia/internal/vec"
)

func TestCanvasPlotsWithinBounds(t *testing.T) {
	c := NewCanvas(10, 10, 100)
	neurons := []particle.Neuron{
		{Position: vec.New(0, 0, 0), Luminosity: 1, Spectrum: particle.SpectrumYellow},
		{Position: vec.New(99999, 0, 0), Luminosity: 1}, // off canvas
	}

	c.Plot(neurons)
	out := c.String()

	if !strings.ContainsRune(out, '+') {
		t.Error("central neuron not drawn")
	}
	if lines := strings.Split(out, "\n"); len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}
}

func TestCanvasBrighterNeuronWins(t *testing.T) {
	c := NewCanvas(10, 10, 100)
	neurons := []particle.Neuron{
		{Position: vec.New(0, 0, 0), Luminosity: 1, Spectrum: particle.SpectrumRed},
		{Position: vec.New(0, 0, 0), Luminosity: 5, Spectrum: particle.SpectrumBlue},
	}

	c.Plot(neurons)

	if !strings.ContainsRune(c.String(), '*') {
		t.Error("brighter blue neuron should own the contested cell")
	}
	if strings.ContainsRune(c.String(), ',') {
		t.Error("dimmer red neuron should be hidden")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(4, 4, 100)
	c.Plot([]particle.Neuron{{Position: vec.New(0, 0, 0), Luminosity: 1}})
	c.Clear()

	if out := c.String(); strings.TrimSpace(out) != "" {
		t.Errorf("canvas not empty after clear: %q", out)
	}
}
