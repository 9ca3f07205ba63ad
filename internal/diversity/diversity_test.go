package diversity

import (
	"math/rand"
	"testing"

	"github.com/r-ferrin/galaxia/internal/particle"
	"github.com/r-ferrin/galaxia/internal/vec"
)

func TestTemperatureCoolsToFloor(t *testing.T) {
	c := New(DefaultParams())
	s := particle.NewStore(0, 0, rand.New(rand.NewSource(1)))

	for i := 0; i < 5000; i++ {
		c.Update(s, nil, 0.016)
	}

	if c.Temperature() != DefaultParams().MinTemperature {
		t.Errorf("expected temperature at floor %f, got %f",
			DefaultParams().MinTemperature, c.Temperature())
	}
}

func TestLuminosityStaysClamped(t *testing.T) {
	s := particle.NewStore(50, 0, rand.New(rand.NewSource(3)))
	params := DefaultParams()
	c := New(params)

	// Push some values out of range first; Update must pull them back.
	s.Neurons[0].Luminosity = 1e6
	s.Neurons[1].Luminosity = 1e-9

	for i := 0; i < 20; i++ {
		c.Update(s, nil, 0.016)
	}

	for i := range s.Neurons {
		l := s.Neurons[i].Luminosity
		if l < params.MinLuminosity || l > params.MaxLuminosity {
			t.Errorf("neuron %d luminosity %f outside [%f, %f]",
				i, l, params.MinLuminosity, params.MaxLuminosity)
		}
		if speed := s.Neurons[i].Velocity.Norm(); speed > params.MaxSpeed+1e-9 {
			t.Errorf("neuron %d speed %f above ceiling", i, speed)
		}
	}
}

func TestLateralInhibitionSuppressesNeighbors(t *testing.T) {
	s := particle.NewStore(2, 0, rand.New(rand.NewSource(7)))
	params := DefaultParams()
	params.InitialTemperature = 0
	params.MinTemperature = 0
	params.PerturbInterval = 0

	// A very bright neuron next to a dim one: the dim one must lose
	// luminosity to the inhibition field.
	s.Neurons[0].Luminosity = 50
	s.Neurons[1].Luminosity = 2
	s.Neurons[1].Position = s.Neurons[0].Position.Add(vec.New(10, 0, 0))

	before := s.Neurons[1].Luminosity
	New(params).Update(s, nil, 0.016)

	if s.Neurons[1].Luminosity >= before {
		t.Errorf("dim neighbor not suppressed: %f -> %f", before, s.Neurons[1].Luminosity)
	}
}

func TestClusterPressureDampsOvergrowth(t *testing.T) {
	s := particle.NewStore(20, 0, rand.New(rand.NewSource(9)))
	params := DefaultParams()
	params.InitialTemperature = 0
	params.MinTemperature = 0
	params.PerturbInterval = 0
	params.BrightCutoff = 1e9 // disable inhibition for this test

	for i := range s.Neurons {
		s.Neurons[i].Luminosity = 10
		s.Neurons[i].Energy = 1
	}

	// One cluster holding 5 of 20 neurons exceeds the 10% limit.
	overgrown := []int{0, 1, 2, 3, 4}
	New(params).Update(s, [][]int{overgrown, {5}}, 0.016)

	for _, id := range overgrown {
		if s.Neurons[id].Energy >= 1 {
			t.Errorf("neuron %d in overgrown cluster not damped: energy %f", id, s.Neurons[id].Energy)
		}
	}
	if s.Neurons[5].Energy != 1 {
		t.Errorf("small-cluster neuron damped: energy %f", s.Neurons[5].Energy)
	}
}

func TestEmptyPopulation(t *testing.T) {
	s := particle.NewStore(0, 0, rand.New(rand.NewSource(1)))
	c := New(DefaultParams())
	c.Update(s, [][]int{{0, 1}}, 0.016) // stale indices must not panic
}
