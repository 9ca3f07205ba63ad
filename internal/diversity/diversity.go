// Package diversity keeps the galaxy from collapsing onto one dominant
// structure. It runs after the dynamics phases each frame: annealing noise,
// lateral inhibition, pressure against overgrown clusters, and a periodic
// kick. It has no correctness contract beyond staying inside the clamped
// velocity and luminosity bounds.
package diversity

import (
	"math"

	"github.com/r-ferrin/galaxia/internal/particle"
	"github.com/r-ferrin/galaxia/internal/vec"
)

type Params struct {
	InitialTemperature float64
	CoolingRate        float64
	// MinTemperature keeps residual exploration forever; the system never
	// fully freezes.
	MinTemperature float64

	InhibitionRadius   float64
	InhibitionStrength float64
	// BrightCutoff is the luminosity above which a neuron inhibits its
	// neighborhood.
	BrightCutoff float64

	// ClusterFraction is the population share above which a cluster is
	// considered overgrown and damped.
	ClusterFraction float64

	// PerturbInterval is the number of frames between random kicks.
	PerturbInterval int
	KickStrength    float64

	MinLuminosity float64
	MaxLuminosity float64
	MaxSpeed      float64
}

func DefaultParams() Params {
	return Params{
		InitialTemperature: 1000,
		CoolingRate:        0.995,
		MinTemperature:     10,
		InhibitionRadius:   500,
		InhibitionStrength: 0.5,
		BrightCutoff:       5,
		ClusterFraction:    0.1,
		PerturbInterval:    100,
		KickStrength:       100,
		MinLuminosity:      0.1,
		MaxLuminosity:      100,
		MaxSpeed:           1e4,
	}
}

type Controller struct {
	params      Params
	temperature float64
	iteration   int
}

func New(params Params) *Controller {
	return &Controller{params: params, temperature: params.InitialTemperature}
}

// Temperature is the current annealing temperature.
func (c *Controller) Temperature() float64 { return c.temperature }

// Update applies one frame of diversity maintenance. clusters is the
// current connected-component partition of the population (indices into
// the store's neuron slice); pass nil to skip cluster pressure.
func (c *Controller) Update(store *particle.Store, clusters [][]int, dt float64) {
	c.applyThermalNoise(store, dt)
	c.applyLateralInhibition(store)
	c.applyClusterPressure(store, clusters)

	if c.params.PerturbInterval > 0 && c.iteration%c.params.PerturbInterval == 0 {
		c.applyPerturbation(store)
	}
	c.iteration++

	c.temperature *= c.params.CoolingRate
	if c.temperature < c.params.MinTemperature {
		c.temperature = c.params.MinTemperature
	}

	c.clampBounds(store)
}

// applyThermalNoise adds Brownian velocity jitter and stochastic luminosity
// fluctuation, both scaled by the annealing temperature.
func (c *Controller) applyThermalNoise(store *particle.Store, dt float64) {
	rng := store.Rand()
	noise := math.Sqrt(c.temperature) * 0.01

	for i := range store.Neurons {
		n := &store.Neurons[i]

		kick := vec.New(
			rng.Float64()*2-1,
			rng.Float64()*2-1,
			rng.Float64()*2-1,
		).Scale(noise * dt)
		n.Velocity = n.Velocity.Add(kick)

		flicker := (rng.Float64()*0.2 - 0.1) * c.temperature / 1000
		n.Luminosity *= 1 + flicker
	}
}

// applyLateralInhibition lets bright neurons suppress and repel their
// neighborhood, with strength decaying exponentially over distance.
func (c *Controller) applyLateralInhibition(store *particle.Store) {
	neurons := store.Neurons
	field := make([]float64, len(neurons))

	for i := range neurons {
		if neurons[i].Luminosity <= c.params.BrightCutoff {
			continue
		}
		for j := range neurons {
			if i == j {
				continue
			}
			d := vec.Dist(neurons[i].Position, neurons[j].Position)
			if d < c.params.InhibitionRadius {
				field[j] += c.params.InhibitionStrength * neurons[i].Luminosity *
					math.Exp(-d/c.params.InhibitionRadius)
			}
		}
	}

	rng := store.Rand()
	for i := range neurons {
		neurons[i].Luminosity /= 1 + field[i]

		if field[i] > 0.1 {
			dir := vec.New(
				rng.Float64()*2-1,
				rng.Float64()*2-1,
				rng.Float64()*2-1,
			).Normalized()
			neurons[i].Velocity = neurons[i].Velocity.Add(dir.Scale(field[i] * 10))
		}
	}
}

// applyClusterPressure damps luminosity and energy of clusters holding more
// than the configured fraction of the population.
func (c *Controller) applyClusterPressure(store *particle.Store, clusters [][]int) {
	limit := int(float64(len(store.Neurons)) * c.params.ClusterFraction)
	if limit < 1 {
		limit = 1
	}

	for _, members := range clusters {
		if len(members) <= limit {
			continue
		}
		for _, id := range members {
			if id < 0 || id >= len(store.Neurons) {
				continue
			}
			store.Neurons[id].Luminosity *= 0.95
			store.Neurons[id].Energy *= 0.9
		}
	}
}

// applyPerturbation kicks ~1% of the population with a strong random
// velocity boost and occasionally spikes a luminosity.
func (c *Controller) applyPerturbation(store *particle.Store) {
	n := len(store.Neurons)
	if n == 0 {
		return
	}
	rng := store.Rand()

	count := n / 100
	if count < 1 {
		count = 1
	}

	for i := 0; i < count; i++ {
		idx := rng.Intn(n)
		kick := vec.New(
			rng.Float64()*2-1,
			rng.Float64()*2-1,
			rng.Float64()*2-1,
		).Scale(c.params.KickStrength)
		store.Neurons[idx].Velocity = store.Neurons[idx].Velocity.Add(kick)

		if rng.Float64() < 0.1 {
			store.Neurons[idx].Luminosity *= 2 + rng.Float64()*3
		}
	}
}

func (c *Controller) clampBounds(store *particle.Store) {
	for i := range store.Neurons {
		n := &store.Neurons[i]
		n.Luminosity = vec.Clamp(n.Luminosity, c.params.MinLuminosity, c.params.MaxLuminosity)

		speed := n.Velocity.Norm()
		if speed > c.params.MaxSpeed {
			n.Velocity = n.Velocity.Normalized().Scale(c.params.MaxSpeed)
		}
	}
}
