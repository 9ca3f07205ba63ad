// Package dynamics advances the particle store one frame at a time. Each
// frame runs its phases in a fixed order: gravity, photon propagation,
// connectivity, stellar evolution, then statistics. Nothing here performs
// I/O; drivers pull results through [Engine.Stats] and the store's exports.
package dynamics

import (
	"math"

	"github.com/r-ferrin/galaxia/internal/particle"
	"github.com/r-ferrin/galaxia/internal/vec"
)

// Params are the tunable constants of the dynamics phases.
type Params struct {
	// GravitySample is the number of interaction partners sampled per
	// neuron per frame. Populations at or below this size fall back to an
	// exact all-pairs pass. Raising it trades speed for accuracy; the
	// sampled force field is an approximation, not an exact N-body solve.
	GravitySample int

	// MinDistance floors pair distances to avoid the 1/d² singularity.
	MinDistance float64

	PhotonSpeed     float64
	Attenuation     float64
	MinIntensity    float64
	MaxTravelRadius float64

	// InteractionScale sets a neuron's photon interaction radius as a
	// multiple of its mass.
	InteractionScale float64

	ConnectionRadius float64

	// LuminositySmoothing is the exponential-smoothing weight pulling
	// luminosity toward the recomputed activation each frame.
	LuminositySmoothing float64

	EvolutionRate  float64
	MinTemperature float64
	MaxTemperature float64
	MassLossCutoff float64
	MinMass        float64

	DensityBins     int
	DensityBinWidth float64
}

func DefaultParams() Params {
	return Params{
		GravitySample:       100,
		MinDistance:         0.1,
		PhotonSpeed:         particle.SpeedOfLight,
		Attenuation:         0.9,
		MinIntensity:        0.1,
		MaxTravelRadius:     10000,
		InteractionScale:    10,
		ConnectionRadius:    100,
		LuminositySmoothing: 0.01,
		EvolutionRate:       0.001,
		MinTemperature:      1000,
		MaxTemperature:      50000,
		MassLossCutoff:      2.0,
		MinMass:             0.1,
		DensityBins:         50,
		DensityBinWidth:     20,
	}
}

// FrameStats are the aggregate observations recomputed at the end of each
// frame. They report on emergent structure and never feed back into the
// dynamics within the same frame.
type FrameStats struct {
	Frame           int
	Time            float64
	MeanTemperature float64
	MeanLuminosity  float64
	MeanConnections float64
	ActivePhotons   int
	RadialDensity   []float64
}

type Engine struct {
	store  *particle.Store
	params Params
	frame  int
	time   float64
	stats  FrameStats
}

func New(store *particle.Store, params Params) *Engine {
	return &Engine{store: store, params: params}
}

func (e *Engine) Frame() int        { return e.frame }
func (e *Engine) Time() float64     { return e.time }
func (e *Engine) Stats() FrameStats { return e.stats }

// Step advances one frame. A store with no neurons degenerates to a no-op
// frame rather than an error.
func (e *Engine) Step(dt float64) {
	e.updateGravity(dt)
	e.propagatePhotons(dt)
	e.updateConnectivity()
	e.evolveStars(dt)
	e.collectStats()

	e.frame++
	e.time += dt
}

// updateGravity integrates each neuron's velocity and position with
// explicit Euler under the sampled Newtonian force field.
func (e *Engine) updateGravity(dt float64) {
	neurons := e.store.Neurons
	n := len(neurons)
	if n < 2 {
		for i := range neurons {
			neurons[i].Age += dt
		}
		return
	}

	rng := e.store.Rand()
	exact := n <= e.params.GravitySample

	for i := range neurons {
		var force vec.V3

		if exact {
			for j := range neurons {
				if j != i {
					force = force.Add(e.pairForce(i, j))
				}
			}
		} else {
			for k := 0; k < e.params.GravitySample; k++ {
				j := rng.Intn(n)
				if j == i {
					continue
				}
				force = force.Add(e.pairForce(i, j))
			}
		}

		accel := force.Scale(1 / neurons[i].Mass)
		neurons[i].Velocity = neurons[i].Velocity.Add(accel.Scale(dt))
		neurons[i].Position = neurons[i].Position.Add(neurons[i].Velocity.Scale(dt))
		neurons[i].Age += dt
	}
}

func (e *Engine) pairForce(i, j int) vec.V3 {
	neurons := e.store.Neurons
	r := neurons[j].Position.Sub(neurons[i].Position)
	d := r.Norm()
	if d < e.params.MinDistance {
		return vec.V3{}
	}
	mag := particle.GravitationalConstant * neurons[i].Mass * neurons[j].Mass / (d * d)
	return r.Normalized().Scale(mag)
}

func (e *Engine) propagatePhotons(dt float64) {
	photons := e.store.Photons
	neurons := e.store.Neurons

	for i := range photons {
		p := &photons[i]
		if !p.Active {
			continue
		}

		p.Position = p.Position.Add(p.Direction.Scale(e.params.PhotonSpeed * dt))

		for j := range neurons {
			d := vec.Dist(p.Position, neurons[j].Position)
			if d < neurons[j].Mass*e.params.InteractionScale {
				p.Intensity *= e.params.Attenuation
				if p.Intensity < e.params.MinIntensity {
					p.Active = false
					break
				}
			}
		}

		if p.Active && p.Position.Norm() > e.params.MaxTravelRadius {
			p.Active = false
		}
	}

	if len(neurons) == 0 {
		return
	}

	// Keep at least half the pool in flight.
	if e.store.ActivePhotons() < len(photons)/2 {
		rng := e.store.Rand()
		for i := range photons {
			if !photons[i].Active && rng.Float64() < 0.1 {
				src := &neurons[rng.Intn(len(neurons))]
				photons[i].Position = src.Position
				photons[i].Intensity = src.Luminosity
				photons[i].Active = true
			}
		}
	}
}

// updateConnectivity rebuilds connection counts and activations with an
// exact scan over all pairs, then smooths luminosity toward activation.
func (e *Engine) updateConnectivity() {
	neurons := e.store.Neurons

	for i := range neurons {
		neurons[i].Activation = 0
		neurons[i].Connections = 0

		for j := range neurons {
			if i == j {
				continue
			}
			d := vec.Dist(neurons[i].Position, neurons[j].Position)
			if d < e.params.ConnectionRadius {
				neurons[i].Connections++
				neurons[i].Activation += neurons[j].Luminosity / (d + 1)
			}
		}

		if neurons[i].Connections > 0 {
			neurons[i].Activation /= float64(neurons[i].Connections)
		}

		w := e.params.LuminositySmoothing
		neurons[i].Luminosity = neurons[i].Luminosity*(1-w) + neurons[i].Activation*w
	}
}

func (e *Engine) evolveStars(dt float64) {
	neurons := e.store.Neurons
	rng := e.store.Rand()

	for i := range neurons {
		n := &neurons[i]
		rate := n.Mass * dt * e.params.EvolutionRate

		n.Temperature += rate * (rng.Float64() - 0.5) * 100
		n.Temperature = vec.Clamp(n.Temperature, e.params.MinTemperature, e.params.MaxTemperature)

		if n.Mass > e.params.MassLossCutoff {
			n.Mass -= rate * 0.01
			if n.Mass < e.params.MinMass {
				n.Mass = e.params.MinMass
			}
		}

		n.UpdateSpectrum()
		n.Luminosity = n.Mass * n.Temperature / particle.SolarTemperature
	}
}

func (e *Engine) collectStats() {
	neurons := e.store.Neurons

	stats := FrameStats{
		Frame:         e.frame,
		Time:          e.time,
		ActivePhotons: e.store.ActivePhotons(),
		RadialDensity: make([]float64, e.params.DensityBins),
	}

	if len(neurons) == 0 {
		e.stats = stats
		return
	}

	for i := range neurons {
		n := &neurons[i]
		stats.MeanTemperature += n.Temperature
		stats.MeanLuminosity += n.Luminosity
		stats.MeanConnections += float64(n.Connections)

		radius := math.Hypot(n.Position.X, n.Position.Z)
		bin := int(radius / e.params.DensityBinWidth)
		if bin >= e.params.DensityBins {
			bin = e.params.DensityBins - 1
		}
		stats.RadialDensity[bin] += n.Mass
	}

	count := float64(len(neurons))
	stats.MeanTemperature /= count
	stats.MeanLuminosity /= count
	stats.MeanConnections /= count

	e.stats = stats
}

// TotalEnergy is the exact kinetic plus pairwise potential energy of the
// population. It is O(N²) and intended for small configurations and tests,
// not the frame loop.
func (e *Engine) TotalEnergy() float64 {
	neurons := e.store.Neurons
	ke := 0.0
	pe := 0.0

	for i := range neurons {
		v := neurons[i].Velocity.Norm()
		ke += 0.5 * neurons[i].Mass * v * v

		for j := i + 1; j < len(neurons); j++ {
			d := vec.Dist(neurons[i].Position, neurons[j].Position)
			if d < e.params.MinDistance {
				d = e.params.MinDistance
			}
			pe -= particle.GravitationalConstant * neurons[i].Mass * neurons[j].Mass / d
		}
	}

	return ke + pe
}
