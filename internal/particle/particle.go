// Package particle owns the dynamic physical state of the galaxy: a
// fixed-size population of neurons and a bounded pool of photons. All
// mutation happens through the dynamics and diversity packages; everything
// else sees read-only exports.
package particle

import (
	"math"
	"math/rand"

	"github.com/r-ferrin/galaxia/internal/vec"
)

// Physical constants shared by the dynamics phases.
const (
	GravitationalConstant = 6.67430e-11
	SpeedOfLight          = 299792458.0
	WienConstant          = 2.897771955e-3
	SolarTemperature      = 5778.0
)

// SpectralClass is the color class derived from a neuron's temperature.
type SpectralClass int

const (
	SpectrumRed SpectralClass = iota
	SpectrumOrange
	SpectrumYellow
	SpectrumWhite
	SpectrumBlue
)

func (s SpectralClass) String() string {
	switch s {
	case SpectrumRed:
		return "red"
	case SpectrumOrange:
		return "orange"
	case SpectrumYellow:
		return "yellow"
	case SpectrumWhite:
		return "white"
	default:
		return "blue"
	}
}

// ClassifySpectrum maps a temperature in Kelvin to its spectral class.
func ClassifySpectrum(temperature float64) SpectralClass {
	switch {
	case temperature < 3500:
		return SpectrumRed
	case temperature < 5000:
		return SpectrumOrange
	case temperature < 6000:
		return SpectrumYellow
	case temperature < 7500:
		return SpectrumWhite
	default:
		return SpectrumBlue
	}
}

// PeakWavelength is Wien's displacement law.
func PeakWavelength(temperature float64) float64 {
	if temperature <= 0 {
		return 0
	}
	return WienConstant / temperature
}

type Neuron struct {
	Position    vec.V3
	Velocity    vec.V3
	Mass        float64
	Luminosity  float64
	Temperature float64
	Spectrum    SpectralClass
	Age         float64
	Connections int
	Activation  float64
	Energy      float64
}

// UpdateSpectrum recomputes the derived spectral class from temperature.
func (n *Neuron) UpdateSpectrum() {
	n.Spectrum = ClassifySpectrum(n.Temperature)
}

type Photon struct {
	Position   vec.V3
	Direction  vec.V3
	Wavelength float64
	Intensity  float64
	Active     bool
}

// Store holds the full particle population. The neuron slice never grows
// or shrinks during a run, and the photon slice is the pool ceiling:
// photons are deactivated and reused, never appended.
type Store struct {
	Neurons []Neuron
	Photons []Photon

	rng *rand.Rand
}

const (
	galaxyArmRadius  = 500.0
	galaxyCoreRadius = 100.0
	galaxyDiskHeight = 50.0
	galaxyCoreMass   = 1e12
)

// NewStore initializes a spiral-galaxy population of neuronCount neurons
// and a photon pool of photonCount, drawing all randomness from rng.
func NewStore(neuronCount, photonCount int, rng *rand.Rand) *Store {
	if neuronCount < 0 {
		neuronCount = 0
	}
	if photonCount < 0 {
		photonCount = 0
	}

	s := &Store{
		Neurons: make([]Neuron, neuronCount),
		Photons: make([]Photon, photonCount),
		rng:     rng,
	}

	for i := range s.Neurons {
		angle := rng.Float64() * 2 * math.Pi
		radius := math.Abs(rng.NormFloat64())*galaxyArmRadius + galaxyCoreRadius
		height := rng.NormFloat64() * galaxyDiskHeight

		n := &s.Neurons[i]
		n.Position = vec.New(radius*math.Cos(angle), height, radius*math.Sin(angle))

		orbital := math.Sqrt(GravitationalConstant * galaxyCoreMass / radius)
		n.Velocity = vec.New(-orbital*math.Sin(angle), rng.NormFloat64()*5, orbital*math.Cos(angle))

		n.Mass = rng.Float64()*2 + 0.5
		n.Temperature = rng.Float64()*5000 + 2000
		n.Luminosity = n.Mass * n.Temperature / SolarTemperature
		n.Energy = 1.0
		n.UpdateSpectrum()
	}

	for i := range s.Photons {
		s.EmitPhoton(&s.Photons[i])
	}

	return s
}

// Rand exposes the store's generator so that the update phases share one
// deterministic stream per seed.
func (s *Store) Rand() *rand.Rand { return s.rng }

// EmitPhoton re-seeds a photon from a randomly chosen source neuron with an
// isotropic direction. With no neurons the photon stays inactive.
func (s *Store) EmitPhoton(p *Photon) {
	if len(s.Neurons) == 0 {
		p.Active = false
		return
	}
	src := &s.Neurons[s.rng.Intn(len(s.Neurons))]

	theta := s.rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*s.rng.Float64() - 1)

	p.Position = src.Position
	p.Direction = vec.New(
		math.Sin(phi)*math.Cos(theta),
		math.Cos(phi),
		math.Sin(phi)*math.Sin(theta),
	)
	p.Wavelength = PeakWavelength(src.Temperature)
	p.Intensity = src.Luminosity
	p.Active = true
}

// ActivePhotons counts photons currently in flight.
func (s *Store) ActivePhotons() int {
	n := 0
	for i := range s.Photons {
		if s.Photons[i].Active {
			n++
		}
	}
	return n
}
