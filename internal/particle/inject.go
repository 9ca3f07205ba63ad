package particle

import (
	"math"

	"github.com/r-ferrin/galaxia/internal/vec"
)

// Emission is a single synthetic photon to inject: wavelength in meters,
// energy in joules. Position is expressed as a unit offset that Inject maps
// onto the emission sphere.
type Emission struct {
	Offset     vec.V3
	Wavelength float64
	Energy     float64
}

// Burst is a timed group of emissions from one origin, as produced by
// external ingestion pipelines (one burst per volume slice).
type Burst struct {
	Time      float64
	Emissions []Emission
}

// InjectionRadius is the radius of the sphere the burst origins are
// projected onto, matching the outer galaxy shell.
const InjectionRadius = 1000.0

// energyScale converts an emission's energy to photon intensity. Typical
// injected energies sit around 1e-15 J.
const energyScale = 1e15

// InjectBursts reactivates inactive photons from the pool to carry the
// burst emissions. Origins are mapped onto the injection sphere surface;
// directions point inward. Emissions beyond the pool capacity are dropped,
// keeping the photon count fixed.
func (s *Store) InjectBursts(bursts []Burst) int {
	injected := 0
	next := 0

	for _, b := range bursts {
		for _, e := range b.Emissions {
			slot := s.nextInactive(&next)
			if slot == nil {
				return injected
			}

			origin := e.Offset.Normalized()
			if origin == (vec.V3{}) {
				origin = vec.New(0, 1, 0)
			}

			slot.Position = origin.Scale(InjectionRadius)
			slot.Direction = origin.Scale(-1)
			slot.Wavelength = e.Wavelength
			slot.Intensity = math.Max(e.Energy*energyScale, 0)
			slot.Active = true
			injected++
		}
	}
	return injected
}

func (s *Store) nextInactive(from *int) *Photon {
	for ; *from < len(s.Photons); *from++ {
		if !s.Photons[*from].Active {
			p := &s.Photons[*from]
			*from++
			return p
		}
	}
	return nil
}
