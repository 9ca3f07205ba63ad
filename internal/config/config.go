package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/r-ferrin/galaxia/internal/diversity"
	"github.com/r-ferrin/galaxia/internal/dynamics"
	"github.com/r-ferrin/galaxia/internal/oracle"
	"github.com/r-ferrin/galaxia/internal/solver"
)

const (
	DefaultDt       = 0.016
	DefaultDuration = 10.0
	DefaultNeurons  = 1000
	DefaultPhotons  = 500
	DefaultSeed     = 1
)

type Config struct {
	Neurons  int     `yaml:"neurons"`
	Photons  int     `yaml:"photons"`
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Seed     int64   `yaml:"seed"`

	Gravity   GravityConfig   `yaml:"gravity"`
	Photon    PhotonConfig    `yaml:"photon"`
	Evolution EvolutionConfig `yaml:"evolution"`
	Diversity DiversityConfig `yaml:"diversity"`
	Solver    SolverConfig    `yaml:"solver"`
}

type GravityConfig struct {
	Sample           int     `yaml:"sample"`
	MinDistance      float64 `yaml:"min_distance"`
	ConnectionRadius float64 `yaml:"connection_radius"`
}

type PhotonConfig struct {
	Speed           float64 `yaml:"speed"`
	Attenuation     float64 `yaml:"attenuation"`
	MinIntensity    float64 `yaml:"min_intensity"`
	MaxTravelRadius float64 `yaml:"max_travel_radius"`
}

type EvolutionConfig struct {
	Rate           float64 `yaml:"rate"`
	MinTemperature float64 `yaml:"min_temperature"`
	MaxTemperature float64 `yaml:"max_temperature"`
}

type DiversityConfig struct {
	Enabled            bool    `yaml:"enabled"`
	InitialTemperature float64 `yaml:"initial_temperature"`
	CoolingRate        float64 `yaml:"cooling_rate"`
	InhibitionRadius   float64 `yaml:"inhibition_radius"`
	InhibitionStrength float64 `yaml:"inhibition_strength"`
}

type SolverConfig struct {
	UseGalaxy     bool    `yaml:"use_galaxy"`
	Frames        int     `yaml:"frames"`
	VelocityScale float64 `yaml:"velocity_scale"`
	SpinThreshold float64 `yaml:"spin_threshold"`
}

func DefaultConfig() *Config {
	dyn := dynamics.DefaultParams()
	div := diversity.DefaultParams()
	orc := oracle.DefaultParams()

	return &Config{
		Neurons:  DefaultNeurons,
		Photons:  DefaultPhotons,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Seed:     DefaultSeed,
		Gravity: GravityConfig{
			Sample:           dyn.GravitySample,
			MinDistance:      dyn.MinDistance,
			ConnectionRadius: dyn.ConnectionRadius,
		},
		Photon: PhotonConfig{
			Speed:           dyn.PhotonSpeed,
			Attenuation:     dyn.Attenuation,
			MinIntensity:    dyn.MinIntensity,
			MaxTravelRadius: dyn.MaxTravelRadius,
		},
		Evolution: EvolutionConfig{
			Rate:           dyn.EvolutionRate,
			MinTemperature: dyn.MinTemperature,
			MaxTemperature: dyn.MaxTemperature,
		},
		Diversity: DiversityConfig{
			Enabled:            true,
			InitialTemperature: div.InitialTemperature,
			CoolingRate:        div.CoolingRate,
			InhibitionRadius:   div.InhibitionRadius,
			InhibitionStrength: div.InhibitionStrength,
		},
		Solver: SolverConfig{
			UseGalaxy:     false,
			Frames:        100,
			VelocityScale: orc.VelocityScale,
			SpinThreshold: orc.SpinThreshold,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DynamicsParams maps the config onto engine tunables, starting from the
// engine defaults so new knobs pick up sane values automatically.
func (c *Config) DynamicsParams() dynamics.Params {
	p := dynamics.DefaultParams()
	p.GravitySample = c.Gravity.Sample
	p.MinDistance = c.Gravity.MinDistance
	p.ConnectionRadius = c.Gravity.ConnectionRadius
	p.PhotonSpeed = c.Photon.Speed
	p.Attenuation = c.Photon.Attenuation
	p.MinIntensity = c.Photon.MinIntensity
	p.MaxTravelRadius = c.Photon.MaxTravelRadius
	p.EvolutionRate = c.Evolution.Rate
	p.MinTemperature = c.Evolution.MinTemperature
	p.MaxTemperature = c.Evolution.MaxTemperature
	return p
}

func (c *Config) DiversityParams() diversity.Params {
	p := diversity.DefaultParams()
	p.InitialTemperature = c.Diversity.InitialTemperature
	p.CoolingRate = c.Diversity.CoolingRate
	p.InhibitionRadius = c.Diversity.InhibitionRadius
	p.InhibitionStrength = c.Diversity.InhibitionStrength
	return p
}

func (c *Config) OracleParams() oracle.Params {
	p := oracle.DefaultParams()
	p.VelocityScale = c.Solver.VelocityScale
	p.SpinThreshold = c.Solver.SpinThreshold
	return p
}

func (c *Config) SolverParams() solver.Params {
	p := solver.DefaultParams()
	p.UseGalaxy = c.Solver.UseGalaxy
	p.Neurons = c.Neurons
	p.Photons = c.Photons
	p.Frames = c.Solver.Frames
	p.Dt = c.Dt
	p.Seed = c.Seed
	p.Dynamics = c.DynamicsParams()
	p.Diversity = c.DiversityParams()
	p.Oracle = c.OracleParams()
	return p
}
