package config

func preset(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

var Presets = map[string]*Config{
	"small": preset(func(c *Config) {
		c.Neurons = 200
		c.Photons = 100
		c.Duration = 5.0
	}),
	"standard": preset(func(c *Config) {}),
	"dense": preset(func(c *Config) {
		c.Neurons = 5000
		c.Photons = 2000
		c.Gravity.Sample = 200
	}),
	"hot": preset(func(c *Config) {
		c.Diversity.InitialTemperature = 5000
		c.Diversity.CoolingRate = 0.999
	}),
	"frozen": preset(func(c *Config) {
		c.Diversity.Enabled = false
	}),
	"reasoning": preset(func(c *Config) {
		c.Neurons = 500
		c.Photons = 200
		c.Solver.UseGalaxy = true
		c.Solver.Frames = 200
	}),
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
