package config

import "sort"

var Presets = map[string]*Config{
	"reference": {
		Mode:      "inelastic",
		Particles: ParticlesConfig{M1: 1, V1: 0.6, M2: 1, V2: -0.3},
	},
	"exchange": {
		Mode:      "elastic",
		Particles: ParticlesConfig{M1: 1, V1: 0.6, M2: 1, V2: -0.6},
	},
	"no-motion": {
		Mode:      "elastic",
		Particles: ParticlesConfig{M1: 1, V1: 0.5, M2: 1, V2: 0.5},
	},
	"heavy-target": {
		Mode:      "elastic",
		Particles: ParticlesConfig{M1: 1, V1: 0.9, M2: 10, V2: 0},
	},
	"near-light": {
		Mode:      "elastic",
		Particles: ParticlesConfig{M1: 1, V1: 0.999999, M2: 2, V2: -0.5},
	},
	"merge": {
		Mode:      "inelastic",
		Particles: ParticlesConfig{M1: 2, V1: 0.8, M2: 3, V2: -0.4},
	},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset copies the preset's mode and particles onto cfg, leaving
// units, solver and storage settings alone.
func ApplyPreset(cfg *Config, name string) bool {
	p := GetPreset(name)
	if p == nil {
		return false
	}
	cfg.Mode = p.Mode
	cfg.Particles = p.Particles
	return true
}
