package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/san-kum/relsim/internal/relativity"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMode     = "elastic"
	DefaultMethod   = "newton"
	DefaultMaxIter  = 100
	DefaultDataDir  = ".relsim"
	DefaultStorage  = "fs"
	DefaultTheme    = "cyberpunk"
	DefaultMass     = 1.0
	DefaultV1       = 0.6
	DefaultV2       = -0.3
	DefaultClamp    = 0.0
	DefaultSpeedOfC = 1.0
)

type Config struct {
	Mode      string          `yaml:"mode" toml:"mode" env:"MODE"`
	Units     UnitsConfig     `yaml:"units" toml:"units" envPrefix:"UNITS_"`
	Solver    SolverConfig    `yaml:"solver" toml:"solver" envPrefix:"SOLVER_"`
	Particles ParticlesConfig `yaml:"particles" toml:"particles"`
	DataDir   string          `yaml:"data_dir" toml:"data_dir" env:"DATA_DIR"`
	Storage   string          `yaml:"storage" toml:"storage" env:"STORAGE"`
	Theme     string          `yaml:"theme" toml:"theme" env:"THEME"`
}

type UnitsConfig struct {
	C         float64 `yaml:"c" toml:"c" env:"C"`
	Tolerance float64 `yaml:"tolerance" toml:"tolerance" env:"TOLERANCE"`
}

type SolverConfig struct {
	Method  string  `yaml:"method" toml:"method" env:"METHOD"`
	MaxIter int     `yaml:"max_iter" toml:"max_iter" env:"MAX_ITER"`
	Clamp   float64 `yaml:"clamp" toml:"clamp" env:"CLAMP"`
}

type ParticlesConfig struct {
	M1 float64 `yaml:"m1" toml:"m1"`
	V1 float64 `yaml:"v1" toml:"v1"`
	M2 float64 `yaml:"m2" toml:"m2"`
	V2 float64 `yaml:"v2" toml:"v2"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode: DefaultMode,
		Units: UnitsConfig{
			C:         DefaultSpeedOfC,
			Tolerance: relativity.DefaultTolerance,
		},
		Solver: SolverConfig{
			Method:  DefaultMethod,
			MaxIter: DefaultMaxIter,
			Clamp:   DefaultClamp,
		},
		Particles: ParticlesConfig{
			M1: DefaultMass,
			V1: DefaultV1,
			M2: DefaultMass,
			V2: DefaultV2,
		},
		DataDir: DefaultDataDir,
		Storage: DefaultStorage,
		Theme:   DefaultTheme,
	}
}

// Load reads a YAML or TOML file (chosen by extension) over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the file at path over cfg. Keys missing from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext(path) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode toml %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode yaml %s: %w", path, err)
		}
	}
	return nil
}

// Save writes cfg as YAML or TOML depending on the extension of path.
func Save(path string, cfg *Config) error {
	var data []byte
	switch ext(path) {
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	default:
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays RELSIM_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "RELSIM_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// GetUnits returns the relativity unit context described by the config.
func (c *Config) GetUnits() relativity.Units {
	return relativity.Units{C: c.Units.C, Tolerance: c.Units.Tolerance}
}

func (c *Config) GetOptions() (relativity.Options, error) {
	method, err := relativity.ParseMethod(c.Solver.Method)
	if err != nil {
		return relativity.Options{}, err
	}
	return relativity.Options{Method: method, MaxIter: c.Solver.MaxIter}, nil
}

// GetInput builds a collision request. Velocities at or beyond c are
// rejected with a *relativity.DomainError naming the input; clamping
// (Solver.Clamp > 0) only pulls in-range velocities down to ±Clamp·c.
func (c *Config) GetInput() (relativity.Input, error) {
	mode, err := relativity.ParseMode(c.Mode)
	if err != nil {
		return relativity.Input{}, err
	}
	u := c.GetUnits()
	if err := u.Validate(); err != nil {
		return relativity.Input{}, err
	}
	particles := [2]relativity.Particle{
		{Mass: c.Particles.M1, Velocity: c.Particles.V1},
		{Mass: c.Particles.M2, Velocity: c.Particles.V2},
	}
	for i := range particles {
		if err := particles[i].Validate(u, fmt.Sprint(i+1)); err != nil {
			return relativity.Input{}, err
		}
		if c.Solver.Clamp > 0 {
			particles[i].Velocity = u.Clamp(particles[i].Velocity, c.Solver.Clamp)
		}
	}
	return relativity.Input{Particles: particles, Mode: mode}, nil
}
