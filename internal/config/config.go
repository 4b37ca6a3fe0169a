// Package config is the yaml evaluation profile consumed by the CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gwsurr/internal/surrogate"
)

const (
	DefaultQ      = 1.2
	DefaultFormat = "txt"
	DefaultOutput = "waveform.txt"
)

type Config struct {
	Surrogate string  `yaml:"surrogate"`
	Q         float64 `yaml:"q"`

	// TotalMass (solar masses) and Distance (Mpc) together request
	// physical units; zero leaves the waveform geometric.
	TotalMass float64 `yaml:"total_mass"`
	Distance  float64 `yaml:"distance"`

	Theta  *float64 `yaml:"theta,omitempty"`
	Phi    *float64 `yaml:"phi,omitempty"`
	PhiRef *float64 `yaml:"phi_ref,omitempty"`
	FLow   float64  `yaml:"f_low"`

	Modes []string      `yaml:"modes"`
	Sum   bool          `yaml:"sum_modes"`
	Grid  SampleGridCfg `yaml:"sample_grid"`

	Output string `yaml:"output"`
	Format string `yaml:"format"`
}

// SampleGridCfg describes an optional uniform output time grid, in units
// of total mass. Num == 0 keeps the surrogate's native grid.
type SampleGridCfg struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Num   int     `yaml:"num"`
}

func DefaultConfig() *Config {
	return &Config{
		Q:      DefaultQ,
		Sum:    true,
		Output: DefaultOutput,
		Format: DefaultFormat,
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

// Samples expands the grid spec into concrete sample times, or nil for
// the native grid.
func (c *Config) Samples() ([]float64, error) {
	if c.Grid.Num == 0 {
		return nil, nil
	}
	if c.Grid.Num < 2 || c.Grid.Stop <= c.Grid.Start {
		return nil, fmt.Errorf("bad sample grid: start=%g stop=%g num=%d", c.Grid.Start, c.Grid.Stop, c.Grid.Num)
	}
	out := make([]float64, c.Grid.Num)
	step := (c.Grid.Stop - c.Grid.Start) / float64(c.Grid.Num-1)
	for i := range out {
		out[i] = c.Grid.Start + float64(i)*step
	}
	out[c.Grid.Num-1] = c.Grid.Stop
	return out, nil
}

// ModeList parses the configured mode keys.
func (c *Config) ModeList() ([]surrogate.Mode, error) {
	modes := make([]surrogate.Mode, 0, len(c.Modes))
	for _, key := range c.Modes {
		m, err := surrogate.ParseModeKey(key)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}
