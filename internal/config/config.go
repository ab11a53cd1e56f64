package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 25000.0
	DefaultDuration    = 157788000.0
	DefaultWorkers     = 1
	DefaultSampleEvery = 10
	DefaultDataDir     = ".nbody"
	DefaultViewWidth   = 80
	DefaultViewHeight  = 40
	DefaultFPS         = 30
)

type Config struct {
	Snapshot      string     `yaml:"snapshot"`
	Preset        string     `yaml:"preset"`
	Dt            float64    `yaml:"dt"`
	Duration      float64    `yaml:"duration"`
	Workers       int        `yaml:"workers"`
	SampleEvery   int        `yaml:"sample_every"`
	ValidateState bool       `yaml:"validate_state"`
	DataDir       string     `yaml:"data_dir"`
	View          ViewConfig `yaml:"view"`
}

type ViewConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		Workers:       DefaultWorkers,
		SampleEvery:   DefaultSampleEvery,
		ValidateState: true,
		DataDir:       DefaultDataDir,
		View: ViewConfig{
			Width:  DefaultViewWidth,
			Height: DefaultViewHeight,
			FPS:    DefaultFPS,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", c.Duration)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("sample_every must not be negative, got %d", c.SampleEvery)
	}
	if c.Snapshot != "" && c.Preset != "" {
		return fmt.Errorf("snapshot and preset are mutually exclusive")
	}
	if c.Preset != "" {
		if _, ok := GetPreset(c.Preset); !ok {
			return fmt.Errorf("unknown preset %q (available: %v)", c.Preset, ListPresets())
		}
	}
	if c.View.Width < 10 || c.View.Height < 5 {
		return fmt.Errorf("view must be at least 10x5, got %dx%d", c.View.Width, c.View.Height)
	}
	if c.View.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.View.FPS)
	}
	return nil
}
