package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultScreen   = "intro"
	DefaultBody     = "earth"
	DefaultSpeed    = "normal"
)

type Config struct {
	Screen       string         `yaml:"screen"`
	Body         string         `yaml:"body"`
	Gravity      float64        `yaml:"gravity"`
	Speed        string         `yaml:"speed"`
	SceneMode    string         `yaml:"scene_mode"`
	ConstantMode string         `yaml:"constant_mode"`
	ForceMode    string         `yaml:"force_mode"`
	Dt           float64        `yaml:"dt"`
	Duration     float64        `yaml:"duration"`
	FloorY       float64        `yaml:"floor_y"`
	Debug        bool           `yaml:"debug"`
	Springs      []SpringConfig `yaml:"springs"`
	Masses       []MassConfig   `yaml:"masses"`
}

type SpringConfig struct {
	ID            string  `yaml:"id"`
	X             float64 `yaml:"x"`
	Y             float64 `yaml:"y"`
	NaturalLength float64 `yaml:"natural_length"`
	Constant      float64 `yaml:"constant"`
	Damping       float64 `yaml:"damping"`
}

type MassConfig struct {
	Label      string  `yaml:"label"`
	Mass       float64 `yaml:"mass"`
	Color      string  `yaml:"color"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"` // 0 rests the mass on the floor
	Adjustable bool    `yaml:"adjustable"`
	// AttachTo hangs the mass on the spring with this id at startup.
	AttachTo string `yaml:"attach_to"`
	// Pull displaces an attached mass below the spring's bottom, in metres.
	Pull float64 `yaml:"pull"`
}

func DefaultConfig() *Config {
	return Presets[DefaultScreen]["default"].clone()
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

// Validate checks values the scene cannot be built from. Enumerated names are
// checked when the scene is built.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.Gravity < 0 {
		return fmt.Errorf("gravity must be non-negative, got %f", c.Gravity)
	}
	ids := make(map[string]bool, len(c.Springs))
	for i, s := range c.Springs {
		if s.ID == "" {
			return fmt.Errorf("spring %d: missing id", i)
		}
		if ids[s.ID] {
			return fmt.Errorf("spring %d: duplicate id %s", i, s.ID)
		}
		ids[s.ID] = true
		if s.NaturalLength <= 0 {
			return fmt.Errorf("spring %s: natural_length must be positive", s.ID)
		}
		if s.Constant <= 0 {
			return fmt.Errorf("spring %s: constant must be positive", s.ID)
		}
		if s.Damping < 0 {
			return fmt.Errorf("spring %s: damping must be non-negative", s.ID)
		}
	}
	for i, m := range c.Masses {
		if m.Mass <= 0 {
			return fmt.Errorf("mass %d (%s): mass must be positive", i, m.Label)
		}
		if m.AttachTo != "" && !ids[m.AttachTo] {
			return fmt.Errorf("mass %d (%s): unknown spring %s", i, m.Label, m.AttachTo)
		}
	}
	return nil
}

func (c *Config) clone() *Config {
	out := *c
	out.Springs = append([]SpringConfig(nil), c.Springs...)
	out.Masses = append([]MassConfig(nil), c.Masses...)
	return &out
}
