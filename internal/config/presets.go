package config

import "sort"

func introSprings() []SpringConfig {
	return []SpringConfig{
		{ID: "spring1", X: 0.65, Y: 2.1, NaturalLength: 0.5, Constant: 10},
		{ID: "spring2", X: 1.1, Y: 2.1, NaturalLength: 0.5, Constant: 10},
	}
}

func introMasses() []MassConfig {
	return []MassConfig{
		{Label: "250g", Mass: 0.25, Color: "gray", X: 0.12},
		{Label: "100g", Mass: 0.1, Color: "gray", X: 0.2},
		{Label: "50g", Mass: 0.05, Color: "gray", X: 0.28},
		{Label: "red", Mass: 0.2, Color: "red", X: 0.36},
		{Label: "blue", Mass: 0.15, Color: "blue", X: 0.44},
		{Label: "green", Mass: 0.08, Color: "green", X: 0.52},
	}
}

func base(screen string) *Config {
	return &Config{
		Screen:       screen,
		Body:         DefaultBody,
		Gravity:      9.8,
		Speed:        DefaultSpeed,
		SceneMode:    "same_length",
		ConstantMode: "same",
		ForceMode:    "forces",
		Dt:           DefaultDt,
		Duration:     DefaultDuration,
	}
}

// Presets are keyed by screen, then by preset name. Every screen has a
// "default" entry.
var Presets = map[string]map[string]*Config{
	"intro": {
		"default": func() *Config {
			c := base("intro")
			c.Springs = introSprings()
			c.Masses = introMasses()
			return c
		}(),
		"hanging": func() *Config {
			c := base("intro")
			c.Springs = introSprings()
			c.Masses = introMasses()
			c.Masses[0].AttachTo = "spring1"
			c.Masses[0].Pull = 0.1
			c.Masses[1].AttachTo = "spring2"
			c.Masses[1].Pull = 0.1
			return c
		}(),
		"adjustable": func() *Config {
			c := base("intro")
			c.SceneMode = "adjustable_length"
			c.Springs = introSprings()
			c.Springs[1].NaturalLength = 0.3
			c.Masses = introMasses()
			return c
		}(),
	},
	"vectors": {
		"default": func() *Config {
			c := base("vectors")
			c.Springs = introSprings()
			c.Masses = introMasses()[:3]
			c.Masses[0].AttachTo = "spring1"
			c.Masses[0].Pull = 0.15
			return c
		}(),
		"net": func() *Config {
			c := base("vectors")
			c.ForceMode = "net"
			c.Springs = introSprings()
			c.Masses = introMasses()[:3]
			c.Masses[0].AttachTo = "spring1"
			c.Masses[0].Pull = 0.15
			return c
		}(),
	},
	"energy": {
		"default": func() *Config {
			c := base("energy")
			c.Springs = []SpringConfig{{ID: "spring1", X: 0.65, Y: 2.1, NaturalLength: 0.5, Constant: 10}}
			c.Masses = []MassConfig{
				{Label: "adjustable", Mass: 0.1, Color: "blue", X: 0.2, Adjustable: true, AttachTo: "spring1", Pull: 0.2},
				{Label: "100g", Mass: 0.1, Color: "gray", X: 0.3},
			}
			return c
		}(),
		"damped": func() *Config {
			c := base("energy")
			c.Springs = []SpringConfig{{ID: "spring1", X: 0.65, Y: 2.1, NaturalLength: 0.5, Constant: 10, Damping: 0.2}}
			c.Masses = []MassConfig{
				{Label: "adjustable", Mass: 0.1, Color: "blue", X: 0.2, Adjustable: true, AttachTo: "spring1", Pull: 0.2},
			}
			c.Duration = 30
			return c
		}(),
	},
	"lab": {
		"default": func() *Config {
			c := base("lab")
			c.SceneMode = "adjustable_length"
			c.Springs = []SpringConfig{{ID: "spring1", X: 0.65, Y: 2.1, NaturalLength: 0.5, Constant: 10, Damping: 0.1}}
			c.Masses = []MassConfig{
				{Label: "adjustable", Mass: 0.1, Color: "blue", X: 0.2, Adjustable: true},
				{Label: "mystery", Mass: 0.33, Color: "red", X: 0.3},
			}
			return c
		}(),
		"jupiter": func() *Config {
			c := base("lab")
			c.Body = "jupiter"
			c.Gravity = 24.79
			c.SceneMode = "adjustable_length"
			c.Springs = []SpringConfig{{ID: "spring1", X: 0.65, Y: 2.1, NaturalLength: 0.5, Constant: 40, Damping: 0.1}}
			c.Masses = []MassConfig{
				{Label: "adjustable", Mass: 0.1, Color: "blue", X: 0.2, Adjustable: true, AttachTo: "spring1", Pull: 0.1},
			}
			return c
		}(),
	},
}

// GetPreset returns a copy so callers can apply flag overrides.
func GetPreset(screen, preset string) *Config {
	screenPresets, ok := Presets[screen]
	if !ok {
		return nil
	}
	cfg, ok := screenPresets[preset]
	if !ok {
		return nil
	}
	return cfg.clone()
}

func ListPresets(screen string) []string {
	screenPresets, ok := Presets[screen]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(screenPresets))
	for name := range screenPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
