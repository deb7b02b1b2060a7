package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Spring  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Gravity lipgloss.Color
	Force   lipgloss.Color
	Net     lipgloss.Color
	Kinetic lipgloss.Color
	Elastic lipgloss.Color
	Thermal lipgloss.Color
}

var (
	ThemeClassroom = Theme{
		Name:    "classroom",
		Primary: lipgloss.Color("#00ccff"),
		Spring:  lipgloss.Color("#cccccc"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888899"),
		Gravity: lipgloss.Color("#ff66cc"),
		Force:   lipgloss.Color("#33cc33"),
		Net:     lipgloss.Color("#ffcc00"),
		Kinetic: lipgloss.Color("#33cc33"),
		Elastic: lipgloss.Color("#3399ff"),
		Thermal: lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Spring:  lipgloss.Color("#00cc00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Gravity: lipgloss.Color("#88ff88"),
		Force:   lipgloss.Color("#00ff00"),
		Net:     lipgloss.Color("#ffff00"),
		Kinetic: lipgloss.Color("#88ff88"),
		Elastic: lipgloss.Color("#00cc00"),
		Thermal: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Spring:  lipgloss.Color("#cccccc"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Gravity: lipgloss.Color("#cccccc"),
		Force:   lipgloss.Color("#cccccc"),
		Net:     lipgloss.Color("#ffffff"),
		Kinetic: lipgloss.Color("#cccccc"),
		Elastic: lipgloss.Color("#999999"),
		Thermal: lipgloss.Color("#666666"),
	}

	CurrentTheme = ThemeClassroom

	Themes = []Theme{
		ThemeClassroom,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// massColors maps configured mass colors to terminal colors.
var massColors = map[string]lipgloss.Color{
	"red":   lipgloss.Color("#ff4444"),
	"blue":  lipgloss.Color("#3399ff"),
	"green": lipgloss.Color("#33cc33"),
	"gray":  lipgloss.Color("#999999"),
}

// MassColor falls back to the theme's text color for unknown names.
func MassColor(name string) lipgloss.Color {
	if c, ok := massColors[name]; ok {
		return c
	}
	return CurrentTheme.Text
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassroom
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme cycles CurrentTheme through Themes.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
}
