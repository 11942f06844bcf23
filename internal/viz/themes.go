package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/fourierforge/internal/session"
)

// Theme is a color scheme for the panel and the drawing.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color

	// Ink and Paper are applied to the drawing as trail and background.
	Ink   lipgloss.Color
	Paper lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:    "neon",
		Primary: lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Muted:   lipgloss.Color("#666688"),
		Ink:     lipgloss.Color("#00ffff"),
		Paper:   lipgloss.Color("#0d0d1a"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"), // Green phosphor
		Accent:  lipgloss.Color("#88ff88"),
		Muted:   lipgloss.Color("#005500"),
		Ink:     lipgloss.Color("#33ff33"),
		Paper:   lipgloss.Color("#001100"),
	}

	ThemeBlueprint = Theme{
		Name:    "blueprint",
		Primary: lipgloss.Color("#e0f0ff"),
		Accent:  lipgloss.Color("#ffd700"),
		Muted:   lipgloss.Color("#4488aa"),
		Ink:     lipgloss.Color("#ffffff"),
		Paper:   lipgloss.Color("#0b3d91"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#ff6b6b"), // Coral
		Accent:  lipgloss.Color("#feca57"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Ink:     lipgloss.Color("#feca57"),
		Paper:   lipgloss.Color("#2d1b2e"),
	}

	ThemePaper = Theme{
		Name:    "paper",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Muted:   lipgloss.Color("#888888"),
		Ink:     lipgloss.Color("#111111"),
		Paper:   lipgloss.Color("#f4f1e8"),
	}

	Themes = []Theme{
		ThemeNeon,
		ThemeRetroGreen,
		ThemeBlueprint,
		ThemeSunset,
		ThemePaper,
	}
)

// GetTheme returns a theme by name, or the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Apply sets the drawing colors of v.
func (t Theme) Apply(v *session.Visuals) {
	if c, err := colorful.Hex(string(t.Ink)); err == nil {
		v.Ink = c
	}
	if c, err := colorful.Hex(string(t.Paper)); err == nil {
		v.Background = c
	}
}
