package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the terminal views and the SVG export.
// Normal, Shear and Moment color the force diagrams.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Structure  lipgloss.Color
	Deformed   lipgloss.Color
	Normal     lipgloss.Color
	Shear      lipgloss.Color
	Moment     lipgloss.Color
}

var (
	ThemeBlueprint = Theme{
		Name:       "blueprint",
		Primary:    lipgloss.Color("#00ccff"),
		Accent:     lipgloss.Color("#ffcc00"),
		Background: lipgloss.Color("#0a1a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Structure:  lipgloss.Color("#e0f0ff"),
		Deformed:   lipgloss.Color("#ffcc00"),
		Normal:     lipgloss.Color("#00ff88"),
		Shear:      lipgloss.Color("#ff9ff3"),
		Moment:     lipgloss.Color("#ff6b6b"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"),
		Accent:     lipgloss.Color("#88ff88"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Structure:  lipgloss.Color("#00cc00"),
		Deformed:   lipgloss.Color("#88ff88"),
		Normal:     lipgloss.Color("#ffff00"),
		Shear:      lipgloss.Color("#00ffff"),
		Moment:     lipgloss.Color("#ff8800"),
	}

	ThemePaper = Theme{
		Name:       "paper",
		Primary:    lipgloss.Color("#000000"),
		Accent:     lipgloss.Color("#0088ff"),
		Background: lipgloss.Color("#ffffff"),
		Text:       lipgloss.Color("#000000"),
		Muted:      lipgloss.Color("#888888"),
		Structure:  lipgloss.Color("#000000"),
		Deformed:   lipgloss.Color("#0088ff"),
		Normal:     lipgloss.Color("#2e8b57"),
		Shear:      lipgloss.Color("#8a2be2"),
		Moment:     lipgloss.Color("#d62728"),
	}

	CurrentTheme = ThemeBlueprint

	Themes = []Theme{
		ThemeBlueprint,
		ThemeRetroGreen,
		ThemePaper,
	}
)

// GetTheme returns a theme by name, falling back to blueprint.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeBlueprint
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

// FieldColor returns the diagram color of a force field, keyed by its name.
func (t Theme) FieldColor(field string) lipgloss.Color {
	switch field {
	case "shear":
		return t.Shear
	case "moment":
		return t.Moment
	default:
		return t.Normal
	}
}
