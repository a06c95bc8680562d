// Package present formats collision outcomes for the terminal.
package present

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of a Renderer.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Plain     bool
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ff8800"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Success:   lipgloss.Color("#00ff88"),
		Warning:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
	}

	// ThemePlain renders without escape sequences (pipes, tests, CI logs).
	ThemePlain = Theme{Name: "plain", Plain: true}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeOcean,
		ThemePlain,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	barA   lipgloss.Style
	barB   lipgloss.Style
	panel  lipgloss.Style
}

func (t Theme) styles() styles {
	if t.Plain {
		s := lipgloss.NewStyle()
		return styles{s, s, s, s, s, s, s, s, s, s, s}
	}
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		label: lipgloss.NewStyle().Foreground(t.Muted),
		value: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		muted: lipgloss.NewStyle().Foreground(t.Muted),
		ok:    lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		warn:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		bad:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		barA:  lipgloss.NewStyle().Foreground(t.Primary),
		barB:  lipgloss.NewStyle().Foreground(t.Accent),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
	}
}
