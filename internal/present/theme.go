package present

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by ThemeByName.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// Theme bundles the lipgloss styles used by the card renderer.
type Theme struct {
	Name string

	Title    lipgloss.Style
	Text     lipgloss.Style
	Faint    lipgloss.Style
	Accent   lipgloss.Style
	Card     lipgloss.Style
	Panel    lipgloss.Style
	ErrPanel lipgloss.Style
}

// buildTheme assembles a theme from its four base colors.
func buildTheme(name string, title, text, faint, accent lipgloss.TerminalColor) Theme {
	border := lipgloss.RoundedBorder()
	return Theme{
		Name:   name,
		Title:  lipgloss.NewStyle().Bold(true).Foreground(title),
		Text:   lipgloss.NewStyle().Foreground(text),
		Faint:  lipgloss.NewStyle().Foreground(faint),
		Accent: lipgloss.NewStyle().Foreground(accent),
		Card: lipgloss.NewStyle().
			Border(border).
			BorderForeground(faint).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(border).
			BorderForeground(faint).
			Foreground(faint).
			Padding(0, 1),
		ErrPanel: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color("1")).
			Foreground(lipgloss.Color("1")).
			Padding(0, 1),
	}
}

// DarkTheme returns the palette tuned for dark backgrounds.
func DarkTheme() Theme {
	return buildTheme(ThemeDark,
		lipgloss.Color("81"),  // bright cyan
		lipgloss.Color("252"), // near-white
		lipgloss.Color("243"), // gray
		lipgloss.Color("215"), // amber
	)
}

// LightTheme returns the palette tuned for light backgrounds.
func LightTheme() Theme {
	return buildTheme(ThemeLight,
		lipgloss.Color("25"),  // deep blue
		lipgloss.Color("235"), // near-black
		lipgloss.Color("245"), // gray
		lipgloss.Color("130"), // brown-orange
	)
}

// AutoTheme picks colors per the terminal's detected background.
func AutoTheme() Theme {
	return buildTheme(ThemeAuto,
		lipgloss.AdaptiveColor{Light: "25", Dark: "81"},
		lipgloss.AdaptiveColor{Light: "235", Dark: "252"},
		lipgloss.AdaptiveColor{Light: "245", Dark: "243"},
		lipgloss.AdaptiveColor{Light: "130", Dark: "215"},
	)
}

// ThemeByName resolves a persisted theme preference. Matching is
// case-insensitive.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ThemeLight:
		return LightTheme(), nil
	case ThemeDark:
		return DarkTheme(), nil
	case ThemeAuto, "":
		return AutoTheme(), nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (valid: light, dark, auto)", name)
}
