// Package ui provides the visual styling for the shopscout terminal
// interface, with light/dark themes.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors
	LightForeground = lipgloss.Color("#1a2536")
	LightPrimary    = lipgloss.Color("#2962ff") // Blue
	LightAccent     = lipgloss.Color("#00897b") // Teal
	LightMuted      = lipgloss.Color("#8a93a3")
	LightBorder     = lipgloss.Color("#d6dae0")

	// Dark mode colors
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkPrimary    = lipgloss.Color("#82aaff")
	DarkAccent     = lipgloss.Color("#4db6ac")
	DarkMuted      = lipgloss.Color("#5c6773")
	DarkBorder     = lipgloss.Color("#2a3850")

	// Semantic colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#FFC107")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// ThemeFor resolves a configured theme name ("light", "dark", or "auto").
func ThemeFor(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return detectTheme()
	}
}

// detectTheme guesses from common terminal environment hints; dark wins when
// nothing is conclusive, matching most terminal defaults.
func detectTheme() Theme {
	if strings.Contains(strings.ToLower(os.Getenv("TERM_PROGRAM")), "apple") {
		return LightTheme()
	}
	if cf := os.Getenv("COLORFGBG"); cf != "" {
		// Format "fg;bg" - high bg values mean a light background.
		parts := strings.Split(cf, ";")
		if len(parts) >= 2 && (parts[len(parts)-1] == "15" || parts[len(parts)-1] == "7") {
			return LightTheme()
		}
	}
	return DarkTheme()
}

// Styles bundles the lipgloss styles the chat view uses.
type Styles struct {
	Theme Theme

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserText       lipgloss.Style
	Muted          lipgloss.Style
	ErrorText      lipgloss.Style
	Tag            lipgloss.Style
	Option         lipgloss.Style
	OptionSelected lipgloss.Style
	ProductName    lipgloss.Style
	ProductPrice   lipgloss.Style
	StatusBar      lipgloss.Style
	InputBorder    lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		UserLabel:      lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).MarginTop(1),
		AssistantLabel: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).MarginTop(1),
		UserText:       lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:          lipgloss.NewStyle().Foreground(theme.Muted),
		ErrorText:      lipgloss.NewStyle().Foreground(Destructive),
		Tag: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),
		Option:         lipgloss.NewStyle().Foreground(theme.Foreground),
		OptionSelected: lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		ProductName:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		ProductPrice:   lipgloss.NewStyle().Foreground(Warning),
		StatusBar:      lipgloss.NewStyle().Foreground(theme.Muted),
		InputBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
	}
}
