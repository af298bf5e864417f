package render

import (
	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color palette the interactive surfaces draw with. It is
// keyed by the same theme names as the markdown renderer, so one setting
// drives both.
type TUITheme struct {
	Name string

	Border lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

var (
	// DarkTUITheme is the default palette.
	DarkTUITheme = TUITheme{
		Name: ThemeDark,

		Border: lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Error:     lipgloss.Color("#f7768e"),

		Text:    lipgloss.Color("#c0caf5"),
		TextDim: lipgloss.Color("#565f89"),
	}

	// LightTUITheme suits bright terminal backgrounds.
	LightTUITheme = TUITheme{
		Name: ThemeLight,

		Border: lipgloss.Color("#d0d7de"),

		Primary:   lipgloss.Color("#0969da"),
		Secondary: lipgloss.Color("#1a7f37"),
		Accent:    lipgloss.Color("#8250df"),
		Error:     lipgloss.Color("#cf222e"),

		Text:    lipgloss.Color("#1f2328"),
		TextDim: lipgloss.Color("#656d76"),
	}
)

// TUIThemeFor maps a configured theme name onto a palette. Unknown names and
// the dark-leaning markdown styles fall back to the dark palette.
func TUIThemeFor(name string) TUITheme {
	if name == ThemeLight {
		return LightTUITheme
	}
	return DarkTUITheme
}
