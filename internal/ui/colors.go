package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette using ANSI color codes for terminal compatibility.

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// ColorEnabled reports whether the environment supports color output at
// all. NO_COLOR and dumb terminals disable it.
func ColorEnabled() bool {
	return termenv.EnvColorProfile() != termenv.Ascii && !termenv.EnvNoColor()
}

// Styled applies a foreground color when color is enabled, otherwise
// returns the text unchanged.
func Styled(text string, color lipgloss.Color) string {
	if !ColorEnabled() {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
