package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Minimal color palette
var (
	DimColor    = lipgloss.Color("#6c6c6c")
	TextColor   = lipgloss.Color("#e0e0e0")
	AccentColor = lipgloss.Color("#7aa2f7")
	ErrorColor  = lipgloss.Color("#f7768e")
	OKColor     = lipgloss.Color("#9ece6a")
	WarnColor   = lipgloss.Color("#e0af68")
)

var (
	DimStyle = lipgloss.NewStyle().
			Foreground(DimColor)

	AccentStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	OKStyle = lipgloss.NewStyle().
		Foreground(OKColor).
		Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(WarnColor).
			Bold(true)

	AddedStyle = lipgloss.NewStyle().
			Foreground(OKColor)

	RemovedStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)
)

// StatusStyle picks a style for an HTTP status code.
func StatusStyle(code int) lipgloss.Style {
	switch {
	case code >= 500:
		return ErrorStyle
	case code >= 400:
		return WarnStyle
	case code >= 200 && code < 300:
		return OKStyle
	default:
		return AccentStyle
	}
}
