package utils

import "github.com/charmbracelet/lipgloss"

// Severity palette for CLI text rendering, keyed to how large a constructor's
// retained size is relative to the rest of the snapshot.
var (
	CriticalColor = lipgloss.Color("#CC3333") // Dark red
	WarningColor  = lipgloss.Color("#FF8800") // Orange
	GoodColor     = lipgloss.Color("#228B22") // Forest green
	InfoColor     = lipgloss.Color("#4682B4") // Steel blue
	TextColor     = lipgloss.Color("#CCCCCC") // Light gray
	MutedColor    = lipgloss.Color("#888888") // Medium gray
	BorderColor   = lipgloss.Color("#666666") // Dark gray
)

var (
	CriticalStyle = lipgloss.NewStyle().Foreground(CriticalColor).Bold(true)
	WarningStyle  = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	GoodStyle     = lipgloss.NewStyle().Foreground(GoodColor).Bold(true)
	InfoStyle     = lipgloss.NewStyle().Foreground(InfoColor)
	MutedStyle    = lipgloss.NewStyle().Foreground(MutedColor)
	TextStyle     = lipgloss.NewStyle().Foreground(TextColor)
)

var (
	HeaderStyle = lipgloss.NewStyle().Foreground(TextColor).Bold(true).Underline(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)
)

// SeverityForShare returns the style to apply to a row given its fraction
// of the snapshot's total self_size_sum, so that outsized constructors
// stand out in a terminal summary table.
func SeverityForShare(share float64) lipgloss.Style {
	switch {
	case share >= 0.25:
		return CriticalStyle
	case share >= 0.10:
		return WarningStyle
	case share >= 0.02:
		return InfoStyle
	default:
		return MutedStyle
	}
}
