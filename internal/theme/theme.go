package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the timeline title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// WindowStyle renders the date-range line under the header.
var WindowStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 1)

// RowLabelStyle renders one timeline track's label.
var RowLabelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	PaddingLeft(1)

// RowMetaStyle renders secondary row information such as status.
var RowMetaStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// EmptyRowStyle renders the placeholder for a track with no blocks.
var EmptyRowStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle).
	Italic(true).
	PaddingLeft(3)

// WarnStyle flags a degraded half of the view.
var WarnStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow)

// GridStyle wraps the rendered timeline.
var GridStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// BlockStyle returns the chip style for a block, colored by the block's
// computed color when set.
func BlockStyle(color string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).PaddingLeft(3)
	if color == "" {
		return base.Foreground(ColorGray)
	}
	return base.Foreground(lipgloss.Color(color))
}

// UtilizationStyle color-codes a utilization percentage.
func UtilizationStyle(percent float64) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch {
	case percent >= 90:
		return base.Foreground(ColorRed)
	case percent >= 60:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGreen)
	}
}
