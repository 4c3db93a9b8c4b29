package ui

import "github.com/charmbracelet/lipgloss"

// Semantic Color Palette
// Designed for accessibility (colorblind-safe) with both color and shape differentiation.

// Framing colors: each framing outcome has a distinct color and icon.
var (
	// StatusFit means the content fills the window exactly.
	// Color: Green, Icon: "+"
	StatusFit = lipgloss.AdaptiveColor{Light: "#22C55E", Dark: "#22C55E"}

	// StatusLetterbox means bars are visible on one axis.
	// Color: Blue, Icon: "▭"
	StatusLetterbox = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

	// StatusCrop means content is cut off within the tolerance.
	// Color: Amber, Icon: "!"
	StatusCrop = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#F59E0B"}

	// StatusError indicates errors/failures
	// Color: Red, Icon: "x"
	StatusError = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#EF4444"}

	// StatusIdle means nothing has been published yet.
	// Color: Gray, Icon: "○"
	StatusIdle = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
)

// UI chrome colors - structural elements
var (
	// Primary is the accent/focus color
	Primary = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#7D56F4"}

	// Border is the default border color
	Border = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#3C3C3C"}

	// BorderFocus is the border color for focused elements
	BorderFocus = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#7D56F4"}

	// TextPrimary is the main text color
	TextPrimary = lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}

	// TextSecondary is for secondary text (descriptions, labels)
	TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}

	// TextMuted is for hints and subtle text
	TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}

	// BackgroundSubtle is for cards, overlays, etc.
	BackgroundSubtle = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#2a2a2a"}
)

// Framing icons for accessibility (shape + color)
const (
	IconFit       = "+"
	IconLetterbox = "▭"
	IconCrop      = "!"
	IconError     = "×"
	IconIdle      = "○"
)

// StatusStyles contains pre-built styles for each framing outcome
var StatusStyles = struct {
	Fit       lipgloss.Style
	Letterbox lipgloss.Style
	Crop      lipgloss.Style
	Error     lipgloss.Style
	Idle      lipgloss.Style
}{
	Fit:       lipgloss.NewStyle().Foreground(StatusFit),
	Letterbox: lipgloss.NewStyle().Foreground(StatusLetterbox),
	Crop:      lipgloss.NewStyle().Foreground(StatusCrop),
	Error:     lipgloss.NewStyle().Foreground(StatusError),
	Idle:      lipgloss.NewStyle().Foreground(StatusIdle),
}

// TextStyles contains pre-built styles for text elements
var TextStyles = struct {
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Muted     lipgloss.Style
}{
	Primary:   lipgloss.NewStyle().Foreground(TextPrimary),
	Secondary: lipgloss.NewStyle().Foreground(TextSecondary),
	Muted:     lipgloss.NewStyle().Foreground(TextMuted),
}

// BadgeStyle creates a styled badge with the given color
func BadgeStyle(color lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(color).
		Padding(0, 1)
}

// StatusBadge returns a formatted status badge string
func StatusBadge(status string, color lipgloss.TerminalColor) string {
	return BadgeStyle(color).Render(status)
}

// OverlayStyle creates a style for overlay/modal containers
func OverlayStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderFocus).
		Padding(1, 2).
		Background(BackgroundSubtle)
}
