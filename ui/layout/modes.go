// Package layout splits the terminal between the preview canvas and its
// chrome rows, and decides which chrome details to drop on small terminals.
package layout

// Width breakpoints
const (
	// MinWidth is the narrowest terminal the full chrome is designed for.
	MinWidth = 80

	// CompactWidth keeps the UI-scale readout in the status line.
	CompactWidth = 100

	// StandardWidth keeps the window and offset readout in the status line.
	StandardWidth = 120
)

// Height breakpoints
const (
	// MinHeight is the shortest terminal that keeps the menu row.
	MinHeight = 24

	// StandardHeight is the threshold for the standard layout.
	StandardHeight = 40
)

// Chrome rows below the canvas.
const (
	StatusHeight = 1
	MenuHeight   = 1
	ErrBoxHeight = 1
)

// MinCanvasRows is the smallest canvas ever laid out.
const MinCanvasRows = 1

// Mode is the layout mode picked for the terminal size.
type Mode int

const (
	// ModeStandard shows every chrome detail.
	ModeStandard Mode = iota
	// ModeCompact shortens the status line.
	ModeCompact
	// ModeMinimal drops the menu row and overlay marks.
	ModeMinimal
)

func (m Mode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeCompact:
		return "compact"
	case ModeMinimal:
		return "minimal"
	default:
		return "unknown"
	}
}

// DetermineMode picks the most restrictive mode either dimension calls for.
func DetermineMode(width, height int) Mode {
	if width < MinWidth || height < MinHeight {
		return ModeMinimal
	}
	if width < StandardWidth || height < StandardHeight {
		return ModeCompact
	}
	return ModeStandard
}
