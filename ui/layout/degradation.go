package layout

// Degradation holds the chrome details to drop for a terminal size, listed
// in the order they go.
type Degradation struct {
	// HideWindowReadout drops the window size and offsets from the status line.
	HideWindowReadout bool
	// HideUIScaleReadout drops the UI-scale product from the status line.
	HideUIScaleReadout bool
	// HideMenu drops the menu row.
	HideMenu bool
	// HideOverlayMarks stops drawing projected tilt corners on the canvas.
	HideOverlayMarks bool
}

// ComputeDegradation derives the dropped details from the constraints.
func ComputeDegradation(c Constraints) Degradation {
	return Degradation{
		HideWindowReadout:  c.TerminalWidth < StandardWidth,
		HideUIScaleReadout: c.TerminalWidth < CompactWidth,
		HideMenu:           !c.MenuVisible(),
		HideOverlayMarks:   c.Mode == ModeMinimal,
	}
}
