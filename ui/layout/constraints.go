package layout

// Constraints is the row split of the terminal. Rows are counted from the
// top; the canvas always starts at row 0.
type Constraints struct {
	TerminalWidth  int
	TerminalHeight int

	Mode Mode

	CanvasWidth  int
	CanvasHeight int

	StatusY int
	// MenuY is -1 when the menu row is hidden.
	MenuY   int
	ErrBoxY int

	ShowMinWarning bool
}

// MenuVisible reports whether the menu row is laid out.
func (c Constraints) MenuVisible() bool {
	return c.MenuY >= 0
}

// ChromeHeight is the number of rows below the canvas.
func (c Constraints) ChromeHeight() int {
	h := StatusHeight + ErrBoxHeight
	if c.MenuVisible() {
		h += MenuHeight
	}
	return h
}

// InCanvas reports whether a cell row belongs to the canvas.
func (c Constraints) InCanvas(row int) bool {
	return row >= 0 && row < c.CanvasHeight
}

// ComputeConstraints lays out the canvas and the chrome rows for a terminal.
func ComputeConstraints(width, height int) Constraints {
	c := Constraints{
		TerminalWidth:  width,
		TerminalHeight: height,
		Mode:           DetermineMode(width, height),
		ShowMinWarning: width < MinWidth || height < MinHeight,
		CanvasWidth:    max(width, 1),
	}

	c.MenuY = 0
	if c.Mode == ModeMinimal {
		c.MenuY = -1
	}
	c.CanvasHeight = max(height-c.ChromeHeight(), MinCanvasRows)

	c.StatusY = c.CanvasHeight
	next := c.StatusY + StatusHeight
	if c.MenuVisible() {
		c.MenuY = next
		next += MenuHeight
	}
	c.ErrBoxY = next
	return c
}

// Overlay constraints
const (
	OverlayMaxWidth  = 90
	OverlayMinWidth  = 40
	OverlayMinHeight = 12
	OverlayMargin    = 2
)

// ComputeOverlaySize fits an overlay's preferred size into the terminal,
// keeping a margin on every side where the terminal allows it.
func ComputeOverlaySize(termWidth, termHeight, preferredWidth, preferredHeight int) (int, int) {
	maxW := max(termWidth-OverlayMargin*2, OverlayMinWidth)
	maxH := max(termHeight-OverlayMargin*2, OverlayMinHeight)

	w := clamp(preferredWidth, OverlayMinWidth, min(maxW, OverlayMaxWidth))
	h := clamp(preferredHeight, OverlayMinHeight, maxH)
	return w, h
}

func clamp(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
