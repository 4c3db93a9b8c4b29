package ui

import (
	"fmt"
	"strings"

	"cockpitview/display"
	"cockpitview/ui/layout"
	"cockpitview/ui/scale"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// StatusBar shows the published scale values on one line.
type StatusBar struct {
	width     int
	state     *display.State
	tolerance float64
	// pointer is the virtual coordinate of the last click.
	pointer *scale.Point
	degrade layout.Degradation
}

func NewStatusBar() *StatusBar {
	return &StatusBar{tolerance: scale.DefaultTolerance}
}

func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetState updates the state shown. tolerance is used to flag a crop beyond
// what the crop-tolerant policy allows.
func (s *StatusBar) SetState(st *display.State, tolerance float64) {
	s.state = st
	s.tolerance = tolerance
}

// SetDegradation drops readouts that do not fit narrow terminals.
func (s *StatusBar) SetDegradation(d layout.Degradation) {
	s.degrade = d
}

// SetPointer sets the virtual coordinate of the last click.
func (s *StatusBar) SetPointer(p *scale.Point) {
	s.pointer = p
}

// framingBadge picks the icon and style for how the canvas is framed.
func framingBadge(f scale.Framing, tolerance float64) string {
	switch {
	case f.Cropped() && !f.WithinTolerance(tolerance):
		return StatusStyles.Error.Render(IconError + " crop " + percent(f.CropFraction))
	case f.Cropped():
		return StatusStyles.Crop.Render(IconCrop + " crop " + percent(f.CropFraction))
	case f.Letterboxed():
		return StatusStyles.Letterbox.Render(fmt.Sprintf("%s bars %.0fx%.0f", IconLetterbox, f.LetterboxX, f.LetterboxY))
	default:
		return StatusStyles.Fit.Render(IconFit + " exact")
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func (s *StatusBar) String() string {
	if s.width <= 0 {
		return ""
	}
	if s.state == nil {
		return StatusStyles.Idle.Render(IconIdle + " no display state")
	}
	st := s.state

	parts := []string{
		TextStyles.Primary.Render(fmt.Sprintf("%s %s", st.ResolutionKey, st.Resolution)),
		TextStyles.Secondary.Render(st.Policy.String()),
		TextStyles.Primary.Render(fmt.Sprintf("scale %.3f", st.ContentScale)),
	}
	if !s.degrade.HideUIScaleReadout {
		parts = append(parts, TextStyles.Muted.Render(fmt.Sprintf("ui ×%.1f = %.3f", st.UIScale, st.EffectiveScale)))
	}
	if !s.degrade.HideWindowReadout {
		parts = append(parts, TextStyles.Muted.Render(fmt.Sprintf("window %.0fx%.0f offset %.0f,%.0f",
			st.WindowWidth, st.WindowHeight, st.OffsetX, st.OffsetY)))
	}
	parts = append(parts, framingBadge(st.Framing(), s.tolerance))
	if s.pointer != nil {
		parts = append(parts, TextStyles.Secondary.Render(
			fmt.Sprintf("virtual %.0f,%.0f", s.pointer.X, s.pointer.Y)))
	}

	line := strings.Join(parts, sepStyle.Render(verticalSeparator))
	return lipgloss.NewStyle().Width(s.width).Render(truncate.StringWithTail(line, uint(s.width), "…"))
}
