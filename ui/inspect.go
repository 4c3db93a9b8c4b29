package ui

import (
	"cockpitview/inspect"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/ansi"
)

func (c *Canvas) InspectNode() *inspect.Node {
	n := inspect.NewNode("Canvas").
		WithBounds(0, 0, c.width, c.height).
		WithStyles(inspect.ExtractStyleInfo(canvasStyle)).
		WithState("cell_width_px", c.cellW).
		WithState("cell_height_px", c.cellH).
		WithState("published", c.state != nil).
		WithState("overlay_marks", !c.hideMarks)
	for _, l := range c.layouts {
		x0, y0, x1, y1 := c.cellRect(l.Rect())
		n.AddChild(inspect.NewNode("Panel").
			WithID(l.Name).
			WithBounds(x0, y0, x1-x0+1, y1-y0+1).
			WithState("tilted", l.Overlay != nil))
	}
	return n
}

func (s *StatusBar) InspectNode() *inspect.Node {
	n := inspect.NewNode("StatusBar").WithBounds(0, 0, s.width, 1)
	if s.state != nil {
		f := s.state.Framing()
		n.WithState("letterboxed", f.Letterboxed()).
			WithState("cropped", f.Cropped()).
			WithState("within_tolerance", f.WithinTolerance(s.tolerance))
	}
	if s.pointer != nil {
		n.WithState("pointer", *s.pointer)
	}
	return n
}

func (m *Menu) InspectNode() *inspect.Node {
	line := m.String()
	n := inspect.NewNode("Menu").
		WithBounds(0, 0, m.width, m.height).
		WithStyles(inspect.ExtractStyleInfo(menuStyle)).
		WithState("state", int(m.state)).
		WithState("options", len(m.options))
	if m.keyDown >= 0 {
		n.WithState("key_down", int(m.keyDown))
	}
	// The menu is placed, not cut, so a wider line means it overflowed.
	return n.WithTruncation(lipgloss.Width(line), m.width)
}

func (e *ErrBox) InspectNode() *inspect.Node {
	n := inspect.NewNode("ErrBox").WithBounds(0, 0, e.width, e.height)
	switch {
	case e.err != nil:
		msg := e.err.Error()
		n.WithState("error", msg).WithTruncation(ansi.PrintableRuneWidth(msg), e.width)
	case e.info != "":
		n.WithState("info", e.info)
	}
	return n
}
