package ui

import (
	"math"
	"strings"

	"cockpitview/display"
	"cockpitview/log"
	"cockpitview/panel"
	"cockpitview/ui/scale"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	runeLetterbox = '░'
	runeOverlay   = '*'
	runeCursor    = 'X'
)

var canvasStyle = lipgloss.NewStyle().Foreground(TextSecondary)

// Canvas draws the cockpit preview in terminal cells. Every position is
// computed in physical pixels and converted to cells with the configured
// cell size, so what the terminal shows is the engine's real output at a
// coarse resolution.
type Canvas struct {
	width, height int
	cellW, cellH  float64

	state   *display.State
	layouts []panel.Layout
	cursor  *scale.Point
	// hideMarks stops drawing projected overlay corners.
	hideMarks bool
}

// NewCanvas returns a canvas with the given cell size in pixels.
func NewCanvas(cellW, cellH int) *Canvas {
	return &Canvas{cellW: float64(max(cellW, 1)), cellH: float64(max(cellH, 1))}
}

// SetSize sets the canvas size in cells.
func (c *Canvas) SetSize(width, height int) {
	c.width = max(width, 0)
	c.height = max(height, 0)
}

// PixelSize returns the canvas size in physical pixels.
func (c *Canvas) PixelSize() (float64, float64) {
	return float64(c.width) * c.cellW, float64(c.height) * c.cellH
}

// CellToPixel returns the pixel at the center of a cell.
func (c *Canvas) CellToPixel(col, row int) scale.Point {
	return scale.Point{
		X: (float64(col) + 0.5) * c.cellW,
		Y: (float64(row) + 0.5) * c.cellH,
	}
}

// SetState sets the published display state and the placed panels.
func (c *Canvas) SetState(st *display.State, layouts []panel.Layout) {
	c.state = st
	c.layouts = layouts
}

// SetCursor marks a screen position, in pixels. Nil clears the mark.
func (c *Canvas) SetCursor(p *scale.Point) {
	c.cursor = p
}

// SetOverlayMarks turns the projected overlay corner marks on or off.
func (c *Canvas) SetOverlayMarks(show bool) {
	c.hideMarks = !show
}

type grid [][]rune

func newGrid(w, h int) grid {
	g := make(grid, h)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", w))
	}
	return g
}

func (g grid) set(col, row int, r rune) {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return
	}
	g[row][col] = r
}

func (g grid) String() string {
	lines := make([]string, len(g))
	for i, row := range g {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

// cellRect converts a pixel rectangle into cell bounds, inclusive.
func (c *Canvas) cellRect(r scale.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.X / c.cellW))
	y0 = int(math.Floor(r.Y / c.cellH))
	x1 = int(math.Ceil((r.X+r.Width)/c.cellW)) - 1
	y1 = int(math.Ceil((r.Y+r.Height)/c.cellH)) - 1
	return
}

// box draws a rectangle outline. Edges outside the grid are clipped.
func (g grid) box(x0, y0, x1, y1 int, h, v, corner rune) {
	if x1 < x0 || y1 < y0 {
		return
	}
	for x := x0; x <= x1; x++ {
		g.set(x, y0, h)
		g.set(x, y1, h)
	}
	for y := y0; y <= y1; y++ {
		g.set(x0, y, v)
		g.set(x1, y, v)
	}
	g.set(x0, y0, corner)
	g.set(x1, y0, corner)
	g.set(x0, y1, corner)
	g.set(x1, y1, corner)
}

// label writes text starting at col, truncated to fit width cells.
func (g grid) label(col, row, width int, text string) {
	if width <= 0 {
		return
	}
	text = runewidth.Truncate(text, width, "")
	for _, r := range text {
		// Wide runes would shift the rest of the row.
		if runewidth.RuneWidth(r) != 1 {
			r = '?'
		}
		g.set(col, row, r)
		col++
	}
}

func (c *Canvas) String() string {
	defer log.GetProfiler().StartRender("canvas")()

	if c.width == 0 || c.height == 0 {
		return ""
	}
	g := newGrid(c.width, c.height)
	if c.state == nil {
		g.label(0, 0, c.width, "waiting for first recompute")
		return canvasStyle.Render(g.String())
	}

	st := c.state
	x0, y0, x1, y1 := c.cellRect(scale.Rect{
		X: st.OffsetX, Y: st.OffsetY, Width: st.ScaledWidth, Height: st.ScaledHeight,
	})

	// Letterbox bars are the cells outside the content rectangle.
	for row := 0; row < c.height; row++ {
		for col := 0; col < c.width; col++ {
			if col < x0 || col > x1 || row < y0 || row > y1 {
				g.set(col, row, runeLetterbox)
			}
		}
	}
	g.box(x0, y0, x1, y1, '─', '│', '+')
	g.label(max(x0+2, 0), max(y0, 0), x1-x0-3, " "+st.Resolution.String()+" ")

	for _, l := range c.layouts {
		px0, py0, px1, py1 := c.cellRect(l.Rect())
		g.box(px0, py0, px1, py1, '-', '|', '+')
		g.label(px0+1, py0, px1-px0-1, l.Name)

		if l.Overlay == nil || c.hideMarks {
			continue
		}
		// Mark where the tilted overlay's corners land.
		for _, p := range []scale.Point{
			{X: l.Origin.X, Y: l.Origin.Y},
			{X: l.Origin.X + l.CanvasWidth, Y: l.Origin.Y},
			{X: l.Origin.X, Y: l.Origin.Y + l.CanvasHeight},
			{X: l.Origin.X + l.CanvasWidth, Y: l.Origin.Y + l.CanvasHeight},
		} {
			q := l.Overlay.Project(p)
			g.set(int(q.X/c.cellW), int(q.Y/c.cellH), runeOverlay)
		}
	}

	if c.cursor != nil {
		g.set(int(c.cursor.X/c.cellW), int(c.cursor.Y/c.cellH), runeCursor)
	}
	return canvasStyle.Render(g.String())
}
