package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var errStyle = lipgloss.NewStyle().Foreground(StatusError)

var infoStyle = lipgloss.NewStyle().Foreground(StatusFit)

// ErrBox displays one line of feedback below the menu. Errors are red,
// informational messages green.
type ErrBox struct {
	height, width int
	err           error
	info          string
}

func NewErrBox() *ErrBox {
	return &ErrBox{}
}

func (e *ErrBox) SetError(err error) {
	e.err = err
	e.info = ""
}

// SetInfo shows a non-error message.
func (e *ErrBox) SetInfo(msg string) {
	e.err = nil
	e.info = msg
}

func (e *ErrBox) Clear() {
	e.err = nil
	e.info = ""
}

func (e *ErrBox) SetSize(width, height int) {
	e.width = width
	e.height = height
}

func (e *ErrBox) String() string {
	var text string
	style := errStyle
	switch {
	case e.err != nil:
		text = e.err.Error()
	case e.info != "":
		text = e.info
		style = infoStyle
	}
	// Only the first line fits.
	text, _, _ = strings.Cut(text, "\n")
	if e.width > 0 {
		text = truncate.StringWithTail(text, uint(e.width), "...")
	}
	return lipgloss.Place(e.width, e.height, lipgloss.Center, lipgloss.Top, style.Render(text))
}
