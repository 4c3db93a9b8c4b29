package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay shows a titled text and the full key map.
type HelpOverlay struct {
	Dismissed bool
	title     string
	body      string
	keyMap    help.KeyMap
	help      help.Model
	width     int
}

// NewHelpOverlay creates a help screen. keyMap may be nil.
func NewHelpOverlay(title, body string, keyMap help.KeyMap) *HelpOverlay {
	h := help.New()
	h.ShowAll = true
	return &HelpOverlay{
		title:  title,
		body:   body,
		keyMap: keyMap,
		help:   h,
		width:  60,
	}
}

// HandleKeyPress closes the overlay on any key. It returns true when closed.
func (h *HelpOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	h.Dismissed = true
	return true
}

func (h *HelpOverlay) SetWidth(width int) {
	h.width = width
	h.help.Width = width - 6
}

func (h *HelpOverlay) Render(opts ...WhitespaceOption) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62"))

	var content strings.Builder
	content.WriteString(titleStyle.Render(h.title))
	content.WriteString("\n\n")
	content.WriteString(h.body)
	if h.keyMap != nil {
		content.WriteString("\n\n")
		content.WriteString(h.help.View(h.keyMap))
	}
	content.WriteString("\n\n")
	content.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Render("Press any key to close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(h.width).
		Render(content.String())
	if len(opts) == 0 {
		return box
	}
	return lipgloss.Place(lipgloss.Width(box), lipgloss.Height(box), lipgloss.Center, lipgloss.Center, box, opts...)
}
