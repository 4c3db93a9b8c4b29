package overlay

import (
	"cockpitview/ui/scale"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ResolutionOption is one selectable virtual resolution preset.
type ResolutionOption struct {
	Key         string
	Name        string
	Description string
	// Available is false when the preset cannot be applied right now, e.g.
	// fullscreen with a viewport outside the resolution bounds.
	Available bool
	// Reason explains why an option is unavailable.
	Reason string
}

// ResolutionPickerOverlay lets the user choose a virtual resolution preset.
type ResolutionPickerOverlay struct {
	Dismissed bool
	Selected  string // The selected preset key
	options   []ResolutionOption
	cursor    int
	width     int
}

// NewResolutionPickerOverlay builds the picker over the preset table. The
// cursor starts on the active preset. viewportW/H decide whether fullscreen
// is selectable and custom is described with the stored size.
func NewResolutionPickerOverlay(active string, viewportW, viewportH float64, custom scale.Resolution) *ResolutionPickerOverlay {
	options := make([]ResolutionOption, 0, len(scale.Presets))
	cursor := 0
	for i, p := range scale.Presets {
		opt := ResolutionOption{Key: p.Key, Name: p.DisplayName, Available: true}
		switch {
		case p.Size != nil:
			opt.Description = fmt.Sprintf("Fixed %s canvas, aspect %.2f", p.Size, float64(p.Size.Width)/float64(p.Size.Height))
		case p.Key == scale.PresetAuto:
			opt.Description = "Design canvas " + scale.DefaultResolution.String()
		case p.Key == scale.PresetFullscreen:
			size := scale.Resolution{Width: int(viewportW), Height: int(viewportH)}
			opt.Description = "Snapshot the current window, " + size.String()
			if err := size.Validate(); err != nil {
				opt.Available = false
				opt.Reason = "window out of range"
			}
		case p.Key == scale.PresetCustom:
			opt.Description = "Stored custom size " + custom.String()
			if err := custom.Validate(); err != nil {
				opt.Available = false
				opt.Reason = "stored size out of range"
			}
		}
		if p.Key == active {
			cursor = i
		}
		options = append(options, opt)
	}

	return &ResolutionPickerOverlay{
		options: options,
		cursor:  cursor,
		width:   60,
	}
}

// HandleKeyPress processes a key press and updates the state. It returns
// true when the picker should close.
func (m *ResolutionPickerOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
		return false
	case "down", "j":
		m.moveCursor(1)
		return false
	case "enter":
		if m.options[m.cursor].Available {
			m.Selected = m.options[m.cursor].Key
			m.Dismissed = true
			return true
		}
		return false
	case "esc":
		m.Dismissed = true
		return true
	default:
		return false
	}
}

// moveCursor moves the cursor up or down, skipping unavailable options
func (m *ResolutionPickerOverlay) moveCursor(delta int) {
	newCursor := m.cursor + delta

	// Wrap around
	if newCursor < 0 {
		newCursor = len(m.options) - 1
	} else if newCursor >= len(m.options) {
		newCursor = 0
	}

	// Skip unavailable options
	for attempts := 0; attempts < len(m.options); attempts++ {
		if m.options[newCursor].Available {
			m.cursor = newCursor
			return
		}
		newCursor += delta
		if newCursor < 0 {
			newCursor = len(m.options) - 1
		} else if newCursor >= len(m.options) {
			newCursor = 0
		}
	}
}

// Cursor returns the key of the option under the cursor.
func (m *ResolutionPickerOverlay) Cursor() string {
	return m.options[m.cursor].Key
}

// Render renders the picker
func (m *ResolutionPickerOverlay) Render(opts ...WhitespaceOption) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF"))

	selectedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7aa2f7")).
		Bold(true)

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	unavailableStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#555555")).
		Strikethrough(true)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		PaddingLeft(4)

	var content strings.Builder
	content.WriteString(titleStyle.Render("Virtual Resolution"))
	content.WriteString("\n\n")

	for i, opt := range m.options {
		prefix := "  "
		nameStyle := normalStyle
		switch {
		case !opt.Available:
			nameStyle = unavailableStyle
		case i == m.cursor:
			prefix = "> "
			nameStyle = selectedStyle
		}

		content.WriteString(prefix)
		content.WriteString(nameStyle.Render(opt.Name))
		if !opt.Available {
			content.WriteString(" (" + opt.Reason + ")")
		}
		content.WriteString("\n")
		if i == m.cursor {
			content.WriteString(descStyle.Render(opt.Description))
			content.WriteString("\n")
		}
	}
	content.WriteString("\n")

	content.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Render(
		"[Enter] Select  [Esc] Cancel  [↑/↓] Navigate"))

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7aa2f7")).
		Padding(1, 2).
		Width(m.width)

	box := borderStyle.Render(content.String())
	if len(opts) == 0 {
		return box
	}
	return lipgloss.Place(lipgloss.Width(box), lipgloss.Height(box), lipgloss.Center, lipgloss.Center, box, opts...)
}

// SetWidth sets the width of the overlay
func (m *ResolutionPickerOverlay) SetWidth(width int) {
	m.width = width
}

// GetSelected returns the selected preset key
func (m *ResolutionPickerOverlay) GetSelected() string {
	return m.Selected
}
