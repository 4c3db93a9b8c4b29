package ui

import (
	"cockpitview/keys"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var keyStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
	Light: "#655F5F",
	Dark:  "#7F7A7A",
})

var descStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
	Light: "#7A7474",
	Dark:  "#9C9494",
})

var sepStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
	Light: "#DDDADA",
	Dark:  "#3C3C3C",
})

var actionGroupStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

var separator = " • "
var verticalSeparator = " │ "

var menuStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205"))

// MenuState represents different states the menu can be in
type MenuState int

const (
	StateDefault MenuState = iota
	// StatePicker is active while the resolution picker is open.
	StatePicker
	// StateBusy is active while a snapshot import runs.
	StateBusy
)

type Menu struct {
	options       []keys.KeyName
	groups        [][2]int
	height, width int
	state         MenuState

	// keyDown is the key which is pressed. The default is -1.
	keyDown keys.KeyName
}

// The default menu: view group | data group | system group.
var defaultMenuOptions = []keys.KeyName{
	keys.KeyPolicy, keys.KeyResolution, keys.KeyUIScaleUp, keys.KeyUIScaleDown,
	keys.KeyExport, keys.KeyImport, keys.KeyCopy, keys.KeyReset,
	keys.KeyHelp, keys.KeyQuit,
}
var defaultMenuGroups = [][2]int{{0, 4}, {4, 8}, {8, 10}}

var pickerMenuOptions = []keys.KeyName{keys.KeyUp, keys.KeyDown, keys.KeyEnter, keys.KeyEsc}
var busyMenuOptions = []keys.KeyName{keys.KeyQuit}

func NewMenu() *Menu {
	m := &Menu{keyDown: -1}
	m.SetState(StateDefault)
	return m
}

func (m *Menu) Keydown(name keys.KeyName) {
	m.keyDown = name
}

func (m *Menu) ClearKeydown() {
	m.keyDown = -1
}

// KeyDown returns the highlighted key, or -1.
func (m *Menu) KeyDown() keys.KeyName {
	return m.keyDown
}

// SetState updates the menu state and options accordingly
func (m *Menu) SetState(state MenuState) {
	m.state = state
	switch state {
	case StatePicker:
		m.options = pickerMenuOptions
		m.groups = [][2]int{{0, len(pickerMenuOptions)}}
	case StateBusy:
		m.options = busyMenuOptions
		m.groups = [][2]int{{0, len(busyMenuOptions)}}
	default:
		m.options = defaultMenuOptions
		m.groups = defaultMenuGroups
	}
}

// State returns the current menu state.
func (m *Menu) State() MenuState {
	return m.state
}

// SetSize sets the width of the window. The menu will be centered horizontally within this width.
func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Menu) String() string {
	var s strings.Builder

	for i, k := range m.options {
		binding := keys.GlobalkeyBindings[k]

		var (
			localActionStyle = actionGroupStyle
			localKeyStyle    = keyStyle
			localDescStyle   = descStyle
		)
		if m.keyDown == k {
			localActionStyle = localActionStyle.Underline(true)
			localKeyStyle = localKeyStyle.Underline(true)
			localDescStyle = localDescStyle.Underline(true)
		}

		// The first group holds the actions that change the scale.
		inActionGroup := len(m.groups) > 1 && i < m.groups[0][1]

		if inActionGroup {
			s.WriteString(localActionStyle.Render(binding.Help().Key))
			s.WriteString(" ")
			s.WriteString(localActionStyle.Render(binding.Help().Desc))
		} else {
			s.WriteString(localKeyStyle.Render(binding.Help().Key))
			s.WriteString(" ")
			s.WriteString(localDescStyle.Render(binding.Help().Desc))
		}

		if i != len(m.options)-1 {
			isGroupEnd := false
			for _, group := range m.groups {
				if i == group[1]-1 {
					s.WriteString(sepStyle.Render(verticalSeparator))
					isGroupEnd = true
					break
				}
			}
			if !isGroupEnd {
				s.WriteString(sepStyle.Render(separator))
			}
		}
	}

	centeredMenuText := menuStyle.Render(s.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, centeredMenuText)
}
