package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyPolicy KeyName = iota
	KeyResolution
	KeyUIScaleUp
	KeyUIScaleDown
	KeyExport
	KeyImport
	KeyCopy
	KeyReset
	KeyHelp
	KeyQuit

	KeyUp
	KeyDown
	KeyEnter
	KeyEsc
)

// GlobalKeyStringsMap is a global, immutable map string to keybinding.
var GlobalKeyStringsMap = map[string]KeyName{
	"p":     KeyPolicy,
	"r":     KeyResolution,
	"+":     KeyUIScaleUp,
	"=":     KeyUIScaleUp,
	"-":     KeyUIScaleDown,
	"e":     KeyExport,
	"i":     KeyImport,
	"c":     KeyCopy,
	"x":     KeyReset,
	"?":     KeyHelp,
	"q":     KeyQuit,
	"up":    KeyUp,
	"k":     KeyUp,
	"down":  KeyDown,
	"j":     KeyDown,
	"enter": KeyEnter,
	"esc":   KeyEsc,
}

// GlobalkeyBindings is a global, immutable map of KeyName to keybinding.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyPolicy: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "fit policy"),
	),
	KeyResolution: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "resolution"),
	),
	KeyUIScaleUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "ui scale up"),
	),
	KeyUIScaleDown: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "ui scale down"),
	),
	KeyExport: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	KeyImport: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "import"),
	),
	KeyCopy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	KeyReset: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reset"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	KeyEnter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("↵", "select"),
	),
	KeyEsc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// KeyMap adapts the global bindings to help.KeyMap so the help screen can be
// rendered with bubbles/help.
type KeyMap struct{}

func binding(names ...KeyName) []key.Binding {
	out := make([]key.Binding, 0, len(names))
	for _, n := range names {
		out = append(out, GlobalkeyBindings[n])
	}
	return out
}

// ShortHelp implements help.KeyMap.
func (KeyMap) ShortHelp() []key.Binding {
	return binding(KeyPolicy, KeyResolution, KeyHelp, KeyQuit)
}

// FullHelp implements help.KeyMap.
func (KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		binding(KeyPolicy, KeyResolution, KeyUIScaleUp, KeyUIScaleDown),
		binding(KeyExport, KeyImport, KeyCopy, KeyReset),
		binding(KeyHelp, KeyQuit),
	}
}
