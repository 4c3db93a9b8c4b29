package app

import (
	"cockpitview/keys"
	"cockpitview/log"
	"cockpitview/ui"
	"cockpitview/ui/overlay"
	"fmt"
	"strings"
)

type helpType int

const (
	// helpTypeGeneral is shown on demand with '?'.
	helpTypeGeneral helpType = iota
	// helpTypeIntro is shown once, the first time the preview starts.
	helpTypeIntro
)

// mask returns the bit of this help screen in the seen bitmask.
func (h helpType) mask() uint32 {
	return 1 << uint(h)
}

func (h helpType) title() string {
	if h == helpTypeIntro {
		return "Cockpit Preview"
	}
	return "Keys"
}

func (h helpType) body() string {
	var b strings.Builder
	if h == helpTypeIntro {
		b.WriteString("This terminal shows how the cockpit is fitted into a window of your terminal's size.\n")
		b.WriteString("Each cell stands for a block of physical pixels.\n\n")
	}
	b.WriteString(ui.StatusStyles.Fit.Render(ui.IconFit) + " exact fit  ")
	b.WriteString(ui.StatusStyles.Letterbox.Render(ui.IconLetterbox) + " letterbox bars  ")
	b.WriteString(ui.StatusStyles.Crop.Render(ui.IconCrop) + " crop within tolerance\n")
	b.WriteString(fmt.Sprintf("Panels are drawn with their names; %q marks where a tilted overlay's corners land.\n", "*"))
	b.WriteString("Click anywhere to read the virtual coordinate under the pointer.")
	return b.String()
}

// showHelpScreen displays a help screen. Screens other than the general one
// are only shown until they have been seen once; onDismiss runs when the
// screen closes or straight away when it is skipped.
func (m *home) showHelpScreen(h helpType, onDismiss func()) {
	seen := m.appState.GetHelpScreensSeen()
	if h != helpTypeGeneral && seen&h.mask() != 0 {
		if onDismiss != nil {
			onDismiss()
		}
		return
	}

	m.helpOverlay = overlay.NewHelpOverlay(h.title(), h.body(), keys.KeyMap{})
	m.helpOverlay.SetWidth(m.overlayWidth(m.width * 3 / 5))
	m.helpDismiss = func() {
		if h != helpTypeGeneral {
			if err := m.appState.SetHelpScreensSeen(seen | h.mask()); err != nil {
				log.WarningLog.Printf("failed to save help screen state: %v", err)
			}
		}
		if onDismiss != nil {
			onDismiss()
		}
	}
	m.state = stateHelp
}
