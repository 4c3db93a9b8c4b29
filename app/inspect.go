package app

import (
	"cockpitview/display"
	"cockpitview/inspect"
)

// inspectSnapshot describes the preview for external tools.
func (m *home) inspectSnapshot(st display.State) *inspect.Snapshot {
	w, h := m.canvas.PixelSize()
	snap := inspect.NewSnapshot().
		WithTerminal(m.width, m.height, w, h).
		WithAppState(m.inspectAppState()).
		WithDisplay(st, m.manager.Surface().Vars(), m.manager.Tolerance()).
		WithPanels(m.layouts).
		WithComponents(m.InspectNode())
	return snap
}

func (m *home) inspectAppState() inspect.AppStateInfo {
	info := inspect.AppStateInfo{State: m.state.String()}
	switch m.state {
	case statePicker:
		info.HasOverlay, info.OverlayType = true, "resolution_picker"
	case stateHelp:
		info.HasOverlay, info.OverlayType = true, "help"
	case stateBrowse:
		info.HasOverlay, info.OverlayType = true, "file_browser"
	case stateLoading:
		info.HasOverlay, info.OverlayType = true, "loading"
	}
	if msg := m.errBox.InspectNode().State["error"]; msg != nil {
		info.ErrorMessage, _ = msg.(string)
	}
	return info
}

// InspectNode returns the component tree with bounds in cells.
func (m *home) InspectNode() *inspect.Node {
	status := m.status.InspectNode()
	status.Bounds.Y = m.layout.StatusY
	errBox := m.errBox.InspectNode()
	errBox.Bounds.Y = m.layout.ErrBoxY

	root := inspect.NewNode("Home").
		WithBounds(0, 0, m.width, m.height).
		WithState("state", m.state.String()).
		WithState("layout_mode", m.layout.Mode.String()).
		WithState("min_warning", m.layout.ShowMinWarning).
		AddChild(m.canvas.InspectNode()).
		AddChild(status)
	if m.layout.MenuVisible() {
		menu := m.menu.InspectNode()
		menu.Bounds.Y = m.layout.MenuY
		root.AddChild(menu)
	}
	return root.AddChild(errBox)
}
