package inspect

import (
	"fmt"
	"strings"
	"time"

	"cockpitview/display"
	"cockpitview/panel"
	"cockpitview/ui/scale"
)

// Snapshot represents the preview's state at a point in time.
type Snapshot struct {
	// Timestamp when the snapshot was taken.
	Timestamp time.Time `json:"timestamp"`

	// Version of the snapshot format.
	Version string `json:"version"`

	// Terminal contains terminal dimensions in cells.
	Terminal TerminalInfo `json:"terminal"`

	// AppState contains application state information.
	AppState AppStateInfo `json:"app_state"`

	// Display is the published display state, nil before the first recompute.
	Display *DisplayInfo `json:"display,omitempty"`

	// Panels are the placed panel layouts.
	Panels []PanelInfo `json:"panels,omitempty"`

	// Presets is the resolution preset table.
	Presets []scale.Preset `json:"presets"`

	// Components is the root of the component tree.
	Components *Node `json:"components,omitempty"`
}

// TerminalInfo contains terminal dimensions.
type TerminalInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// Pixel size the cells were converted to.
	PixelWidth  float64 `json:"pixel_width"`
	PixelHeight float64 `json:"pixel_height"`
}

// AppStateInfo contains application-level state.
type AppStateInfo struct {
	// State is the current app state (e.g., "default", "picker", "help").
	State string `json:"state"`

	// HasOverlay indicates if an overlay is currently displayed.
	HasOverlay bool `json:"has_overlay"`

	// OverlayType is the type of overlay if one is displayed.
	OverlayType string `json:"overlay_type,omitempty"`

	// ErrorMessage is the current error message if any.
	ErrorMessage string `json:"error_message,omitempty"`
}

// DisplayInfo is the published state plus the framing every policy would
// produce for the same sample.
type DisplayInfo struct {
	State     display.State      `json:"state"`
	Vars      map[string]float64 `json:"vars"`
	Tolerance float64            `json:"tolerance"`
	Framings  []FramingInfo      `json:"framings"`
}

// FramingInfo describes one policy's framing.
type FramingInfo struct {
	scale.Framing
	Active          bool `json:"active"`
	WithinTolerance bool `json:"within_tolerance"`
}

// PanelInfo is one placed panel.
type PanelInfo struct {
	panel.Layout
	Tilted bool `json:"tilted"`
}

// NewSnapshot creates a new snapshot with current timestamp.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Presets:   scale.Presets,
	}
}

// WithTerminal sets terminal info and returns the snapshot for chaining.
func (s *Snapshot) WithTerminal(width, height int, pixelW, pixelH float64) *Snapshot {
	s.Terminal = TerminalInfo{Width: width, Height: height, PixelWidth: pixelW, PixelHeight: pixelH}
	return s
}

// WithAppState sets the application state and returns the snapshot.
func (s *Snapshot) WithAppState(info AppStateInfo) *Snapshot {
	s.AppState = info
	return s
}

// WithDisplay records st and the framing of every policy.
func (s *Snapshot) WithDisplay(st display.State, vars map[string]float64, tolerance float64) *Snapshot {
	info := &DisplayInfo{State: st, Vars: vars, Tolerance: tolerance}
	for _, p := range scale.Policies {
		f := scale.ComputeFraming(st.Sample, p)
		info.Framings = append(info.Framings, FramingInfo{
			Framing:         f,
			Active:          p == st.Policy,
			WithinTolerance: f.WithinTolerance(tolerance),
		})
	}
	s.Display = info
	return s
}

// WithPanels records placed panel layouts.
func (s *Snapshot) WithPanels(layouts []panel.Layout) *Snapshot {
	s.Panels = s.Panels[:0]
	for _, l := range layouts {
		s.Panels = append(s.Panels, PanelInfo{Layout: l, Tilted: l.Overlay != nil})
	}
	return s
}

// WithComponents sets the component tree root.
func (s *Snapshot) WithComponents(root *Node) *Snapshot {
	s.Components = root
	return s
}

// ToText returns a human-readable text representation.
func (s *Snapshot) ToText() string {
	var b strings.Builder

	b.WriteString("=== Cockpit Snapshot ===\n")
	b.WriteString(fmt.Sprintf("Time: %s\n", s.Timestamp.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Terminal: %dx%d (%.0fx%.0f px)\n",
		s.Terminal.Width, s.Terminal.Height, s.Terminal.PixelWidth, s.Terminal.PixelHeight))
	b.WriteString(fmt.Sprintf("State: %s\n", s.AppState.State))

	if d := s.Display; d != nil {
		st := d.State
		b.WriteString("\n--- Display ---\n")
		b.WriteString(fmt.Sprintf("Resolution: %s %s\n", st.ResolutionKey, st.Resolution))
		b.WriteString(fmt.Sprintf("Policy: %s\n", st.Policy))
		b.WriteString(fmt.Sprintf("Scale: %.4f (ui %.2f, effective %.4f, inverse %.4f)\n",
			st.ContentScale, st.UIScale, st.EffectiveScale, st.InverseScale))
		b.WriteString(fmt.Sprintf("Offset: %.1f,%.1f\n", st.OffsetX, st.OffsetY))

		b.WriteString("\n--- Framing ---\n")
		for _, f := range d.Framings {
			status := "[ ]"
			if f.Active {
				status = "[X]"
			}
			b.WriteString(fmt.Sprintf("  %s %s scale=%.4f bars=%.0fx%.0f crop=%.1f%% within=%v\n",
				status, f.Policy, f.Scale, f.LetterboxX, f.LetterboxY, f.CropFraction*100, f.WithinTolerance))
		}
	}

	if len(s.Panels) > 0 {
		b.WriteString("\n--- Panels ---\n")
		for _, p := range s.Panels {
			b.WriteString(fmt.Sprintf("  %s at %.0f,%.0f %.0fx%.0f scale=%.4f radius=%.1f tilted=%v\n",
				p.Name, p.Origin.X, p.Origin.Y, p.CanvasWidth, p.CanvasHeight, p.Scale, p.ScreenRadius, p.Tilted))
		}
	}

	if s.Components != nil {
		b.WriteString("\n--- Components ---\n")
		writeNodeText(&b, s.Components, 0)
	}

	return b.String()
}

func writeNodeText(b *strings.Builder, node *Node, indent int) {
	prefix := strings.Repeat("  ", indent)

	b.WriteString(fmt.Sprintf("%s%s", prefix, node.Type))
	if node.ID != "" {
		b.WriteString(fmt.Sprintf(" [%s]", node.ID))
	}
	b.WriteString(fmt.Sprintf(" (%dx%d)", node.Bounds.Width, node.Bounds.Height))

	if node.Truncated != nil {
		b.WriteString(fmt.Sprintf(" TRUNCATED(%d->%d)",
			node.Truncated.OriginalLength,
			node.Truncated.DisplayLength))
	}

	b.WriteString("\n")

	for _, child := range node.Children {
		writeNodeText(b, child, indent+1)
	}
}
