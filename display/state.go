// Package display owns the cockpit's viewport scaling pipeline: it tracks the
// active virtual resolution, fit policy and UI-scale multiplier, recomputes
// the scale whenever the viewport changes and publishes the result to a
// Surface that renderers read every frame.
package display

import (
	"sync/atomic"

	"cockpitview/ui/scale"
)

// State is one published result of a recompute. It is built completely before
// it is published and never modified afterwards.
type State struct {
	ResolutionKey string           `json:"resolution_key"`
	Resolution    scale.Resolution `json:"resolution"`
	Policy        scale.FitPolicy  `json:"policy"`

	// ContentScale maps virtual content to the screen. UIScale only affects
	// chrome; EffectiveScale is the product of the two. Content layout must
	// never use EffectiveScale.
	ContentScale   float64 `json:"content_scale"`
	UIScale        float64 `json:"ui_scale"`
	EffectiveScale float64 `json:"effective_scale"`
	InverseScale   float64 `json:"inverse_scale"`

	WindowWidth  float64 `json:"window_width"`
	WindowHeight float64 `json:"window_height"`
	ScaledWidth  float64 `json:"scaled_width"`
	ScaledHeight float64 `json:"scaled_height"`
	OffsetX      float64 `json:"offset_x"`
	OffsetY      float64 `json:"offset_y"`

	Sample scale.Sample `json:"sample"`
}

// Transform returns the virtual to screen transform of the content layer.
func (s State) Transform() scale.Transform {
	return scale.Transform{Scale: s.ContentScale, OffsetX: s.OffsetX, OffsetY: s.OffsetY}
}

// Framing reports letterboxing and cropping for the state's policy.
func (s State) Framing() scale.Framing {
	return scale.ComputeFraming(s.Sample, s.Policy)
}

// Names of the values published on a Surface.
const (
	VarScale          = "scale"
	VarUIScale        = "ui-scale"
	VarEffectiveScale = "effective-scale"
	VarInverseScale   = "inverse-scale"
	VarBaseWidth      = "base-width"
	VarBaseHeight     = "base-height"
	VarWindowWidth    = "window-width"
	VarWindowHeight   = "window-height"
	VarScaledWidth    = "scaled-width"
	VarScaledHeight   = "scaled-height"
	VarOffsetX        = "offset-x"
	VarOffsetY        = "offset-y"
)

// VarNames lists every published value name in a stable order.
var VarNames = []string{
	VarScale, VarUIScale, VarEffectiveScale, VarInverseScale,
	VarBaseWidth, VarBaseHeight, VarWindowWidth, VarWindowHeight,
	VarScaledWidth, VarScaledHeight, VarOffsetX, VarOffsetY,
}

// Surface is the globally readable set of named scale values. Readers never
// see a partially updated state: a publish swaps one pointer.
type Surface struct {
	state atomic.Pointer[State]
}

// Global is the process-wide surface the default Manager publishes to.
// Renderers that are not handed a Surface read from it.
var Global = NewSurface()

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Publish replaces the current state.
func (s *Surface) Publish(st *State) {
	s.state.Store(st)
}

// Load returns the current state, or nil before the first publish.
func (s *Surface) Load() *State {
	return s.state.Load()
}

// Clear drops the published state.
func (s *Surface) Clear() {
	s.state.Store(nil)
}

// Value returns one named value of the current state.
func (s *Surface) Value(name string) (float64, bool) {
	st := s.Load()
	if st == nil {
		return 0, false
	}
	v, ok := st.vars()[name]
	return v, ok
}

// Vars returns every named value of the current state. The map is empty
// before the first publish.
func (s *Surface) Vars() map[string]float64 {
	st := s.Load()
	if st == nil {
		return map[string]float64{}
	}
	return st.vars()
}

func (s *State) vars() map[string]float64 {
	return map[string]float64{
		VarScale:          s.ContentScale,
		VarUIScale:        s.UIScale,
		VarEffectiveScale: s.EffectiveScale,
		VarInverseScale:   s.InverseScale,
		VarBaseWidth:      float64(s.Resolution.Width),
		VarBaseHeight:     float64(s.Resolution.Height),
		VarWindowWidth:    s.WindowWidth,
		VarWindowHeight:   s.WindowHeight,
		VarScaledWidth:    s.ScaledWidth,
		VarScaledHeight:   s.ScaledHeight,
		VarOffsetX:        s.OffsetX,
		VarOffsetY:        s.OffsetY,
	}
}
