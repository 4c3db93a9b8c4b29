package display

import (
	"errors"

	"cockpitview/ui/scale"
)

// ErrInvalidScale is returned when no positive scale has been published.
var ErrInvalidScale = errors.New("display scale is not positive")

// Mapper converts between virtual and screen coordinates using whatever the
// surface currently publishes. It holds no scale of its own, so it is never
// stale.
type Mapper struct {
	surface *Surface
}

// NewMapper returns a mapper reading from surface, or from Global when
// surface is nil.
func NewMapper(surface *Surface) *Mapper {
	if surface == nil {
		surface = Global
	}
	return &Mapper{surface: surface}
}

// Transform returns the currently published content transform.
func (m *Mapper) Transform() (scale.Transform, error) {
	st := m.surface.Load()
	if st == nil {
		return scale.Transform{}, ErrInvalidScale
	}
	t := st.Transform()
	if !t.Valid() {
		return scale.Transform{}, ErrInvalidScale
	}
	return t, nil
}

// VirtualToScreen maps a design-space point to the screen.
func (m *Mapper) VirtualToScreen(p scale.Point) (scale.Point, error) {
	t, err := m.Transform()
	if err != nil {
		return scale.Point{}, err
	}
	return t.Apply(p), nil
}

// ScreenToVirtual maps a screen point back to design space.
func (m *Mapper) ScreenToVirtual(p scale.Point) (scale.Point, error) {
	t, err := m.Transform()
	if err != nil {
		return scale.Point{}, err
	}
	return t.Inverse(p), nil
}

// VirtualRectToScreen maps a design-space rectangle to the screen.
func (m *Mapper) VirtualRectToScreen(r scale.Rect) (scale.Rect, error) {
	t, err := m.Transform()
	if err != nil {
		return scale.Rect{}, err
	}
	return t.ApplyRect(r), nil
}
