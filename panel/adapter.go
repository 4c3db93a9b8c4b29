package panel

import (
	"fmt"
	"math"

	"cockpitview/ui/scale"

	"golang.org/x/image/math/f64"
)

// Layout is a panel fitted into a physical canvas.
type Layout struct {
	Name          string  `json:"name"`
	CanvasWidth   float64 `json:"canvas_width"`
	CanvasHeight  float64 `json:"canvas_height"`
	Scale         float64 `json:"scale"`
	OffsetX       float64 `json:"offset_x"`
	OffsetY       float64 `json:"offset_y"`
	ContentRadius float64 `json:"content_radius"`
	ScreenRadius  float64 `json:"screen_radius"`
	// Origin is the canvas's top-left corner on the screen.
	Origin scale.Point `json:"origin"`

	Overlay *Overlay `json:"-"`
}

// Transform maps panel virtual coordinates to screen coordinates.
func (l Layout) Transform() scale.Transform {
	return scale.Transform{
		Scale:   l.Scale,
		OffsetX: l.Origin.X + l.OffsetX,
		OffsetY: l.Origin.Y + l.OffsetY,
	}
}

// Affine returns Transform as an affine matrix, the form golang.org/x/image
// uses for image transforms.
func (l Layout) Affine() f64.Aff3 {
	t := l.Transform()
	return f64.Aff3{
		t.Scale, 0, t.OffsetX,
		0, t.Scale, t.OffsetY,
	}
}

// Rect returns the canvas rectangle on the screen.
func (l Layout) Rect() scale.Rect {
	return scale.Rect{X: l.Origin.X, Y: l.Origin.Y, Width: l.CanvasWidth, Height: l.CanvasHeight}
}

// Center returns the screen position of the panel's virtual center.
func (l Layout) Center() scale.Point {
	return scale.Point{
		X: l.Origin.X + l.CanvasWidth/2,
		Y: l.Origin.Y + l.CanvasHeight/2,
	}
}

// ToScreen maps a panel virtual point to the screen.
func (l Layout) ToScreen(p scale.Point) scale.Point {
	return l.Transform().Apply(p)
}

// ToVirtual maps a screen point back to panel virtual space.
func (l Layout) ToVirtual(p scale.Point) scale.Point {
	return l.Transform().Inverse(p)
}

// At returns a copy of the layout placed with its canvas at origin.
func (l Layout) At(origin scale.Point) Layout {
	delta := scale.Point{X: origin.X - l.Origin.X, Y: origin.Y - l.Origin.Y}
	l.Origin = origin
	if l.Overlay != nil {
		o := *l.Overlay
		o.center = scale.Point{X: o.center.X + delta.X, Y: o.center.Y + delta.Y}
		l.Overlay = &o
	}
	return l
}

// Adapter fits one display type into canvases.
type Adapter struct {
	spec Spec
}

// NewAdapter validates spec and returns its adapter.
func NewAdapter(spec Spec) (*Adapter, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Adapter{spec: spec}, nil
}

// Spec returns the adapter's display type.
func (a *Adapter) Spec() Spec {
	return a.spec
}

// Layout fits the panel into a canvas of the given physical size using the
// contain scale and centering. The canvas origin is (0, 0).
func (a *Adapter) Layout(canvasW, canvasH float64) (Layout, error) {
	if !(canvasW > 0) || !(canvasH > 0) || math.IsInf(canvasW, 0) || math.IsInf(canvasH, 0) {
		return Layout{}, fmt.Errorf("panel %s: invalid canvas %vx%v", a.spec.Name, canvasW, canvasH)
	}

	vw, vh := float64(a.spec.VirtualWidth), float64(a.spec.VirtualHeight)
	sample := scale.Compute(vw, vh, canvasW, canvasH, 0)
	t := scale.Centered(vw, vh, canvasW, canvasH, sample.ContainScale)

	l := Layout{
		Name:          a.spec.Name,
		CanvasWidth:   canvasW,
		CanvasHeight:  canvasH,
		Scale:         t.Scale,
		OffsetX:       t.OffsetX,
		OffsetY:       t.OffsetY,
		ContentRadius: a.spec.ContentRadius(),
	}
	l.ScreenRadius = l.ContentRadius * l.Scale
	if a.spec.Perspective.Enabled {
		l.Overlay = newOverlay(a.spec.Perspective, l.Center(), l.Scale)
	}
	return l, nil
}
