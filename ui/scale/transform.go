package scale

// Point is a 2D coordinate, either in virtual or in screen space depending on
// context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Transform maps virtual coordinates to screen coordinates: uniform scale
// followed by a translation.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Centered returns the transform that scales a virtual canvas by sc and
// centers it in a window. Offsets are negative when the canvas is cropped.
func Centered(virtualW, virtualH, windowW, windowH, sc float64) Transform {
	return Transform{
		Scale:   sc,
		OffsetX: (windowW - virtualW*sc) / 2,
		OffsetY: (windowH - virtualH*sc) / 2,
	}
}

// Valid reports whether the transform can be inverted.
func (t Transform) Valid() bool {
	return t.Scale > 0
}

// Apply maps a virtual point to screen space.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: p.X*t.Scale + t.OffsetX,
		Y: p.Y*t.Scale + t.OffsetY,
	}
}

// Inverse maps a screen point back to virtual space. It must only be called
// on a Valid transform.
func (t Transform) Inverse(p Point) Point {
	return Point{
		X: (p.X - t.OffsetX) / t.Scale,
		Y: (p.Y - t.OffsetY) / t.Scale,
	}
}

// ApplyRect maps a virtual rectangle to screen space.
func (t Transform) ApplyRect(r Rect) Rect {
	origin := t.Apply(Point{X: r.X, Y: r.Y})
	return Rect{
		X:      origin.X,
		Y:      origin.Y,
		Width:  r.Width * t.Scale,
		Height: r.Height * t.Scale,
	}
}
