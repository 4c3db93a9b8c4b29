package panel

import (
	"math"

	"cockpitview/ui/scale"

	"golang.org/x/image/math/f64"
)

// Overlay projects points of a tilted overlay layer. It only produces screen
// positions for decoration; the 2D layout it belongs to is never changed.
type Overlay struct {
	rotation f64.Mat3
	center   scale.Point
	distance float64
}

func newOverlay(p Perspective, center scale.Point, sc float64) *Overlay {
	d := p.Distance
	if d <= 0 {
		d = DefaultCameraDistance
	}
	return &Overlay{
		rotation: mul3(rotateY(p.TiltY), rotateX(p.TiltX)),
		center:   center,
		distance: d * sc,
	}
}

// Rotation returns the combined tilt, X first then Y, as a row-major matrix.
func (o *Overlay) Rotation() f64.Mat3 {
	return o.rotation
}

// Project maps a screen point on the flat layer to where it appears on the
// tilted layer, rotating about the layout center and dividing by depth.
func (o *Overlay) Project(p scale.Point) scale.Point {
	v := f64.Vec3{p.X - o.center.X, p.Y - o.center.Y, 0}
	r := o.rotation
	x := r[0]*v[0] + r[1]*v[1] + r[2]*v[2]
	y := r[3]*v[0] + r[4]*v[1] + r[5]*v[2]
	z := r[6]*v[0] + r[7]*v[1] + r[8]*v[2]

	depth := o.distance + z
	if depth <= 0 {
		// Behind the camera; pin to the center rather than flip.
		return o.center
	}
	f := o.distance / depth
	return scale.Point{X: o.center.X + x*f, Y: o.center.Y + y*f}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func rotateX(deg float64) f64.Mat3 {
	s, c := math.Sincos(radians(deg))
	return f64.Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

func rotateY(deg float64) f64.Mat3 {
	s, c := math.Sincos(radians(deg))
	return f64.Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

func mul3(a, b f64.Mat3) f64.Mat3 {
	var m f64.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				m[i*3+j] += a[i*3+k] * b[k*3+j]
			}
		}
	}
	return m
}
