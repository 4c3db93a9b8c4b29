package panel

import (
	"image"
	"image/color"
	"math"

	"cockpitview/ui/scale"

	"golang.org/x/image/draw"
)

// Pattern draws a calibration image at the panel's virtual size: a grid every
// 100 virtual pixels, a border and the content radius circle.
func Pattern(spec Spec) *image.RGBA {
	w, h := spec.VirtualWidth, spec.VirtualHeight
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{8, 16, 12, 255}), image.Point{}, draw.Src)

	grid := color.RGBA{30, 90, 60, 255}
	for x := 0; x < w; x += 100 {
		for y := 0; y < h; y++ {
			img.Set(x, y, grid)
		}
	}
	for y := 0; y < h; y += 100 {
		for x := 0; x < w; x++ {
			img.Set(x, y, grid)
		}
	}

	edge := color.RGBA{120, 220, 160, 255}
	for x := 0; x < w; x++ {
		img.Set(x, 0, edge)
		img.Set(x, h-1, edge)
	}
	for y := 0; y < h; y++ {
		img.Set(0, y, edge)
		img.Set(w-1, y, edge)
	}

	cx, cy, r := float64(w)/2, float64(h)/2, spec.ContentRadius()
	steps := int(2*math.Pi*r) + 1
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		img.Set(int(cx+r*math.Cos(a)), int(cy+r*math.Sin(a)), edge)
	}
	return img
}

// Rasterize draws src, authored at the panel's virtual size, onto a canvas
// image through the layout's transform. Areas outside the fitted panel stay
// transparent.
func Rasterize(l Layout, src image.Image) *image.RGBA {
	w := int(math.Round(l.CanvasWidth))
	h := int(math.Round(l.CanvasHeight))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	local := l
	local.Origin = scale.Point{}
	draw.ApproxBiLinear.Transform(dst, local.Affine(), src, src.Bounds(), draw.Over, nil)
	return dst
}
