package scale

import "math"

// Framing describes how a scaled virtual canvas sits inside the window:
// how much of the window is left as letterbox bars and how much of the
// canvas falls outside the window.
type Framing struct {
	Policy FitPolicy `json:"policy"`
	Scale  float64   `json:"scale"`

	// Letterbox bars in window pixels, summed over both sides of an axis.
	LetterboxX float64 `json:"letterbox_x"`
	LetterboxY float64 `json:"letterbox_y"`

	// Cropped canvas in window pixels, summed over both sides of an axis.
	CropX float64 `json:"crop_x"`
	CropY float64 `json:"crop_y"`

	// CropFraction is the largest per-axis share of the scaled canvas that is
	// not visible.
	CropFraction float64 `json:"crop_fraction"`
}

// MaxCropFraction is the largest share of the canvas the crop-tolerant policy
// can hide for a given tolerance.
func MaxCropFraction(tolerance float64) float64 {
	return tolerance / (1 + tolerance)
}

// ComputeFraming analyses how the sample's canvas is framed under policy.
func ComputeFraming(s Sample, policy FitPolicy) Framing {
	sc := policy.Select(s)
	w := s.VirtualWidth * sc
	h := s.VirtualHeight * sc

	f := Framing{
		Policy:     policy,
		Scale:      sc,
		LetterboxX: math.Max(0, s.WindowWidth-w),
		LetterboxY: math.Max(0, s.WindowHeight-h),
		CropX:      math.Max(0, w-s.WindowWidth),
		CropY:      math.Max(0, h-s.WindowHeight),
	}
	if w > 0 && h > 0 {
		f.CropFraction = math.Max(f.CropX/w, f.CropY/h)
	}
	return f
}

// Letterboxed reports whether any window area is left uncovered.
func (f Framing) Letterboxed() bool {
	return f.LetterboxX > 0 || f.LetterboxY > 0
}

// Cropped reports whether any part of the canvas is outside the window.
func (f Framing) Cropped() bool {
	return f.CropX > 0 || f.CropY > 0
}

// WithinTolerance reports whether the hidden share of the canvas stays within
// what the tolerance allows. A small epsilon absorbs float rounding.
func (f Framing) WithinTolerance(tolerance float64) bool {
	return f.CropFraction <= MaxCropFraction(tolerance)+1e-9
}
