// Package scale provides the viewport scale math shared by every visual
// subsystem: candidate scale factors for a design canvas inside a window,
// fit policy selection, and the resulting centering transform.
package scale

import "math"

// Sample holds the candidate scale factors for one (virtual, window) size
// pair. It is a value type and is never mutated after Compute returns it.
type Sample struct {
	// ContainScale keeps the whole virtual canvas visible.
	ContainScale float64 `json:"contain_scale"`
	// CoverScale fills the window, possibly cropping one axis.
	CoverScale float64 `json:"cover_scale"`
	// CropTolerantScale is min(CoverScale, ContainScale*(1+tolerance)).
	CropTolerantScale float64 `json:"crop_tolerant_scale"`

	VirtualWidth  float64 `json:"virtual_width"`
	VirtualHeight float64 `json:"virtual_height"`
	WindowWidth   float64 `json:"window_width"`
	WindowHeight  float64 `json:"window_height"`

	// AspectRatio is the window aspect ratio (width/height).
	AspectRatio float64 `json:"aspect_ratio"`
	// BaseAspectRatio is the virtual canvas aspect ratio.
	BaseAspectRatio float64 `json:"base_aspect_ratio"`
	// Tolerance is the crop tolerance the sample was computed with.
	Tolerance float64 `json:"tolerance"`
}

// Compute returns the candidate scale factors for fitting a virtual canvas of
// virtualW x virtualH into a window of actualW x actualH.
//
// Compute is total: zero or negative sizes yield NaN or Inf fields, so callers
// reject such sizes before calling it.
func Compute(virtualW, virtualH, actualW, actualH, tolerance float64) Sample {
	sx := actualW / virtualW
	sy := actualH / virtualH

	contain := math.Min(sx, sy)
	cover := math.Max(sx, sy)

	return Sample{
		ContainScale:      contain,
		CoverScale:        cover,
		CropTolerantScale: math.Min(cover, contain*(1+tolerance)),
		VirtualWidth:      virtualW,
		VirtualHeight:     virtualH,
		WindowWidth:       actualW,
		WindowHeight:      actualH,
		AspectRatio:       actualW / actualH,
		BaseAspectRatio:   virtualW / virtualH,
		Tolerance:         tolerance,
	}
}

// Valid reports whether every scale in the sample is finite and positive.
func (s Sample) Valid() bool {
	for _, v := range []float64{s.ContainScale, s.CoverScale, s.CropTolerantScale} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}
