package scale

import "golang.org/x/exp/constraints"

// Virtual resolution bounds
const (
	// MinVirtualWidth is the narrowest design canvas accepted.
	MinVirtualWidth = 320

	// MaxVirtualWidth is the widest design canvas accepted (8K).
	MaxVirtualWidth = 7680

	// MinVirtualHeight is the shortest design canvas accepted.
	MinVirtualHeight = 240

	// MaxVirtualHeight is the tallest design canvas accepted (8K).
	MaxVirtualHeight = 4320
)

// Default design canvas, used by the "auto" preset.
const (
	DefaultVirtualWidth  = 1920
	DefaultVirtualHeight = 1080
)

// UI-scale multiplier bounds
const (
	// MinUIScale is the smallest accepted UI-chrome multiplier.
	MinUIScale = 0.5

	// MaxUIScale is the largest accepted UI-chrome multiplier.
	MaxUIScale = 2.0

	// DefaultUIScale leaves UI chrome at content scale.
	DefaultUIScale = 1.0
)

// DefaultTolerance is the fraction by which the crop-tolerant scale may exceed
// the contain scale.
const DefaultTolerance = 0.10

// within reports whether lo <= v <= hi.
func within[T constraints.Ordered](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// ValidDimensions reports whether width x height lies inside the virtual
// resolution bounds.
func ValidDimensions(width, height int) bool {
	return within(width, MinVirtualWidth, MaxVirtualWidth) &&
		within(height, MinVirtualHeight, MaxVirtualHeight)
}

// ValidUIScale reports whether m is an accepted UI-scale multiplier.
func ValidUIScale(m float64) bool {
	return within(m, MinUIScale, MaxUIScale)
}
