// Package panel lays out independently sized virtual displays, such as the
// radar scope or a console page, inside the physical canvas each one owns.
// A panel has its own design resolution and derives its own contain-fit
// scale; it never reads the cockpit's global scale for its content.
package panel

import (
	"fmt"
	"math"

	"cockpitview/ui/scale"
)

// DefaultRadiusFactor is the share of the scaled short side used as the
// content radius.
const DefaultRadiusFactor = 0.4

// DefaultCameraDistance is the perspective camera distance in virtual pixels.
const DefaultCameraDistance = 1200.0

// Perspective describes a purely presentational 3D tilt applied to an overlay
// layer. Angles are in degrees.
type Perspective struct {
	Enabled  bool    `json:"enabled"`
	TiltX    float64 `json:"tilt_x"`
	TiltY    float64 `json:"tilt_y"`
	Distance float64 `json:"distance,omitempty"`
}

// Spec is the static description of a display type.
type Spec struct {
	Name          string      `json:"name"`
	VirtualWidth  int         `json:"virtual_width"`
	VirtualHeight int         `json:"virtual_height"`
	Perspective   Perspective `json:"perspective"`
	// ContentScaleFraction shrinks the drawable content inside the panel.
	ContentScaleFraction float64 `json:"content_scale_fraction"`
	// RadiusFactor overrides DefaultRadiusFactor when positive.
	RadiusFactor float64 `json:"radius_factor,omitempty"`
}

// Validate checks that the spec describes a drawable panel.
func (s Spec) Validate() error {
	if s.Name == "" {
		return &scale.ValidationError{Field: "panel", Value: s.Name, Reason: "name is required"}
	}
	if s.VirtualWidth <= 0 || s.VirtualHeight <= 0 {
		return &scale.ValidationError{
			Field:  "panel",
			Value:  fmt.Sprintf("%s %dx%d", s.Name, s.VirtualWidth, s.VirtualHeight),
			Reason: "virtual size must be positive",
		}
	}
	if !(s.ContentScaleFraction > 0) || s.ContentScaleFraction > 1 {
		return &scale.ValidationError{Field: "contentScaleFraction", Value: s.ContentScaleFraction, Reason: "must be within (0, 1]"}
	}
	if s.RadiusFactor < 0 || math.IsNaN(s.RadiusFactor) {
		return &scale.ValidationError{Field: "radiusFactor", Value: s.RadiusFactor, Reason: "must not be negative"}
	}
	return nil
}

// Factor returns the radius factor in effect.
func (s Spec) Factor() float64 {
	if s.RadiusFactor > 0 {
		return s.RadiusFactor
	}
	return DefaultRadiusFactor
}

// ContentRadius is the radius of the panel's content in virtual pixels.
func (s Spec) ContentRadius() float64 {
	short := math.Min(float64(s.VirtualWidth), float64(s.VirtualHeight))
	return short * s.ContentScaleFraction * s.Factor()
}

// Built-in display types.
var (
	Radar = Spec{
		Name:                 "radar",
		VirtualWidth:         800,
		VirtualHeight:        800,
		Perspective:          Perspective{Enabled: true, TiltX: 25},
		ContentScaleFraction: 0.9,
	}
	Console = Spec{
		Name:                 "console",
		VirtualWidth:         1024,
		VirtualHeight:        768,
		ContentScaleFraction: 1.0,
	}
	MFD = Spec{
		Name:                 "mfd",
		VirtualWidth:         600,
		VirtualHeight:        600,
		ContentScaleFraction: 0.85,
	}
)

// Defaults lists the built-in display types.
var Defaults = []Spec{Radar, Console, MFD}
