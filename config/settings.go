package config

import (
	"bytes"
	"cockpitview/ui/scale"
	"encoding/json"
	"fmt"
	"math"

	"github.com/brunoga/deep"
	"github.com/iancoleman/orderedmap"
)

// Setting keys owned by the display engine. Every other key is an unrelated
// preference that is carried through untouched.
const (
	KeyResolution        = "resolution"
	KeyCustomWidth       = "customWidth"
	KeyCustomHeight      = "customHeight"
	KeyFitPolicy         = "fitPolicy"
	KeyUIScaleMultiplier = "uiScaleMultiplier"
)

// Settings is a flat, ordered mapping of named options. Unknown keys are
// preserved through load, merge and export.
type Settings struct {
	om *orderedmap.OrderedMap
}

// NewSettings returns an empty Settings.
func NewSettings() *Settings {
	return &Settings{om: orderedmap.New()}
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	s := NewSettings()
	s.Set(KeyResolution, scale.PresetAuto)
	s.Set(KeyCustomWidth, float64(scale.DefaultVirtualWidth))
	s.Set(KeyCustomHeight, float64(scale.DefaultVirtualHeight))
	s.Set(KeyFitPolicy, scale.CropTolerant.String())
	s.Set(KeyUIScaleMultiplier, scale.DefaultUIScale)

	// Preferences owned by other subsystems.
	s.Set("masterVolume", 0.8)
	s.Set("radarSweepRate", 1.0)
	s.Set("hudOpacity", 0.9)
	s.Set("showFps", false)
	s.Set("units", "metric")
	return s
}

// ParseSettings decodes a JSON object into Settings.
func ParseSettings(data []byte) (*Settings, error) {
	s := NewSettings()
	if err := s.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw value stored under key.
func (s *Settings) Get(key string) (any, bool) {
	return s.om.Get(key)
}

// Set stores value under key, keeping the key's position if it exists.
func (s *Settings) Set(key string, value any) {
	s.om.Set(key, value)
}

// Delete removes key.
func (s *Settings) Delete(key string) {
	s.om.Delete(key)
}

// Keys returns the keys in insertion order.
func (s *Settings) Keys() []string {
	return s.om.Keys()
}

// Len returns the number of keys.
func (s *Settings) Len() int {
	return len(s.om.Keys())
}

// Merge shallowly overrides s with every key of other. Keys only present in
// s are kept; values are copied so the two never share nested data.
func (s *Settings) Merge(other *Settings) {
	if other == nil {
		return
	}
	for _, k := range other.Keys() {
		v, _ := other.Get(k)
		s.Set(k, copyValue(v))
	}
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	c := NewSettings()
	c.Merge(s)
	return c
}

func copyValue(v any) any {
	if v == nil {
		return nil
	}
	return deep.MustCopy(v)
}

// String returns the string stored under key, or fallback.
func (s *Settings) String(key, fallback string) string {
	if v, ok := s.Get(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return fallback
}

// Float returns the number stored under key, or fallback.
func (s *Settings) Float(key string, fallback float64) float64 {
	v, ok := s.Get(key)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return fallback
}

// Int returns the number stored under key rounded to an int, or fallback.
func (s *Settings) Int(key string, fallback int) int {
	f := s.Float(key, math.NaN())
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return int(math.Round(f))
}

// Bool returns the boolean stored under key, or fallback.
func (s *Settings) Bool(key string, fallback bool) bool {
	if v, ok := s.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// Resolution returns the selected resolution preset key.
func (s *Settings) Resolution() string {
	return s.String(KeyResolution, scale.PresetAuto)
}

// CustomSize returns the stored custom resolution.
func (s *Settings) CustomSize() scale.Resolution {
	return scale.Resolution{
		Width:  s.Int(KeyCustomWidth, scale.DefaultVirtualWidth),
		Height: s.Int(KeyCustomHeight, scale.DefaultVirtualHeight),
	}
}

// FitPolicy returns the stored fit policy name, which may be unrecognized.
func (s *Settings) FitPolicy() string {
	return s.String(KeyFitPolicy, scale.CropTolerant.String())
}

// UIScaleMultiplier returns the stored UI-scale multiplier.
func (s *Settings) UIScaleMultiplier() float64 {
	return s.Float(KeyUIScaleMultiplier, scale.DefaultUIScale)
}

// SetCustomSize stores r as the custom resolution.
func (s *Settings) SetCustomSize(r scale.Resolution) {
	s.Set(KeyCustomWidth, float64(r.Width))
	s.Set(KeyCustomHeight, float64(r.Height))
}

// MarshalJSON implements json.Marshaler. Keys keep their insertion order.
func (s *Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.om)
}

// UnmarshalJSON implements json.Unmarshaler. The payload must be a JSON
// object; its key order is retained.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}
	if values == nil {
		return fmt.Errorf("settings must be a JSON object")
	}

	// orderedmap recovers the key order; the plain map gives plain values.
	order := orderedmap.New()
	if err := json.Unmarshal(data, order); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}

	om := orderedmap.New()
	for _, k := range order.Keys() {
		om.Set(k, values[k])
	}
	s.om = om
	return nil
}

// Equal reports whether both settings hold the same keys and values,
// ignoring order.
func (s *Settings) Equal(other *Settings) bool {
	a, errA := json.Marshal(s.om.Values())
	b, errB := json.Marshal(other.om.Values())
	return errA == nil && errB == nil && bytes.Equal(a, b)
}
