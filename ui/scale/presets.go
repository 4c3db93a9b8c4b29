package scale

import "fmt"

// Resolution is a virtual (design space) canvas size.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultResolution is the design canvas used by the "auto" preset.
var DefaultResolution = Resolution{Width: DefaultVirtualWidth, Height: DefaultVirtualHeight}

// Validate checks r against the virtual resolution bounds.
func (r Resolution) Validate() error {
	if !ValidDimensions(r.Width, r.Height) {
		return &ValidationError{
			Field: "resolution",
			Value: r.String(),
			Reason: fmt.Sprintf("must be within %dx%d..%dx%d",
				MinVirtualWidth, MinVirtualHeight, MaxVirtualWidth, MaxVirtualHeight),
		}
	}
	return nil
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Preset keys with dimensions resolved at apply time.
const (
	PresetAuto       = "auto"
	PresetFullscreen = "fullscreen"
	PresetCustom     = "custom"
)

// Preset describes a selectable virtual resolution. A nil Size means the
// dimensions are computed when the preset is applied: "auto" uses
// DefaultResolution, "fullscreen" snapshots the current viewport and "custom"
// uses the stored custom dimensions.
type Preset struct {
	Key         string      `json:"key"`
	DisplayName string      `json:"display_name"`
	Size        *Resolution `json:"size,omitempty"`
}

// Presets is the built-in preset table in menu order.
var Presets = []Preset{
	{Key: PresetAuto, DisplayName: "Auto (1920x1080)"},
	{Key: PresetFullscreen, DisplayName: "Fullscreen (match window)"},
	{Key: "720p", DisplayName: "HD 1280x720", Size: &Resolution{1280, 720}},
	{Key: "1080p", DisplayName: "Full HD 1920x1080", Size: &Resolution{1920, 1080}},
	{Key: "1440p", DisplayName: "QHD 2560x1440", Size: &Resolution{2560, 1440}},
	{Key: "4k", DisplayName: "UHD 3840x2160", Size: &Resolution{3840, 2160}},
	{Key: "ultrawide", DisplayName: "Ultrawide 2560x1080", Size: &Resolution{2560, 1080}},
	{Key: "xga", DisplayName: "XGA 1024x768", Size: &Resolution{1024, 768}},
	{Key: PresetCustom, DisplayName: "Custom"},
}

// LookupPreset returns the preset registered under key.
func LookupPreset(key string) (Preset, bool) {
	for _, p := range Presets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}
