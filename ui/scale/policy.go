package scale

import "fmt"

// FitPolicy selects which candidate of a Sample becomes the content scale.
type FitPolicy int

const (
	// CropTolerant fills more of the window than Contain while bounding the
	// crop to the configured tolerance. It is the default.
	CropTolerant FitPolicy = iota

	// Contain never crops; letterbox bars fill the remainder.
	Contain

	// Cover fills the window and crops whatever overflows.
	Cover
)

// Policies lists every fit policy in cycling order.
var Policies = []FitPolicy{CropTolerant, Contain, Cover}

// String returns the persisted name of the policy.
func (p FitPolicy) String() string {
	switch p {
	case CropTolerant:
		return "cropTolerant"
	case Contain:
		return "contain"
	case Cover:
		return "cover"
	default:
		return "unknown"
	}
}

// Known reports whether p is one of the defined policies.
func (p FitPolicy) Known() bool {
	return p == CropTolerant || p == Contain || p == Cover
}

// Next returns the policy after p in cycling order.
func (p FitPolicy) Next() FitPolicy {
	for i, q := range Policies {
		if q == p {
			return Policies[(i+1)%len(Policies)]
		}
	}
	return CropTolerant
}

// ParseFitPolicy converts a persisted policy name into a FitPolicy.
func ParseFitPolicy(name string) (FitPolicy, error) {
	switch name {
	case "cropTolerant":
		return CropTolerant, nil
	case "contain":
		return Contain, nil
	case "cover":
		return Cover, nil
	default:
		return CropTolerant, &ValidationError{Field: "fitPolicy", Value: name, Reason: "unknown fit policy"}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p FitPolicy) MarshalText() ([]byte, error) {
	if !p.Known() {
		return nil, fmt.Errorf("cannot marshal fit policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *FitPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseFitPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Select returns the sample's scale for the policy. Unknown policies fail
// closed to the crop-tolerant scale.
func (p FitPolicy) Select(s Sample) float64 {
	switch p {
	case Contain:
		return s.ContainScale
	case Cover:
		return s.CoverScale
	default:
		return s.CropTolerantScale
	}
}
