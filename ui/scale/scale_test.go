package scale

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		virtualW     float64
		virtualH     float64
		windowW      float64
		windowH      float64
		wantContain  float64
		wantCover    float64
		wantTolerant float64
	}{
		{
			name:         "16:9 into larger 16:9",
			virtualW:     1920,
			virtualH:     1080,
			windowW:      2560,
			windowH:      1440,
			wantContain:  1.3333,
			wantCover:    1.3333,
			wantTolerant: 1.3333,
		},
		{
			name:         "16:9 into 21:9 is height bound",
			virtualW:     1920,
			virtualH:     1080,
			windowW:      2560,
			windowH:      1080,
			wantContain:  1.0,
			wantCover:    1.3333,
			wantTolerant: 1.10,
		},
		{
			name:         "16:9 into 4:3 is width bound",
			virtualW:     1920,
			virtualH:     1080,
			windowW:      1024,
			windowH:      768,
			wantContain:  0.5333,
			wantCover:    0.7111,
			wantTolerant: 0.5867,
		},
		{
			name:         "slight mismatch stays under tolerance cap",
			virtualW:     1920,
			virtualH:     1080,
			windowW:      1920,
			windowH:      1130,
			wantContain:  1.0,
			wantCover:    1.0463,
			wantTolerant: 1.0463,
		},
		{
			name:         "downscale into small window",
			virtualW:     1280,
			virtualH:     720,
			windowW:      640,
			windowH:      360,
			wantContain:  0.5,
			wantCover:    0.5,
			wantTolerant: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(tt.virtualW, tt.virtualH, tt.windowW, tt.windowH, DefaultTolerance)
			assert.InDelta(t, tt.wantContain, s.ContainScale, 1e-3, "contain")
			assert.InDelta(t, tt.wantCover, s.CoverScale, 1e-3, "cover")
			assert.InDelta(t, tt.wantTolerant, s.CropTolerantScale, 1e-3, "crop tolerant")
			assert.InDelta(t, tt.windowW/tt.windowH, s.AspectRatio, 1e-9)
			assert.InDelta(t, tt.virtualW/tt.virtualH, s.BaseAspectRatio, 1e-9)
			assert.True(t, s.Valid())
		})
	}
}

func TestComputeOrdering(t *testing.T) {
	widths := []float64{320, 800, 1024, 1920, 2560, 3840, 7680}
	heights := []float64{240, 600, 768, 1080, 1440, 2160, 4320}

	for _, vw := range widths {
		for _, vh := range heights {
			for _, ww := range widths {
				for _, wh := range heights {
					s := Compute(vw, vh, ww, wh, DefaultTolerance)
					require.LessOrEqual(t, s.ContainScale, s.CropTolerantScale)
					require.LessOrEqual(t, s.CropTolerantScale, s.CoverScale)
					require.Equal(t, math.Min(s.CoverScale, s.ContainScale*1.10), s.CropTolerantScale)
				}
			}
		}
	}
}

func TestComputeRejectsNothingButFlagsInvalid(t *testing.T) {
	assert.False(t, Compute(1920, 1080, 0, 0, DefaultTolerance).Valid())
	assert.False(t, Compute(0, 1080, 1920, 1080, DefaultTolerance).Valid())
	assert.False(t, Compute(1920, 1080, -10, 1080, DefaultTolerance).Valid())
}

func TestSelect(t *testing.T) {
	s := Compute(1920, 1080, 2560, 1080, DefaultTolerance)

	assert.Equal(t, s.ContainScale, Contain.Select(s))
	assert.Equal(t, s.CoverScale, Cover.Select(s))
	assert.Equal(t, s.CropTolerantScale, CropTolerant.Select(s))
	assert.Equal(t, s.CropTolerantScale, FitPolicy(42).Select(s), "unknown policy fails closed")
}

func TestParseFitPolicy(t *testing.T) {
	for _, p := range Policies {
		parsed, err := ParseFitPolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParseFitPolicy("stretch")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fitPolicy", verr.Field)
}

func TestFitPolicyJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Policy FitPolicy `json:"policy"`
	}{Cover})
	require.NoError(t, err)
	assert.JSONEq(t, `{"policy":"cover"}`, string(data))

	var out struct {
		Policy FitPolicy `json:"policy"`
	}
	require.Error(t, json.Unmarshal([]byte(`{"policy":"zoom"}`), &out))
}

func TestFitPolicyNext(t *testing.T) {
	assert.Equal(t, Contain, CropTolerant.Next())
	assert.Equal(t, Cover, Contain.Next())
	assert.Equal(t, CropTolerant, Cover.Next())
	assert.Equal(t, CropTolerant, FitPolicy(-1).Next())
}

func TestResolutionValidate(t *testing.T) {
	tests := []struct {
		name  string
		res   Resolution
		valid bool
	}{
		{"default", DefaultResolution, true},
		{"minimum", Resolution{320, 240}, true},
		{"maximum", Resolution{7680, 4320}, true},
		{"custom 800x600", Resolution{800, 600}, true},
		{"too narrow", Resolution{100, 600}, false},
		{"too short", Resolution{800, 200}, false},
		{"too wide", Resolution{7681, 1080}, false},
		{"too tall", Resolution{1920, 4321}, false},
		{"zero", Resolution{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.res.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidUIScale(t *testing.T) {
	assert.True(t, ValidUIScale(0.5))
	assert.True(t, ValidUIScale(1.0))
	assert.True(t, ValidUIScale(2.0))
	assert.False(t, ValidUIScale(0.49))
	assert.False(t, ValidUIScale(2.5))
}

func TestLookupPreset(t *testing.T) {
	p, ok := LookupPreset("1440p")
	require.True(t, ok)
	require.NotNil(t, p.Size)
	assert.Equal(t, Resolution{2560, 1440}, *p.Size)

	p, ok = LookupPreset(PresetFullscreen)
	require.True(t, ok)
	assert.Nil(t, p.Size)

	_, ok = LookupPreset("8k")
	assert.False(t, ok)

	for _, p := range Presets {
		if p.Size != nil {
			assert.NoError(t, p.Size.Validate(), p.Key)
		}
	}
}

func TestComputeFraming(t *testing.T) {
	s := Compute(1920, 1080, 2560, 1080, DefaultTolerance)

	contain := ComputeFraming(s, Contain)
	assert.InDelta(t, 640, contain.LetterboxX, 1e-9)
	assert.Zero(t, contain.LetterboxY)
	assert.False(t, contain.Cropped())
	assert.True(t, contain.Letterboxed())

	cover := ComputeFraming(s, Cover)
	assert.False(t, cover.Letterboxed())
	assert.InDelta(t, 360, cover.CropY, 1e-6)
	assert.False(t, cover.WithinTolerance(DefaultTolerance))

	tolerant := ComputeFraming(s, CropTolerant)
	assert.InDelta(t, 448, tolerant.LetterboxX, 1e-6)
	assert.InDelta(t, 108, tolerant.CropY, 1e-6)
	assert.True(t, tolerant.WithinTolerance(DefaultTolerance))
}

func TestCropTolerantNeverExceedsTolerance(t *testing.T) {
	for _, tol := range []float64{0, 0.05, 0.10, 0.25} {
		for ww := 400.0; ww <= 4000; ww += 175 {
			for wh := 300.0; wh <= 3000; wh += 133 {
				s := Compute(1920, 1080, ww, wh, tol)
				f := ComputeFraming(s, CropTolerant)
				require.True(t, f.WithinTolerance(tol), "tol=%v window=%vx%v crop=%v", tol, ww, wh, f.CropFraction)
			}
		}
	}
}

func TestTransformRoundTrip(t *testing.T) {
	transforms := []Transform{
		Centered(1920, 1080, 2560, 1440, 4.0/3.0),
		Centered(1920, 1080, 2560, 1080, 1.1),
		Centered(1024, 768, 3440, 1440, 0.37),
		{Scale: 2.5, OffsetX: -120.25, OffsetY: 33},
	}
	points := []Point{{0, 0}, {1920, 1080}, {960.5, 540.25}, {-50, 7000}, {1e-3, 1e6}}

	for _, tr := range transforms {
		require.True(t, tr.Valid())
		for _, p := range points {
			got := tr.Inverse(tr.Apply(p))
			assert.InDelta(t, p.X, got.X, 1e-6)
			assert.InDelta(t, p.Y, got.Y, 1e-6)
		}
	}

	assert.False(t, Transform{}.Valid())
}

func TestCentered(t *testing.T) {
	tr := Centered(1920, 1080, 2560, 1080, 1.1)
	assert.InDelta(t, 224, tr.OffsetX, 1e-6)
	assert.InDelta(t, -54, tr.OffsetY, 1e-6)

	r := tr.ApplyRect(Rect{X: 0, Y: 0, Width: 1920, Height: 1080})
	assert.InDelta(t, 2112, r.Width, 1e-6)
	assert.InDelta(t, 1188, r.Height, 1e-6)
}
