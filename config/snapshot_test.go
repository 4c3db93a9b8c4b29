package config

import (
	"errors"
	"testing"
	"time"

	"cockpitview/ui/scale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	settings := DefaultSettings()
	settings.Set("crosshairColor", "amber")
	now := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.FixedZone("X", 3600))

	snap := NewSnapshot(settings, scale.Resolution{Width: 1920, Height: 1080}, now)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, time.Date(2026, 3, 14, 8, 26, 53, 0, time.UTC), snap.Timestamp)

	data, err := snap.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"currentResolution"`)
	assert.Contains(t, string(data), `"version": "1.0"`)

	back, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, back.Version)
	assert.True(t, snap.Timestamp.Equal(back.Timestamp))
	assert.True(t, back.Settings.Equal(settings))
	require.NotNil(t, back.CurrentResolution)
	assert.Equal(t, scale.Resolution{Width: 1920, Height: 1080}, *back.CurrentResolution)
}

func TestNewSnapshotCopiesSettings(t *testing.T) {
	settings := DefaultSettings()
	snap := NewSnapshot(settings, scale.DefaultResolution, time.Now())

	settings.Set(KeyFitPolicy, "cover")
	assert.Equal(t, "cropTolerant", snap.Settings.FitPolicy())
}

func TestDecodeSnapshotErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		reason  string
	}{
		{name: "not json", payload: `version=1`, reason: "unparsable payload"},
		{name: "not an object", payload: `[1,2]`, reason: "unparsable payload"},
		{name: "settings absent", payload: `{"version":"1.0"}`, reason: "missing settings"},
		{name: "settings null", payload: `{"version":"1.0","settings":null}`, reason: "missing settings"},
		{name: "settings array", payload: `{"version":"1.0","settings":[1]}`, reason: "malformed settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(tt.payload))
			require.Error(t, err)
			var fe *ImportFormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.reason, fe.Reason)
		})
	}
}

func TestDecodeSnapshotTolerantFields(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"timestamp":"yesterday","settings":{"fitPolicy":"contain"}}`))
	require.NoError(t, err)
	assert.True(t, snap.Timestamp.IsZero())
	assert.Nil(t, snap.CurrentResolution)
	assert.Equal(t, "contain", snap.Settings.FitPolicy())
}
