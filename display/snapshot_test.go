package display

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cockpitview/config"
	"cockpitview/ui/scale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	m, _ := newTestManager(t, nil)
	require.NoError(t, m.Start(1920, 1080))
	require.NoError(t, m.SetVirtualResolution("720p", 0, 0))

	data, err := m.Export()
	require.NoError(t, err)

	snap, err := config.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, config.SnapshotVersion, snap.Version)
	assert.True(t, snap.Timestamp.Equal(testNow))
	require.NotNil(t, snap.CurrentResolution)
	assert.Equal(t, scale.Resolution{Width: 1280, Height: 720}, *snap.CurrentResolution)
	assert.Equal(t, "720p", snap.Settings.Resolution())
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newTestManager(t, nil)
	require.NoError(t, src.Start(1920, 1080))
	require.NoError(t, src.SetVirtualResolution(scale.PresetCustom, 1600, 1000))
	require.NoError(t, src.SetFitPolicy("contain"))
	require.NoError(t, src.SetUIScaleMultiplier(0.75))

	data, err := src.Export()
	require.NoError(t, err)

	dst, _ := newTestManager(t, config.NewMemoryStore())
	require.NoError(t, dst.Start(1920, 1080))
	require.NoError(t, dst.Import(data))

	key, r := dst.Resolution()
	assert.Equal(t, scale.PresetCustom, key)
	assert.Equal(t, scale.Resolution{Width: 1600, Height: 1000}, r)
	assert.Equal(t, scale.Contain, dst.Policy())
	assert.InDelta(t, 0.75, dst.UIScaleMultiplier(), eps)
	assert.True(t, dst.Settings().Equal(src.Settings()))
}

func TestImportMergesAndPreservesUnknownKeys(t *testing.T) {
	store := config.NewMemoryStore()
	m, _ := newTestManager(t, store)
	require.NoError(t, m.Start(1920, 1080))
	rec := record(m)

	payload := `{
		"version": "1.0",
		"timestamp": "2026-01-01T00:00:00Z",
		"settings": {"resolution": "custom", "fitPolicy": "cover", "crosshairColor": "amber"},
		"currentResolution": {"width": 1024, "height": 768}
	}`
	require.NoError(t, m.Import([]byte(payload)))

	key, r := m.Resolution()
	assert.Equal(t, scale.PresetCustom, key)
	assert.Equal(t, scale.Resolution{Width: 1024, Height: 768}, r)
	assert.Equal(t, scale.Cover, m.Policy())
	assert.Equal(t, 1, rec.scaleCount())

	persisted := config.LoadSettings(store, config.DefaultConfig().SettingsKey)
	assert.Equal(t, "amber", persisted.String("crosshairColor", ""))
	assert.Equal(t, 0.8, persisted.Float("masterVolume", 0), "keys absent from the snapshot survive")
}

func TestImportFullscreenSnapshotBecomesCustom(t *testing.T) {
	m, _ := newTestManager(t, nil)
	require.NoError(t, m.Start(2560, 1440))

	payload := `{"version":"1.0","settings":{"resolution":"fullscreen"},"currentResolution":{"width":1600,"height":900}}`
	require.NoError(t, m.Import([]byte(payload)))

	key, r := m.Resolution()
	assert.Equal(t, scale.PresetCustom, key)
	assert.Equal(t, scale.Resolution{Width: 1600, Height: 900}, r)
}

func TestImportFixedPresetIgnoresCurrentResolution(t *testing.T) {
	m, _ := newTestManager(t, nil)
	require.NoError(t, m.Start(2560, 1440))

	payload := `{"version":"1.0","settings":{"resolution":"1440p"},"currentResolution":{"width":1600,"height":900}}`
	require.NoError(t, m.Import([]byte(payload)))

	_, r := m.Resolution()
	assert.Equal(t, scale.Resolution{Width: 2560, Height: 1440}, r)
}

func TestImportRejectsWithoutMutation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "missing settings", payload: `{"version":"1.0","currentResolution":{"width":1280,"height":720}}`},
		{name: "unparsable", payload: `{"version":`},
		{name: "invalid current resolution", payload: `{"settings":{"resolution":"custom"},"currentResolution":{"width":100,"height":600}}`},
		{name: "ui scale out of range", payload: `{"settings":{"uiScaleMultiplier":9}}`},
		{name: "unknown fit policy", payload: `{"settings":{"fitPolicy":"stretch"}}`},
		{name: "unknown preset", payload: `{"settings":{"resolution":"8k"}}`},
		{name: "custom width out of range", payload: `{"settings":{"customWidth":100}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := config.NewMemoryStore()
			m, _ := newTestManager(t, store)
			require.NoError(t, m.Start(1920, 1080))
			require.NoError(t, m.SetVirtualResolution("xga", 0, 0))
			rec := record(m)

			before := m.Settings()
			stateBefore, _ := m.State()
			storedBefore, err := store.Get(config.DefaultConfig().SettingsKey)
			require.NoError(t, err)

			require.Error(t, m.Import([]byte(tt.payload)))

			key, r := m.Resolution()
			assert.Equal(t, "xga", key)
			assert.Equal(t, scale.Resolution{Width: 1024, Height: 768}, r)
			assert.True(t, m.Settings().Equal(before))
			stateAfter, _ := m.State()
			assert.Equal(t, stateBefore, stateAfter)
			assert.Zero(t, rec.scaleCount())
			storedAfter, err := store.Get(config.DefaultConfig().SettingsKey)
			require.NoError(t, err)
			assert.Equal(t, storedBefore, storedAfter)
		})
	}
}

func TestImportInvalidSettingIsNotExported(t *testing.T) {
	m, _ := newTestManager(t, config.NewMemoryStore())
	require.NoError(t, m.Start(1920, 1080))
	require.NoError(t, m.SetUIScaleMultiplier(1.5))

	err := m.Import([]byte(`{"settings":{"uiScaleMultiplier":9}}`))
	var ve *scale.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "uiScaleMultiplier", ve.Field)

	assert.InDelta(t, 1.5, m.Settings().UIScaleMultiplier(), eps)
	data, err := m.Export()
	require.NoError(t, err)
	snap, err := config.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, snap.Settings.UIScaleMultiplier(), eps)
}

func TestImportMissingSettingsIsFormatError(t *testing.T) {
	m, _ := newTestManager(t, nil)
	err := m.Import([]byte(`{"version":"1.0"}`))
	var fe *config.ImportFormatError
	assert.True(t, errors.As(err, &fe))
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	src, _ := newTestManager(t, nil)
	require.NoError(t, src.Start(1920, 1080))
	require.NoError(t, src.SetVirtualResolution("ultrawide", 0, 0))
	path := filepath.Join(dir, "nested", "cockpit.json")
	require.NoError(t, src.ExportFile(path))

	t.Run("imports", func(t *testing.T) {
		m, _ := newTestManager(t, nil)
		require.NoError(t, m.Start(1920, 1080))
		require.NoError(t, m.ImportFile(context.Background(), path))
		key, _ := m.Resolution()
		assert.Equal(t, "ultrawide", key)
	})

	t.Run("missing file", func(t *testing.T) {
		m, _ := newTestManager(t, nil)
		err := m.ImportFile(context.Background(), filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("cancelled", func(t *testing.T) {
		m, _ := newTestManager(t, nil)
		require.NoError(t, m.Start(1920, 1080))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, m.ImportFile(ctx, path), context.Canceled)
		key, _ := m.Resolution()
		assert.Equal(t, scale.PresetAuto, key)
	})
}
