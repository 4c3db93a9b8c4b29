package display

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cockpitview/config"
	"cockpitview/ui/scale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestStartPublishesState(t *testing.T) {
	m, _ := newTestManager(t, config.NewMemoryStore())
	rec := record(m)

	require.NoError(t, m.Start(2560, 1440))

	st, ok := m.State()
	require.True(t, ok)
	assert.Equal(t, scale.PresetAuto, st.ResolutionKey)
	assert.Equal(t, scale.DefaultResolution, st.Resolution)
	assert.InDelta(t, 4.0/3.0, st.ContentScale, eps)
	assert.InDelta(t, 4.0/3.0, st.EffectiveScale, eps)
	assert.InDelta(t, 0.75, st.InverseScale, eps)
	assert.InDelta(t, 2560, st.ScaledWidth, eps)
	assert.InDelta(t, 1440, st.ScaledHeight, eps)
	assert.InDelta(t, 0, st.OffsetX, eps)
	assert.InDelta(t, 0, st.OffsetY, eps)

	assert.Equal(t, 1, rec.scaleCount())
	assert.Equal(t, st, rec.lastScale().State)
	assert.Equal(t, st.Sample, rec.lastScale().Sample)

	vars := m.Surface().Vars()
	assert.Len(t, vars, len(VarNames))
	assert.InDelta(t, 4.0/3.0, vars[VarScale], eps)
	assert.Equal(t, 1920.0, vars[VarBaseWidth])
	assert.Equal(t, 2560.0, vars[VarWindowWidth])
}

func TestUltrawideCropTolerant(t *testing.T) {
	m, _ := newTestManager(t, nil)
	require.NoError(t, m.Start(2560, 1080))

	st, _ := m.State()
	assert.InDelta(t, 1.0, st.Sample.ContainScale, eps)
	assert.InDelta(t, 4.0/3.0, st.Sample.CoverScale, eps)
	assert.InDelta(t, 1.1, st.ContentScale, eps)
	assert.InDelta(t, 2112, st.ScaledWidth, eps)
	assert.InDelta(t, 1188, st.ScaledHeight, eps)
	assert.InDelta(t, 224, st.OffsetX, eps)
	assert.InDelta(t, -54, st.OffsetY, eps)
	assert.True(t, st.Framing().WithinTolerance(m.Tolerance()))
}

func TestRecomputeIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t, nil)
	require.NoError(t, m.Start(1366, 768))

	first := m.Recompute()
	second := m.Recompute()
	assert.True(t, first == second, "states must be bit-identical")
}

func TestRecomputeSkipsUnusableViewport(t *testing.T) {
	m, _ := newTestManager(t, nil)
	rec := record(m)

	require.NoError(t, m.Start(0, 0))
	_, ok := m.State()
	assert.False(t, ok)
	assert.Zero(t, rec.scaleCount())
	assert.Nil(t, m.Surface().Load())

	_, err := m.Mapper().VirtualToScreen(scale.Point{X: 1, Y: 1})
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func TestApplySettingsRecomputesOnce(t *testing.T) {
	store := config.NewMemoryStore()
	stored := config.DefaultSettings()
	stored.Set(config.KeyResolution, scale.PresetCustom)
	stored.SetCustomSize(scale.Resolution{Width: 1280, Height: 720})
	stored.Set(config.KeyFitPolicy, "contain")
	stored.Set(config.KeyUIScaleMultiplier, 1.5)
	require.NoError(t, config.SaveSettings(store, config.DefaultConfig().SettingsKey, stored))

	m, _ := newTestManager(t, store)
	rec := record(m)

	require.NoError(t, m.Start(2560, 1440))
	assert.Equal(t, 1, rec.scaleCount())
	assert.Equal(t, 1, rec.resolutionCount())

	st := rec.lastScale().State
	assert.Equal(t, scale.Resolution{Width: 1280, Height: 720}, st.Resolution)
	assert.Equal(t, scale.Contain, st.Policy)
	assert.InDelta(t, 2.0, st.ContentScale, eps)
	assert.InDelta(t, 1.5, st.UIScale, eps)
	assert.InDelta(t, 3.0, st.EffectiveScale, eps)
	assert.InDelta(t, 2560, st.ScaledWidth, eps, "scaled size uses the content scale")

	require.NoError(t, m.ApplySettings())
	assert.Equal(t, 2, rec.scaleCount())
	assert.Equal(t, 1, rec.resolutionCount(), "unchanged resolution is not announced again")
}

func TestApplySettingsFallsBackOnInvalidValues(t *testing.T) {
	store := config.NewMemoryStore()
	require.NoError(t, store.Set(config.DefaultConfig().SettingsKey,
		[]byte(`{"resolution":"8k","fitPolicy":"stretch","uiScaleMultiplier":9}`)))

	m, _ := newTestManager(t, store)
	rec := record(m)

	err := m.Start(1920, 1080)
	require.Error(t, err)
	var ve *scale.ValidationError
	assert.True(t, errors.As(err, &ve))

	st, ok := m.State()
	require.True(t, ok, "invalid settings still produce a state")
	assert.Equal(t, scale.PresetAuto, st.ResolutionKey)
	assert.Equal(t, scale.CropTolerant, st.Policy, "unknown policy fails closed")
	assert.InDelta(t, 1.0, st.UIScale, eps)
	assert.Equal(t, 1, rec.scaleCount())
}

func TestApplySettingsKeepsActiveValuesOnInvalidStore(t *testing.T) {
	dir := t.TempDir()
	store := config.NewFileStore(dir)
	m, _ := newTestManager(t, store)
	require.NoError(t, m.Start(1920, 1080))
	require.NoError(t, m.SetFitPolicy("contain"))
	require.NoError(t, m.SetUIScaleMultiplier(1.5))

	key := config.DefaultConfig().SettingsKey
	require.NoError(t, store.Set(key, []byte(`{"fitPolicy":"stretch","uiScaleMultiplier":9}`)))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, key+".json"), future, future))

	reloaded, err := m.Reload()
	assert.True(t, reloaded)
	var ve *scale.ValidationError
	require.True(t, errors.As(err, &ve))

	assert.Equal(t, scale.Contain, m.Policy())
	assert.InDelta(t, 1.5, m.UIScaleMultiplier(), eps)
	st, ok := m.State()
	require.True(t, ok)
	assert.Equal(t, scale.Contain, st.Policy)
	assert.InDelta(t, 1.5, st.UIScale, eps)
}

func TestSetUIScaleMultiplierRejectsOutOfRange(t *testing.T) {
	m, _ := newTestManager(t, config.NewMemoryStore())
	require.NoError(t, m.Start(1920, 1080))
	require.NoError(t, m.SetUIScaleMultiplier(1.5))

	err := m.SetUIScaleMultiplier(2.5)
	var ve *scale.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "uiScaleMultiplier", ve.Field)

	st := m.Recompute()
	assert.InDelta(t, 1.5, st.UIScale, eps)
	v, ok := m.Surface().Value(VarUIScale)
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, eps)
	assert.InDelta(t, 1.5, m.Settings().UIScaleMultiplier(), eps)

	assert.Error(t, m.SetUIScaleMultiplier(0.49))
	assert.NoError(t, m.SetUIScaleMultiplier(0.5))
	assert.NoError(t, m.SetUIScaleMultiplier(2.0))
}

func TestSetVirtualResolution(t *testing.T) {
	m, _ := newTestManager(t, config.NewMemoryStore())
	rec := record(m)
	require.NoError(t, m.Start(1920, 1080))

	require.NoError(t, m.SetVirtualResolution(scale.PresetCustom, 1280, 720))
	key, r := m.Resolution()
	assert.Equal(t, scale.PresetCustom, key)
	assert.Equal(t, scale.Resolution{Width: 1280, Height: 720}, r)
	assert.Equal(t, r, m.Settings().CustomSize(), "custom size becomes the stored default")

	last := rec.resolutions[len(rec.resolutions)-1]
	assert.Equal(t, ResolutionChanged{Key: scale.PresetCustom, Width: 1280, Height: 720, Preset: last.Preset}, last)
	assert.Equal(t, scale.PresetCustom, last.Preset.Key)

	t.Run("below the absolute floor is rejected", func(t *testing.T) {
		before := rec.scaleCount()
		err := m.SetVirtualResolution(scale.PresetCustom, 100, 600)
		var ve *scale.ValidationError
		require.True(t, errors.As(err, &ve))

		key, r := m.Resolution()
		assert.Equal(t, scale.PresetCustom, key)
		assert.Equal(t, scale.Resolution{Width: 1280, Height: 720}, r)
		assert.Equal(t, r, m.Settings().CustomSize())
		assert.Equal(t, before, rec.scaleCount())
	})

	t.Run("800 wide is within bounds", func(t *testing.T) {
		require.NoError(t, m.SetVirtualResolution(scale.PresetCustom, 800, 600))
		_, r := m.Resolution()
		assert.Equal(t, scale.Resolution{Width: 800, Height: 600}, r)
	})

	t.Run("stored custom size is reused", func(t *testing.T) {
		require.NoError(t, m.SetVirtualResolution("4k", 0, 0))
		require.NoError(t, m.SetVirtualResolution(scale.PresetCustom, 0, 0))
		_, r := m.Resolution()
		assert.Equal(t, scale.Resolution{Width: 800, Height: 600}, r)
	})

	t.Run("unknown preset", func(t *testing.T) {
		assert.Error(t, m.SetVirtualResolution("8k", 0, 0))
		key, _ := m.Resolution()
		assert.Equal(t, scale.PresetCustom, key)
	})
}

func TestFullscreenIsASnapshot(t *testing.T) {
	m, sched := newTestManager(t, nil)
	require.NoError(t, m.Start(1600, 900))
	require.NoError(t, m.SetVirtualResolution(scale.PresetFullscreen, 0, 0))

	st, _ := m.State()
	assert.Equal(t, scale.Resolution{Width: 1600, Height: 900}, st.Resolution)
	assert.InDelta(t, 1.0, st.ContentScale, eps)

	m.Resize(3200, 1800)
	require.Equal(t, 1, sched.Flush())

	st, _ = m.State()
	assert.Equal(t, scale.Resolution{Width: 1600, Height: 900}, st.Resolution, "virtual size does not follow the window")
	assert.InDelta(t, 2.0, st.ContentScale, eps)
}

func TestFullscreenRejectsTinyViewport(t *testing.T) {
	m, _ := newTestManager(t, nil)
	require.NoError(t, m.Start(300, 200))
	assert.Error(t, m.SetVirtualResolution(scale.PresetFullscreen, 0, 0))
	key, _ := m.Resolution()
	assert.Equal(t, scale.PresetAuto, key)
}

func TestSetFitPolicy(t *testing.T) {
	m, _ := newTestManager(t, nil)
	require.NoError(t, m.Start(2560, 1080))

	require.NoError(t, m.SetFitPolicy("cover"))
	st, _ := m.State()
	assert.InDelta(t, 4.0/3.0, st.ContentScale, eps)

	require.NoError(t, m.SetFitPolicy("contain"))
	st, _ = m.State()
	assert.InDelta(t, 1.0, st.ContentScale, eps)
	assert.InDelta(t, 320, st.OffsetX, eps)

	assert.Error(t, m.SetFitPolicy("stretch"))
	assert.Equal(t, scale.Contain, m.Policy())
	assert.Equal(t, "contain", m.Settings().FitPolicy())
}

func TestResizeBurstCollapses(t *testing.T) {
	m, sched := newTestManager(t, nil)
	require.NoError(t, m.Start(800, 600))
	rec := record(m)

	m.Resize(1000, 700)
	m.OrientationChanged(700, 1000)
	m.Resize(1920, 1080)
	assert.True(t, m.Pending())
	assert.Zero(t, rec.scaleCount(), "nothing is published during the window")

	assert.Equal(t, 1, sched.Flush())
	assert.False(t, m.Pending())
	require.Equal(t, 1, rec.scaleCount())
	assert.Equal(t, 1920.0, rec.lastScale().State.WindowWidth, "last event wins")

	m.Resize(640, 480)
	assert.True(t, m.Pending())
	m.Stop()
	assert.False(t, m.Pending())
	assert.Zero(t, sched.Flush())
}

func TestResizeWithoutDelayIsImmediate(t *testing.T) {
	opts := DefaultOptions()
	opts.Delay = 0
	opts.Surface = NewSurface()
	m := NewManager(opts)
	require.NoError(t, m.Start(800, 600))

	m.Resize(1600, 1200)
	st, _ := m.State()
	assert.Equal(t, 1600.0, st.WindowWidth)
}

func TestPersistenceFailureKeepsEngineUsable(t *testing.T) {
	store := config.NewMemoryStore()
	store.SetErr(errors.New("quota exceeded"))

	m, _ := newTestManager(t, store)
	require.NoError(t, m.Start(1920, 1080))
	require.NoError(t, m.SetFitPolicy("cover"))
	require.NoError(t, m.SetVirtualResolution("720p", 0, 0))
	require.NoError(t, m.Reset())

	st, ok := m.State()
	require.True(t, ok)
	assert.Equal(t, scale.CropTolerant, st.Policy)
}

func TestSettersPersist(t *testing.T) {
	store := config.NewMemoryStore()
	m, _ := newTestManager(t, store)
	require.NoError(t, m.Start(1920, 1080))
	require.NoError(t, m.SetFitPolicy("cover"))
	require.NoError(t, m.SetVirtualResolution("1440p", 0, 0))

	loaded := config.LoadSettings(store, config.DefaultConfig().SettingsKey)
	assert.Equal(t, "cover", loaded.FitPolicy())
	assert.Equal(t, "1440p", loaded.Resolution())

	// A fresh manager on the same store comes back in the same place.
	again, _ := newTestManager(t, store)
	require.NoError(t, again.Start(1920, 1080))
	key, r := again.Resolution()
	assert.Equal(t, "1440p", key)
	assert.Equal(t, scale.Resolution{Width: 2560, Height: 1440}, r)
	assert.Equal(t, scale.Cover, again.Policy())
}

func TestReset(t *testing.T) {
	store := config.NewMemoryStore()
	m, _ := newTestManager(t, store)
	require.NoError(t, m.Start(1920, 1080))
	require.NoError(t, m.SetVirtualResolution("xga", 0, 0))
	require.NoError(t, m.SetUIScaleMultiplier(1.25))

	require.NoError(t, m.Reset())

	key, r := m.Resolution()
	assert.Equal(t, scale.PresetAuto, key)
	assert.Equal(t, scale.DefaultResolution, r)
	assert.InDelta(t, 1.0, m.UIScaleMultiplier(), eps)
	assert.True(t, m.Settings().Equal(config.DefaultSettings()))

	_, err := store.Get(config.DefaultConfig().SettingsKey)
	assert.ErrorIs(t, err, config.ErrNotFound)
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	store := config.NewFileStore(dir)
	m, _ := newTestManager(t, store)
	require.NoError(t, m.Start(1920, 1080))

	reloaded, err := m.Reload()
	require.NoError(t, err)
	assert.False(t, reloaded)

	key := config.DefaultConfig().SettingsKey
	external := config.DefaultSettings()
	external.Set(config.KeyFitPolicy, "cover")
	require.NoError(t, config.SaveSettings(store, key, external))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, key+".json"), future, future))

	reloaded, err = m.Reload()
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Equal(t, scale.Cover, m.Policy())
}

func TestViewportAccessor(t *testing.T) {
	m, _ := newTestManager(t, nil)
	m.Resize(1024, 768)
	w, h := m.Viewport()
	assert.Equal(t, 1024.0, w)
	assert.Equal(t, 768.0, h)
}
