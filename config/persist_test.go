package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "cockpit-settings"

func TestLoadSettingsMissingRecord(t *testing.T) {
	store := NewMemoryStore()
	s := LoadSettings(store, testKey)
	assert.True(t, s.Equal(DefaultSettings()))
}

func TestLoadSettingsNilStore(t *testing.T) {
	s := LoadSettings(nil, testKey)
	assert.True(t, s.Equal(DefaultSettings()))
}

func TestLoadSettingsUnavailableStore(t *testing.T) {
	store := NewMemoryStore()
	store.SetErr(errors.New("quota exceeded"))

	s := LoadSettings(store, testKey)
	assert.True(t, s.Equal(DefaultSettings()))
}

func TestLoadSettingsCorruptRecord(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(testKey, []byte(`{"resolution":`)))

	s := LoadSettings(store, testKey)
	assert.True(t, s.Equal(DefaultSettings()))

	var backups []string
	for k := range store.data {
		if strings.HasPrefix(k, testKey+".corrupt.") {
			backups = append(backups, k)
		}
	}
	require.Len(t, backups, 1)
	assert.Equal(t, `{"resolution":`, string(store.data[backups[0]]))
}

func TestSaveAndLoadSettings(t *testing.T) {
	store := NewMemoryStore()
	s := DefaultSettings()
	s.Set(KeyFitPolicy, "contain")
	s.Set("crosshairColor", "amber")

	require.NoError(t, SaveSettings(store, testKey, s))

	loaded := LoadSettings(store, testKey)
	assert.Equal(t, "contain", loaded.FitPolicy())
	assert.Equal(t, "amber", loaded.String("crosshairColor", ""))
	assert.True(t, loaded.Equal(s))
}

func TestLoadSettingsPartialRecordMergesDefaults(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(testKey, []byte(`{"uiScaleMultiplier":1.5}`)))

	s := LoadSettings(store, testKey)
	assert.Equal(t, 1.5, s.UIScaleMultiplier())
	assert.Equal(t, "auto", s.Resolution())
}

func TestSaveSettingsFailure(t *testing.T) {
	quota := errors.New("quota exceeded")
	store := NewMemoryStore()
	store.SetErr(quota)

	err := SaveSettings(store, testKey, DefaultSettings())
	require.Error(t, err)
	assert.ErrorIs(t, err, quota)

	assert.Error(t, SaveSettings(nil, testKey, DefaultSettings()))
}

func TestClearSettings(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, SaveSettings(store, testKey, DefaultSettings()))
	require.NoError(t, ClearSettings(store, testKey))

	_, err := store.Get(testKey)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, ClearSettings(nil, testKey))
}
