package config

import (
	"cockpitview/log"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// LoadSettings reads the settings stored under key and merges them over the
// defaults. It never fails: a missing record yields the defaults, and an
// unavailable store or corrupt record is logged and treated the same way.
func LoadSettings(store Store, key string) *Settings {
	settings := DefaultSettings()
	if store == nil {
		return settings
	}

	data, err := store.Get(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WarningLog.Printf("failed to read settings %q, using defaults: %v", key, err)
		}
		return settings
	}

	loaded, err := ParseSettings(data)
	if err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		log.ErrorLog.Printf("failed to parse settings %q: %v\nSettings content preview: %s", key, err, preview)

		// Keep the corrupt record around before it gets overwritten.
		backupKey := key + ".corrupt." + time.Now().Format("20060102-150405")
		if backupErr := store.Set(backupKey, data); backupErr == nil {
			log.InfoLog.Printf("Backed up corrupted settings to: %s", backupKey)
		}
		return settings
	}

	settings.Merge(loaded)
	return settings
}

// SaveSettings writes settings under key.
func SaveSettings(store Store, key string, settings *Settings) error {
	if store == nil {
		return fmt.Errorf("no settings store configured")
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := store.Set(key, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// ClearSettings removes the settings stored under key.
func ClearSettings(store Store, key string) error {
	if store == nil {
		return nil
	}
	if err := store.Delete(key); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	return nil
}
