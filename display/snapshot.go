package display

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cockpitview/config"
	"cockpitview/log"
	"cockpitview/ui/scale"
)

// Export serializes the current settings and virtual resolution.
func (m *Manager) Export() ([]byte, error) {
	m.mu.Lock()
	snap := config.NewSnapshot(m.settings, m.resolution, m.opts.Now())
	m.mu.Unlock()
	return snap.Encode()
}

// ExportFile writes an export to path, creating parent directories.
func (m *Manager) ExportFile(path string) error {
	data, err := m.Export()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	log.InfoLog.Printf("exported settings to %s", path)
	return nil
}

// Import merges a snapshot into the current settings, persists them and
// applies them. A malformed snapshot, an invalid currentResolution or an
// invalid display setting changes nothing.
func (m *Manager) Import(data []byte) error {
	snap, err := config.DecodeSnapshot(data)
	if err != nil {
		log.ErrorLog.Printf("import rejected: %v", err)
		return err
	}

	return m.mutate(func(b *batch) error {
		merged := m.settings.Clone()
		merged.Merge(snap.Settings)

		if r := snap.CurrentResolution; r != nil {
			if err := r.Validate(); err != nil {
				log.ErrorLog.Printf("import rejected: %v", err)
				return err
			}
			// Fixed presets define their own size; only the computed ones
			// take the snapshot's resolution.
			switch merged.Resolution() {
			case scale.PresetCustom:
				merged.SetCustomSize(*r)
			case scale.PresetFullscreen:
				merged.Set(config.KeyResolution, scale.PresetCustom)
				merged.SetCustomSize(*r)
			}
		}

		if err := validateSettings(merged); err != nil {
			log.ErrorLog.Printf("import rejected: %v", err)
			return err
		}

		m.settings = merged
		m.persistLocked()
		if err := m.applyLocked(b); err != nil {
			log.WarningLog.Printf("imported settings partially applied: %v", err)
		}
		log.InfoLog.Printf("imported settings snapshot version %q", snap.Version)
		return nil
	})
}

// ImportFile reads a snapshot from path and imports it. Reading happens off
// the caller's goroutine so a cancelled ctx returns promptly; nothing is
// changed in that case.
func (m *Manager) ImportFile(ctx context.Context, path string) error {
	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		data, err := os.ReadFile(path)
		ch <- result{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-ch:
		if r.err != nil {
			log.ErrorLog.Printf("failed to read snapshot %s: %v", path, r.err)
			return fmt.Errorf("failed to read snapshot: %w", r.err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return m.Import(r.data)
	}
}

// Reset restores the built-in defaults, clears the persisted record and
// reapplies.
func (m *Manager) Reset() error {
	return m.mutate(func(b *batch) error {
		m.settings = config.DefaultSettings()
		m.policy = scale.CropTolerant
		m.uiScale = scale.DefaultUIScale
		if err := config.ClearSettings(m.opts.Store, m.opts.SettingsKey); err != nil {
			log.ErrorLog.Printf("settings not cleared: %v", err)
		}
		return m.applyLocked(b)
	})
}
