package config

import (
	"cockpitview/log"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateKey is the store key holding the preview application's own state.
const StateKey = "state"

// AppState handles application-level state
type AppState interface {
	// GetHelpScreensSeen returns the bitmask of seen help screens
	GetHelpScreensSeen() uint32
	// SetHelpScreensSeen updates the bitmask of seen help screens
	SetHelpScreensSeen(seen uint32) error
}

// State represents the preview application state that persists between sessions.
type State struct {
	// HelpScreensSeen is a bitmask tracking which help screens have been shown
	HelpScreensSeen uint32 `json:"help_screens_seen"`
	// LastExportPath is where the last snapshot was written.
	LastExportPath string `json:"last_export_path,omitempty"`

	store Store
}

// DefaultState returns the default state
func DefaultState() *State {
	return &State{}
}

// LoadState loads the state from store. If it cannot be done, we return the default state.
func LoadState(store Store) *State {
	state := DefaultState()
	state.store = store
	if store == nil {
		return state
	}

	data, err := store.Get(StateKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WarningLog.Printf("failed to get state: %v", err)
		}
		return state
	}

	if err := json.Unmarshal(data, state); err != nil {
		log.ErrorLog.Printf("failed to parse state: %v", err)
		state = DefaultState()
		state.store = store
	}
	return state
}

// Save writes the state back to the store it was loaded from.
func (s *State) Save() error {
	if s.store == nil {
		return nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := s.store.Set(StateKey, data); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// GetHelpScreensSeen returns the bitmask of seen help screens
func (s *State) GetHelpScreensSeen() uint32 {
	return s.HelpScreensSeen
}

// SetHelpScreensSeen updates the bitmask of seen help screens
func (s *State) SetHelpScreensSeen(seen uint32) error {
	s.HelpScreensSeen = seen
	return s.Save()
}

// SetLastExportPath records where a snapshot was last exported.
func (s *State) SetLastExportPath(path string) error {
	s.LastExportPath = path
	return s.Save()
}

// ModTime returns the modification time of the file holding key. Together
// with NeedsRefresh it lets a long-running process notice settings written by
// another one, such as the import subcommand.
func (s *FileStore) ModTime(key string) (time.Time, error) {
	path, err := s.path(key)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// ModTimer is implemented by stores that can report when a key last changed.
type ModTimer interface {
	ModTime(key string) (time.Time, error)
}

// NeedsRefresh reports whether key has been modified since the given time.
// Stores that cannot tell never need a refresh.
func NeedsRefresh(store Store, key string, since time.Time) bool {
	mt, ok := store.(ModTimer)
	if !ok {
		return false
	}
	modTime, err := mt.ModTime(key)
	if err != nil {
		return false
	}
	return modTime.After(since)
}

// StatePath returns the file the default store uses for the application state.
func StatePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, StateKey+".json"), nil
}
