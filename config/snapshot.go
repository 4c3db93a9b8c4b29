package config

import (
	"bytes"
	"cockpitview/ui/scale"
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotVersion is the version written into exported snapshots.
const SnapshotVersion = "1.0"

// Snapshot is the portable export format for cockpit settings.
type Snapshot struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Settings  *Settings `json:"settings"`
	// CurrentResolution is the virtual resolution active at export time.
	CurrentResolution *scale.Resolution `json:"currentResolution,omitempty"`
}

// ImportFormatError reports a snapshot that cannot be imported.
type ImportFormatError struct {
	Reason string
	Err    error
}

func (e *ImportFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid settings snapshot: %s: %v", e.Reason, e.Err)
	}
	return "invalid settings snapshot: " + e.Reason
}

func (e *ImportFormatError) Unwrap() error {
	return e.Err
}

// NewSnapshot captures settings and the active resolution. The settings are
// copied so later mutations do not leak into the snapshot.
func NewSnapshot(settings *Settings, current scale.Resolution, now time.Time) *Snapshot {
	return &Snapshot{
		Version:           SnapshotVersion,
		Timestamp:         now.UTC().Truncate(time.Second),
		Settings:          settings.Clone(),
		CurrentResolution: &current,
	}
}

// Encode serializes the snapshot as indented JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses an exported snapshot. It fails with an
// *ImportFormatError when the payload is not JSON or has no settings object.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var raw struct {
		Version           string            `json:"version"`
		Timestamp         string            `json:"timestamp"`
		Settings          json.RawMessage   `json:"settings"`
		CurrentResolution *scale.Resolution `json:"currentResolution"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ImportFormatError{Reason: "unparsable payload", Err: err}
	}

	trimmed := bytes.TrimSpace(raw.Settings)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &ImportFormatError{Reason: "missing settings"}
	}

	settings, err := ParseSettings(trimmed)
	if err != nil {
		return nil, &ImportFormatError{Reason: "malformed settings", Err: err}
	}

	snap := &Snapshot{
		Version:           raw.Version,
		Settings:          settings,
		CurrentResolution: raw.CurrentResolution,
	}
	// A bad timestamp does not invalidate the settings it came with.
	if ts, err := time.Parse(time.RFC3339, raw.Timestamp); err == nil {
		snap.Timestamp = ts
	}
	return snap, nil
}
