// Package inspect writes machine-readable snapshots of the cockpit preview:
// the published display state, how each policy would frame it, where the
// panels landed and the component tree of the terminal UI.
// Enable it by setting COCKPIT_INSPECT=1.
package inspect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// InspectEnv is the environment variable that turns on inspection.
const InspectEnv = "COCKPIT_INSPECT"

// Introspectable is implemented by UI components that can report their state.
type Introspectable interface {
	// InspectNode returns a structured representation of this component.
	InspectNode() *Node
}

// Global state
var (
	mu          sync.Mutex
	enabled     bool
	enabledOnce sync.Once
	inspectFile string
)

// IsEnabled returns true if inspection mode is active.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	enabledOnce.Do(func() {
		enabled = os.Getenv(InspectEnv) == "1"
		if enabled {
			inspectFile = filepath.Join(os.TempDir(), "cockpitview-inspect.json")
		}
	})
	return enabled
}

// Enable turns inspection on and writes snapshots to path. An empty path
// turns it off.
func Enable(path string) {
	mu.Lock()
	defer mu.Unlock()
	enabledOnce.Do(func() {})
	enabled = path != ""
	inspectFile = path
}

// GetInspectFile returns the path to the inspection output file.
func GetInspectFile() string {
	if !IsEnabled() {
		return ""
	}
	mu.Lock()
	defer mu.Unlock()
	return inspectFile
}

// WriteSnapshot writes a snapshot to the inspection file.
func WriteSnapshot(snapshot *Snapshot) error {
	path := GetInspectFile()
	if path == "" {
		return nil
	}
	return WriteSnapshotToPath(snapshot, path)
}

// WriteSnapshotToPath writes a snapshot to a specific path.
func WriteSnapshotToPath(snapshot *Snapshot, path string) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}
