package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const lockFileName = "settings.lock"

// FileLock provides file-based locking for cross-process synchronization.
// It uses a separate lock file rather than locking the data file directly.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a new FileLock guarding the directory dir.
// The lock file is created inside dir.
func NewFileLock(dir string) *FileLock {
	return &FileLock{
		path: filepath.Join(dir, lockFileName),
	}
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Lock acquires an exclusive lock, blocking until it is available.
func (l *FileLock) Lock() error {
	return l.acquire(true)
}

// RLock acquires a shared lock. Readers in several processes may hold it at
// once; it blocks while a writer holds the exclusive lock.
func (l *FileLock) RLock() error {
	return l.acquire(false)
}

func (l *FileLock) acquire(exclusive bool) error {
	if l.file != nil {
		return fmt.Errorf("lock already held")
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := lockFile(f, exclusive); err != nil {
		f.Close()
		mode := "shared"
		if exclusive {
			mode = "exclusive"
		}
		return fmt.Errorf("failed to acquire %s lock: %w", mode, err)
	}

	l.file = f
	return nil
}

// Unlock releases the lock. Unlocking a lock that is not held is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	if err := unlockFile(l.file); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}

	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close lock file: %w", err)
	}

	l.file = nil
	return nil
}
