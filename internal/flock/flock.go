// Package flock provides cross-platform file locking utilities.
//
// Locks are exclusive and non-blocking: a second TryLock on the same path
// fails immediately instead of waiting. They work on both Unix and Windows.
//
// Usage:
//
//	lock, err := flock.TryLock(path)
//	if err != nil {
//	    // Lock not acquired - another process holds it
//	}
//	defer lock.Release()
package flock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrLockHeld indicates another process holds the lock.
var ErrLockHeld = errors.New("lock held by another process")

// Lock represents a held exclusive file lock.
type Lock struct {
	file *os.File
}

// TryLock acquires an exclusive non-blocking lock on the file at path,
// creating the file and its parent directory if needed. Returns an error
// immediately if another process holds the lock.
func TryLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- path is built from internal constants
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", ErrLockHeld, err)
	}

	return &Lock{file: f}, nil
}

// Release unlocks and closes the underlying file. Safe to call once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlock(l.file.Fd())
	closeErr := l.file.Close()
	l.file = nil
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	if l == nil || l.file == nil {
		return ""
	}
	return l.file.Name()
}
