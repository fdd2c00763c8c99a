// Package filelock serializes backupwatch runs with a flock-backed,
// PID-stamped lock file, so overlapping check and watch invocations can
// never interleave.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	apperrors "backupwatch/internal/errors"
)

// RunLock guards a single backupwatch run.
type RunLock struct {
	path string
	file *os.File
}

// NewRunLock creates a run lock under the given directory.
func NewRunLock(dir string) *RunLock {
	return &RunLock{path: filepath.Join(dir, "run.lock")}
}

// Acquire takes the lock without blocking. Returns ErrLockHeld when
// another process holds it.
func (l *RunLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		if err == syscall.EWOULDBLOCK {
			return apperrors.ErrLockHeld
		}
		return fmt.Errorf("acquire lock: %w", err)
	}

	// Stamp the holder for debugging; stale content is harmless, the
	// flock is authoritative.
	_ = f.Truncate(0)
	fmt.Fprintf(f, "%d\n", os.Getpid())

	l.file = f
	return nil
}

// Release drops the lock.
func (l *RunLock) Release() error {
	if l.file == nil {
		return nil
	}

	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close lock file: %w", closeErr)
	}
	return nil
}

// WithLock runs fn while holding the lock.
func (l *RunLock) WithLock(fn func() error) error {
	if err := l.Acquire(); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}
