// Package errors provides sentinel errors for the backupwatch application.
package errors

import "errors"

// Configuration errors
var (
	// ErrNotInitialized is returned when backupwatch has not been initialized.
	ErrNotInitialized = errors.New("backupwatch not initialized")

	// ErrNoBackupPaths is returned when a check is requested but no backup
	// paths are configured.
	ErrNoBackupPaths = errors.New("no backup paths configured")
)

// Evaluation errors
var (
	// ErrPathNotFound is returned when a configured backup path does not exist.
	ErrPathNotFound = errors.New("backup path not found")

	// ErrEmptyInput is returned when a statistics helper is invoked with zero
	// data points. The evaluator's minimum-count gate makes this a caller
	// defect, not a data condition.
	ErrEmptyInput = errors.New("empty input sequence")
)

// Notification errors
var (
	// ErrNoProviders is returned when notifications are requested but no
	// enabled provider is configured.
	ErrNoProviders = errors.New("no notification providers configured")

	// ErrNotifyThrottled is returned when a notification is dropped by the
	// rate limiter.
	ErrNotifyThrottled = errors.New("notification rate limit exceeded")
)

// Run errors
var (
	// ErrLockHeld is returned when another backupwatch run holds the run lock.
	ErrLockHeld = errors.New("another backupwatch run is in progress")
)
