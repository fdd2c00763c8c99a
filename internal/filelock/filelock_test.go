package filelock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	lock := NewRunLock(t.TempDir())

	require.NoError(t, lock.Acquire())
	require.NoError(t, lock.Release())

	// Released locks can be re-acquired.
	require.NoError(t, lock.Acquire())
	require.NoError(t, lock.Release())
}

func TestReleaseWithoutAcquire(t *testing.T) {
	lock := NewRunLock(t.TempDir())
	assert.NoError(t, lock.Release())
}

func TestWithLock(t *testing.T) {
	lock := NewRunLock(t.TempDir())

	called := false
	err := lock.WithLock(func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	// Lock is free again afterwards.
	require.NoError(t, lock.Acquire())
	require.NoError(t, lock.Release())
}
