// Package testutil provides shared fixtures for backupwatch tests:
// synthetic backup-set series for the evaluator and backdated artifact
// files for collector-level tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"backupwatch/internal/collector"
)

// Series builds count backup items ending at end, spaced by interval,
// each of the given size. Names are backup-000, backup-001, ... in
// chronological order.
func Series(count int, end time.Time, interval time.Duration, size int64) []collector.Item {
	items := make([]collector.Item, count)
	for i := range items {
		items[i] = collector.Item{
			Name:      fmt.Sprintf("backup-%03d", i),
			Timestamp: end.Add(-time.Duration(count-1-i) * interval),
			SizeBytes: size,
		}
	}
	return items
}

// WriteBackupFile creates an artifact file of the given size whose
// modification time is ts, and returns its path.
func WriteBackupFile(t *testing.T, dir, name string, ts time.Time, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	require.NoError(t, os.Chtimes(path, ts, ts))
	return path
}

// WriteBackupDir creates an artifact directory holding a single file of
// the given size, backdated to ts, and returns the directory path.
func WriteBackupDir(t *testing.T, dir, name string, ts time.Time, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "data.bin"), make([]byte, size), 0644))
	require.NoError(t, os.Chtimes(path, ts, ts))
	return path
}
