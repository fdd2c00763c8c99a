package collector

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "backupwatch/internal/errors"
)

func writeFile(t *testing.T, path string, size int, ts time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	require.NoError(t, os.Chtimes(path, ts, ts))
}

func TestListMissingPath(t *testing.T) {
	lister := NewLister(TimestampModified)
	_, err := lister.List(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.ErrorIs(t, err, apperrors.ErrPathNotFound)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	writeFile(t, filepath.Join(dir, "backup-001.tar"), 100, ts)
	writeFile(t, filepath.Join(dir, "backup-002.tar"), 250, ts.Add(24*time.Hour))

	lister := NewLister(TimestampModified)
	items, err := lister.List(dir)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byName := map[string]Item{}
	for _, it := range items {
		byName[it.Name] = it
	}

	first := byName["backup-001.tar"]
	assert.Equal(t, int64(100), first.SizeBytes)
	assert.True(t, first.Timestamp.Equal(ts), "timestamp %s != %s", first.Timestamp, ts)

	second := byName["backup-002.tar"]
	assert.Equal(t, int64(250), second.SizeBytes)
}

func TestListDirectorySizeIsRecursiveSum(t *testing.T) {
	dir := t.TempDir()
	setDir := filepath.Join(dir, "backup-2024-03-01")
	require.NoError(t, os.MkdirAll(filepath.Join(setDir, "db"), 0755))

	ts := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	writeFile(t, filepath.Join(setDir, "files.tar"), 300, ts)
	writeFile(t, filepath.Join(setDir, "db", "dump.sql"), 700, ts)
	require.NoError(t, os.Chtimes(setDir, ts, ts))

	lister := NewLister(TimestampModified)
	items, err := lister.List(dir)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "backup-2024-03-01", items[0].Name)
	assert.Equal(t, int64(1000), items[0].SizeBytes)
}

func TestListEmptyDirectoryChild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty-set"), 0755))

	lister := NewLister(TimestampModified)
	items, err := lister.List(dir)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(0), items[0].SizeBytes)
}

func TestListEmptyDirectory(t *testing.T) {
	lister := NewLister(TimestampModified)
	items, err := lister.List(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParseTimestampSource(t *testing.T) {
	tests := []struct {
		in      string
		want    TimestampSource
		wantErr bool
	}{
		{"", TimestampModified, false},
		{"modified", TimestampModified, false},
		{"created", TimestampCreated, false},
		{"accessed", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTimestampSource(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
