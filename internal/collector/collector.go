// Package collector lists backup artifacts under monitored directories
// and gathers the timestamp and size metadata the evaluator works on.
package collector

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	apperrors "backupwatch/internal/errors"
	"backupwatch/internal/logging"
)

// TimestampSource selects which filesystem timestamp identifies a backup set.
type TimestampSource string

const (
	// TimestampModified uses the last-write time of the artifact.
	TimestampModified TimestampSource = "modified"

	// TimestampCreated uses the inode change time where the platform
	// exposes it, falling back to the last-write time.
	TimestampCreated TimestampSource = "created"
)

// ParseTimestampSource validates a timestamp source string. The empty
// string maps to TimestampModified.
func ParseTimestampSource(s string) (TimestampSource, error) {
	switch TimestampSource(s) {
	case "":
		return TimestampModified, nil
	case TimestampModified, TimestampCreated:
		return TimestampSource(s), nil
	}
	return "", fmt.Errorf("invalid timestamp source %q (expected %q or %q)",
		s, TimestampModified, TimestampCreated)
}

// Item is one discovered backup artifact. Immutable once collected.
type Item struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
}

// Lister discovers backup items under a directory.
type Lister struct {
	source TimestampSource
}

// NewLister creates a lister using the given timestamp source.
func NewLister(source TimestampSource) *Lister {
	if source == "" {
		source = TimestampModified
	}
	return &Lister{source: source}
}

// List returns one Item per direct child of dir, file or subdirectory.
// A missing dir yields ErrPathNotFound. Unreadable children are reported
// with size 0 rather than failing the listing. No ordering is guaranteed.
func (l *Lister) List(dir string) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, apperrors.ErrPathNotFound)
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			logging.L().Warn("unreadable backup item",
				zap.String("path", filepath.Join(dir, entry.Name())),
				zap.Error(err))
			items = append(items, Item{Name: entry.Name()})
			continue
		}

		item := Item{
			Name:      entry.Name(),
			Timestamp: l.timestamp(info),
			SizeBytes: info.Size(),
		}
		if entry.IsDir() {
			item.SizeBytes = dirSize(filepath.Join(dir, entry.Name()))
		}
		items = append(items, item)
	}
	return items, nil
}

func (l *Lister) timestamp(info os.FileInfo) time.Time {
	if l.source == TimestampCreated {
		if st, ok := info.Sys().(*syscall.Stat_t); ok {
			return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
		}
	}
	return info.ModTime()
}

// dirSize returns the summed size of all regular files under path.
// Unreadable entries are skipped, so an empty or unreadable directory
// counts as 0 rather than an error.
func dirSize(path string) int64 {
	var total int64
	_ = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total
}
