package iocache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
)

// SnapshotDir stores one immutable CSV snapshot per calendar day.
type SnapshotDir struct {
	mu       sync.Mutex
	dir      string
	maxFiles int
	log      *slog.Logger
}

var _ contract.SnapshotStore = &SnapshotDir{} // Compile-time check

// NewSnapshotDir returns a snapshot store rooted at dir keeping roughly maxFiles snapshots.
func NewSnapshotDir(dir string, maxFiles int, logger *slog.Logger) *SnapshotDir {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotDir{dir: dir, maxFiles: maxFiles, log: logger}
}

// snapshotStamp parses the calendar day out of a snapshot file name.
func snapshotStamp(name string) (time.Time, bool) {
	base, ok := strings.CutSuffix(name, ".csv")
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(schema.SnapshotDateLayout, base)
	return t, err == nil
}

// Exists reports whether the snapshot for the calendar day of date is present.
func (s *SnapshotDir) Exists(date time.Time) (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, schema.SnapshotName(date)))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Write evicts the oldest snapshot when over capacity, then writes today's file.
// An existing snapshot for the same day is never overwritten.
func (s *SnapshotDir) Write(date time.Time, rows []schema.JoinedRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if evicted, err := evictOldest(s.dir, s.maxFiles, snapshotStamp); err != nil {
		s.log.Warn("Snapshot eviction failed", "error", err)
	} else if evicted != "" {
		s.log.Info("Evicted snapshot", "name", evicted)
	}

	path := filepath.Join(s.dir, schema.SnapshotName(date))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if err := writeRows(f, rows); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, f.Close()
}

// Read returns the contents of a snapshot. Names with path components are rejected.
func (s *SnapshotDir) Read(name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("invalid snapshot name %q: %w", name, fs.ErrNotExist)
	}
	return os.ReadFile(filepath.Join(s.dir, name))
}

// List returns the snapshots ordered from oldest to newest.
func (s *SnapshotDir) List() ([]schema.FileInfo, error) {
	return listStamped(s.dir, snapshotStamp)
}
