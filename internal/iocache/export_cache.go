package iocache

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
)

// ExportCache is a bounded directory of generated CSV exports.
type ExportCache struct {
	mu       sync.Mutex
	dir      string
	maxFiles int
	log      *slog.Logger
}

var _ contract.ExportStore = &ExportCache{} // Compile-time check

// NewExportCache returns an export cache rooted at dir.
func NewExportCache(dir string, maxFiles int, logger *slog.Logger) *ExportCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportCache{dir: dir, maxFiles: maxFiles, log: logger}
}

// maxSameSecondExports bounds the suffixes tried for exports sharing one epoch second.
const maxSameSecondExports = 1000

// exportName returns <epoch>.csv for the first export of a second and <epoch>-<seq>.csv after it.
func exportName(now time.Time, seq int) string {
	if seq == 0 {
		return fmt.Sprintf("%d.csv", now.Unix())
	}
	return fmt.Sprintf("%d-%d.csv", now.Unix(), seq)
}

// exportStamp parses the epoch seconds, and the same-second sequence if any, out of an export file name.
// The sequence orders exports within a second.
func exportStamp(name string) (time.Time, bool) {
	base, ok := strings.CutSuffix(name, ".csv")
	if !ok {
		return time.Time{}, false
	}
	epoch, suffix, hasSeq := strings.Cut(base, "-")
	secs, err := strconv.ParseInt(epoch, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	var seq int64
	if hasSeq {
		if seq, err = strconv.ParseInt(suffix, 10, 64); err != nil || seq < 1 || seq >= maxSameSecondExports {
			return time.Time{}, false
		}
	}
	return time.Unix(secs, seq), true
}

// EvictIfFull removes the single oldest export when the directory holds more than the cap.
// Errors are logged and never returned.
func (e *ExportCache) EvictIfFull() {
	evicted, err := evictOldest(e.dir, e.maxFiles, exportStamp)
	if err != nil {
		e.log.Warn("Export eviction failed", "error", err)
		return
	}
	if evicted != "" {
		e.log.Debug("Evicted export", "name", evicted)
	}
}

// Write evicts when full, then writes the rows to a new <epoch-seconds>.csv and returns the name and contents.
// A later export in the same second is written as <epoch-seconds>-<n>.csv.
func (e *ExportCache) Write(now time.Time, rows []schema.JoinedRow) (string, []byte, error) {
	var buf bytes.Buffer
	if err := writeRows(&buf, rows); err != nil {
		return "", nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	e.EvictIfFull()

	// Exports in the same second get a sequence suffix instead of replacing each other.
	for seq := range maxSameSecondExports {
		name := exportName(now, seq)
		f, err := os.OpenFile(filepath.Join(e.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("failed to create export %s: %w", name, err)
		}
		_, werr := f.Write(buf.Bytes())
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			_ = os.Remove(filepath.Join(e.dir, name))
			return "", nil, fmt.Errorf("failed to write export %s: %w", name, werr)
		}
		return name, buf.Bytes(), nil
	}
	return "", nil, fmt.Errorf("too many exports at %d", now.Unix())
}

// List returns the exports ordered from oldest to newest.
func (e *ExportCache) List() ([]schema.FileInfo, error) {
	return listStamped(e.dir, exportStamp)
}
