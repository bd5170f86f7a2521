package iocache

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/huangsam/heatwatch/schema"
)

// stampFunc extracts the creation time encoded in a file name.
type stampFunc func(name string) (time.Time, bool)

// listStamped returns the regular files of dir ordered from oldest to newest.
// Files whose names carry no stamp fall back to their modification time.
func listStamped(dir string, stamp stampFunc) ([]schema.FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	files := make([]schema.FileInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		ts, ok := stamp(e.Name())
		if !ok {
			ts = info.ModTime()
		}
		files = append(files, schema.FileInfo{Name: e.Name(), Stamp: ts, SizeBytes: info.Size()})
	}
	slices.SortFunc(files, func(a, b schema.FileInfo) int {
		if c := a.Stamp.Compare(b.Stamp); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return files, nil
}

// evictOldest removes the single oldest file when dir holds more than maxFiles.
// It returns the removed name, or "" when nothing was evicted.
func evictOldest(dir string, maxFiles int, stamp stampFunc) (string, error) {
	files, err := listStamped(dir, stamp)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(files) <= maxFiles {
		return "", nil
	}
	oldest := files[0].Name
	if err := os.Remove(filepath.Join(dir, oldest)); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to evict %s: %w", oldest, err)
	}
	return oldest, nil
}

// writeRows writes the CSV header followed by one record per joined row.
func writeRows(w io.Writer, rows []schema.JoinedRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema.CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.CSVRecord()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
