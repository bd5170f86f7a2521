package iocache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/heatwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []schema.JoinedRow {
	return schema.StreamSet{
		schema.RawStream:   {{ID: 1, DateTime: "01-06-2024 12:00:00", Temperature: 25, Humidity: 40, HeatIndex: 25.5}},
		schema.LSTMStream:  {{ID: 1, DateTime: "01-06-2024 12:00:00", Temperature: 25.1, Humidity: 40.2, HeatIndex: 25.6}},
		schema.ARIMAStream: {{ID: 1, DateTime: "01-06-2024 12:00:00", Unavailable: true}},
	}.Join()
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func names(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name()
	}
	return out
}

func TestSnapshotDir_WriteAndRead(t *testing.T) {
	dir := t.TempDir()
	snaps := NewSnapshotDir(dir, 7, nil)
	date := time.Date(2024, 6, 1, 23, 59, 50, 0, time.UTC)

	exists, err := snaps.Exists(date)
	require.NoError(t, err)
	assert.False(t, exists)

	path, err := snaps.Write(date, sampleRows())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "01 Jun 2024.csv"), path)

	exists, err = snaps.Exists(date)
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := snaps.Read("01 Jun 2024.csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(schema.CSVHeader, ","), lines[0])
	assert.Equal(t, "1,01-06-2024 12:00:00,25,40,25.5,25.1,40.2,25.6,,,", lines[1])
}

func TestSnapshotDir_Immutable(t *testing.T) {
	snaps := NewSnapshotDir(t.TempDir(), 7, nil)
	date := time.Date(2024, 6, 1, 23, 59, 50, 0, time.UTC)

	_, err := snaps.Write(date, sampleRows())
	require.NoError(t, err)
	_, err = snaps.Write(date, nil)
	assert.Error(t, err)

	data, err := snaps.Read(schema.SnapshotName(date))
	require.NoError(t, err)
	assert.Contains(t, string(data), "01-06-2024 12:00:00")
}

func TestSnapshotDir_ReadRejectsTraversal(t *testing.T) {
	snaps := NewSnapshotDir(t.TempDir(), 7, nil)
	for _, name := range []string{"", "../etc/passwd", "a/b.csv", ".hidden"} {
		_, err := snaps.Read(name)
		assert.True(t, errors.Is(err, fs.ErrNotExist), "name %q", name)
	}
	_, err := snaps.Read("01 Jan 2000.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSnapshotDir_EvictsOldestByDate(t *testing.T) {
	dir := t.TempDir()
	// Eight snapshots spanning a month boundary. Lexical order would pick "01 Feb" first.
	for day := 25; day <= 31; day++ {
		touch(t, dir, fmt.Sprintf("%02d Jan 2024.csv", day))
	}
	touch(t, dir, "01 Feb 2024.csv")

	snaps := NewSnapshotDir(dir, 7, nil)
	_, err := snaps.Write(time.Date(2024, 2, 2, 23, 59, 50, 0, time.UTC), sampleRows())
	require.NoError(t, err)

	got := names(t, dir)
	assert.Len(t, got, 8) // eight existing, one evicted, one written
	assert.NotContains(t, got, "25 Jan 2024.csv")
	assert.Contains(t, got, "01 Feb 2024.csv")
	assert.Contains(t, got, "02 Feb 2024.csv")
}

func TestSnapshotDir_NineExistingStayNine(t *testing.T) {
	dir := t.TempDir()
	for day := 1; day <= 9; day++ {
		touch(t, dir, fmt.Sprintf("%02d May 2024.csv", day))
	}

	snaps := NewSnapshotDir(dir, 7, nil)
	_, err := snaps.Write(time.Date(2024, 5, 10, 23, 59, 50, 0, time.UTC), sampleRows())
	require.NoError(t, err)

	got := names(t, dir)
	assert.Len(t, got, 9)
	assert.NotContains(t, got, "01 May 2024.csv")
	assert.Contains(t, got, "02 May 2024.csv")
	assert.Contains(t, got, "10 May 2024.csv")
}

func TestSnapshotDir_SteadyState(t *testing.T) {
	dir := t.TempDir()
	snaps := NewSnapshotDir(dir, 7, nil)
	start := time.Date(2024, 3, 1, 23, 59, 50, 0, time.UTC)
	for i := range 15 {
		_, err := snaps.Write(start.AddDate(0, 0, i), sampleRows())
		require.NoError(t, err)
	}
	// One eviction happens before each write once the count exceeds the cap
	assert.Len(t, names(t, dir), 8)

	files, err := snaps.List()
	require.NoError(t, err)
	require.Len(t, files, 8)
	assert.Equal(t, "08 Mar 2024.csv", files[0].Name)
	assert.Equal(t, "15 Mar 2024.csv", files[len(files)-1].Name)
	assert.True(t, files[0].Stamp.Before(files[1].Stamp))
}

func TestSnapshotDir_ListMissingDir(t *testing.T) {
	snaps := NewSnapshotDir(filepath.Join(t.TempDir(), "missing"), 7, nil)
	files, err := snaps.List()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestExportCache_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "temp")
	cache := NewExportCache(dir, 20, nil)

	name, data, err := cache.Write(time.Unix(1717243200, 0), sampleRows())
	require.NoError(t, err)
	assert.Equal(t, "1717243200.csv", name)
	assert.True(t, strings.HasPrefix(string(data), "id,datetime,temperature"))

	onDisk, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)
}

func TestExportCache_SameSecondKeepsBoth(t *testing.T) {
	dir := t.TempDir()
	cache := NewExportCache(dir, 20, nil)
	now := time.Unix(1717243200, 0)

	first, _, err := cache.Write(now, sampleRows())
	require.NoError(t, err)
	second, _, err := cache.Write(now, nil)
	require.NoError(t, err)
	third, _, err := cache.Write(now, nil)
	require.NoError(t, err)

	assert.Equal(t, "1717243200.csv", first)
	assert.Equal(t, "1717243200-1.csv", second)
	assert.Equal(t, "1717243200-2.csv", third)

	data, err := os.ReadFile(filepath.Join(dir, first))
	require.NoError(t, err)
	assert.Contains(t, string(data), "25.5", "first export is not overwritten")

	files, err := cache.List()
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, []string{first, second, third}, []string{files[0].Name, files[1].Name, files[2].Name})
}

func TestExportCache_EvictsByNumericEpoch(t *testing.T) {
	dir := t.TempDir()
	// "999.csv" sorts after "1000.csv" as a string but is older as a number.
	touch(t, dir, "999.csv")
	for i := range 20 {
		touch(t, dir, fmt.Sprintf("%d.csv", 1000+i))
	}

	cache := NewExportCache(dir, 20, nil)
	_, _, err := cache.Write(time.Unix(5000, 0), sampleRows())
	require.NoError(t, err)

	got := names(t, dir)
	assert.Len(t, got, 21)
	assert.NotContains(t, got, "999.csv")
	assert.Contains(t, got, "1000.csv")
	assert.Contains(t, got, "5000.csv")
}

func TestExportCache_SteadyState(t *testing.T) {
	dir := t.TempDir()
	cache := NewExportCache(dir, 20, nil)
	for i := range 30 {
		_, _, err := cache.Write(time.Unix(int64(1000+i), 0), sampleRows())
		require.NoError(t, err)
	}
	files, err := cache.List()
	require.NoError(t, err)
	assert.Len(t, files, 21)
	assert.Equal(t, "1029.csv", files[len(files)-1].Name)
}

func TestExportCache_EvictIfFullUnderCap(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "1.csv")
	cache := NewExportCache(dir, 20, nil)
	cache.EvictIfFull()
	assert.Len(t, names(t, dir), 1)
}

func TestStamps(t *testing.T) {
	ts, ok := snapshotStamp("02 Jan 2024.csv")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ts)

	_, ok = snapshotStamp("notes.txt")
	assert.False(t, ok)

	ts, ok = exportStamp("1717243200.csv")
	require.True(t, ok)
	assert.Equal(t, int64(1717243200), ts.Unix())

	ts, ok = exportStamp("1717243200-3.csv")
	require.True(t, ok)
	assert.Equal(t, int64(1717243200), ts.Unix())

	_, ok = exportStamp("abc.csv")
	assert.False(t, ok)
	_, ok = exportStamp("1717243200-x.csv")
	assert.False(t, ok)
}
