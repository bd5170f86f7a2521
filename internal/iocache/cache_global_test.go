package iocache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/heatwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetManager() {
	initOnce = sync.Once{}  // Reset for test
	closeOnce = sync.Once{} // Reset for test
	Manager = &StoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite file", func(t *testing.T) {
		resetManager()
		dbPath := filepath.Join(t.TempDir(), "streams.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		assert.NotNil(t, Manager.GetStreamStore())
		CloseStores()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "Database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetManager()
		dbPath := filepath.Join(t.TempDir(), "streams.db")

		// Multiple initializations should be safe (sync.Once)
		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath))

		// Multiple closes should be safe (sync.Once)
		CloseStores()
		CloseStores()
	})

	t.Run("none backend", func(t *testing.T) {
		resetManager()
		require.NoError(t, InitStores(schema.NoneBackend, ""))
		_, ok := Manager.GetStreamStore().(*MemoryStore)
		assert.True(t, ok)
		CloseStores()
	})

	t.Run("invalid backend", func(t *testing.T) {
		resetManager()
		assert.Error(t, InitStores(schema.DatabaseBackend("oracle"), ""))
		assert.Nil(t, Manager.GetStreamStore())
	})
}

func TestClearStreams(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "streams.db")
	store, err := NewStreamStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_ = store.Close()

	require.NoError(t, ClearStreams(schema.SQLiteBackend, dbPath))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing again is fine
	assert.NoError(t, ClearStreams(schema.SQLiteBackend, dbPath))
	assert.NoError(t, ClearStreams(schema.NoneBackend, ""))
	assert.Error(t, ClearStreams(schema.DatabaseBackend("oracle"), ""))
}

func TestPrintStreamStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintStreamStatus(&buf, schema.StreamStatus{
		Backend:      "sqlite",
		Connected:    true,
		RowCounts:    map[schema.Stream]int64{schema.RawStream: 3, schema.LSTMStream: 3, schema.ARIMAStream: 3},
		LastIDs:      map[schema.Stream]int64{schema.RawStream: 3, schema.LSTMStream: 3, schema.ARIMAStream: 3},
		LastDateTime: "01-06-2024 12:00:00",
	})
	out := buf.String()
	assert.Contains(t, out, "Stream Backend: sqlite")
	assert.Contains(t, out, "sensor: 3 rows (last id 3)")
	assert.Contains(t, out, "Last Reading: 01-06-2024 12:00:00")

	buf.Reset()
	PrintStreamStatus(&buf, schema.StreamStatus{Backend: "mysql"})
	assert.NotContains(t, buf.String(), "Streams:")
}

func TestPrintFiles(t *testing.T) {
	var buf bytes.Buffer
	PrintFiles(&buf, nil)
	assert.Contains(t, buf.String(), "No files found")

	buf.Reset()
	PrintFiles(&buf, []schema.FileInfo{{Name: "01 Jun 2024.csv", SizeBytes: 42}})
	assert.Contains(t, buf.String(), "01 Jun 2024.csv")
	assert.Contains(t, buf.String(), "42 bytes")
}

func TestExecuteStreamExport(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	var out bytes.Buffer

	assert.Error(t, ExecuteStreamExport(ctx, &out, store, ""))
	assert.Error(t, ExecuteStreamExport(ctx, &out, store, filepath.Join(t.TempDir(), "x.parquet")), "empty store")

	_, err := store.AppendCycle(ctx, cycleAt("01-06-2024 12:00:00", 20))
	require.NoError(t, err)

	outputFile := filepath.Join(t.TempDir(), "readings.parquet")
	require.NoError(t, ExecuteStreamExport(ctx, &out, store, outputFile))
	assert.Contains(t, out.String(), "Exported 3 readings")

	info, err := os.Stat(outputFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
