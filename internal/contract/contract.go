// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/heatwatch/schema"
)

// StreamStore defines the persistence operations for the three reading streams.
// This allows the ingest logic to be tested without a real database.
type StreamStore interface {
	// AppendCycle inserts the three rows of a cycle in one transaction
	// and returns the cycle with the assigned IDs filled in.
	AppendCycle(ctx context.Context, cycle schema.Cycle) (schema.Cycle, error)

	// All returns every row of a stream in ascending ID order.
	All(ctx context.Context, stream schema.Stream) ([]schema.Reading, error)

	// Tail returns the last n rows of a stream in ascending ID order.
	Tail(ctx context.Context, stream schema.Stream, n int) ([]schema.Reading, error)

	// Delete removes a single row from a stream.
	Delete(ctx context.Context, stream schema.Stream, id int64) error

	// PruneToLatest deletes every row of each stream except that stream's newest row.
	PruneToLatest(ctx context.Context) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.StreamStatus, error)

	Close() error
}

// SnapshotStore manages the directory of daily snapshot files.
type SnapshotStore interface {
	// Exists reports whether the snapshot for the calendar day of date is present.
	Exists(date time.Time) (bool, error)

	// Write evicts the oldest snapshot when the directory is over capacity,
	// then writes the header and rows as today's snapshot. It returns the file path.
	Write(date time.Time, rows []schema.JoinedRow) (string, error)

	// Read returns the raw contents of a snapshot by file name.
	Read(name string) ([]byte, error)

	// List returns the snapshots ordered from oldest to newest.
	List() ([]schema.FileInfo, error)
}

// ExportStore manages the bounded directory of generated CSV exports.
type ExportStore interface {
	// Write evicts the oldest export when full and writes a new one named after now.
	Write(now time.Time, rows []schema.JoinedRow) (name string, data []byte, err error)
}

// Forecaster produces a one-step prediction from an explicit history of raw readings.
type Forecaster interface {
	Name() string
	Predict(history []schema.Reading) (schema.Prediction, error)
}

// Forwarder pushes the latest payload to a remote collector.
type Forwarder interface {
	Forward(ctx context.Context, payload schema.DataPayload) error
	Close() error
}

// Archiver copies a finished snapshot file to long-term storage.
type Archiver interface {
	Archive(ctx context.Context, path string) error
}
