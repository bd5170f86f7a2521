package schema

import "time"

// StreamStatus represents the status of the stream store.
type StreamStatus struct {
	Backend      string           `json:"backend"`
	Connected    bool             `json:"connected"`
	RowCounts    map[Stream]int64 `json:"row_counts"`
	LastIDs      map[Stream]int64 `json:"last_ids"`
	LastDateTime string           `json:"last_datetime"`
}

// FileInfo describes a snapshot or export file on disk.
type FileInfo struct {
	Name      string    `json:"name"`
	Stamp     time.Time `json:"stamp"`
	SizeBytes int64     `json:"size_bytes"`
}
