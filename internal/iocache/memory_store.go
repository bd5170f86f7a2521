package iocache

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
)

// MemoryStore keeps the streams in process memory. IDs are never reused, even after deletes.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   map[schema.Stream][]schema.Reading
	nextID map[schema.Stream]int64
}

var _ contract.StreamStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		rows:   make(map[schema.Stream][]schema.Reading, len(schema.AllStreams)),
		nextID: make(map[schema.Stream]int64, len(schema.AllStreams)),
	}
	for _, st := range schema.AllStreams {
		m.nextID[st] = 1
	}
	return m
}

func checkStream(stream schema.Stream) error {
	if _, ok := streamTables[stream]; !ok {
		return fmt.Errorf("unknown stream %q", stream)
	}
	return nil
}

// AppendCycle appends the three rows of a cycle atomically.
func (m *MemoryStore) AppendCycle(_ context.Context, cycle schema.Cycle) (schema.Cycle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := []*schema.Reading{&cycle.Raw, &cycle.LSTM, &cycle.ARIMA}
	for i, st := range schema.AllStreams {
		rows[i].ID = m.nextID[st]
		m.nextID[st]++
		m.rows[st] = append(m.rows[st], *rows[i])
	}
	return cycle, nil
}

// All returns a copy of every row of a stream.
func (m *MemoryStore) All(_ context.Context, stream schema.Stream) ([]schema.Reading, error) {
	if err := checkStream(stream); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.rows[stream]), nil
}

// Tail returns a copy of the last n rows of a stream.
func (m *MemoryStore) Tail(_ context.Context, stream schema.Stream, n int) ([]schema.Reading, error) {
	if err := checkStream(stream); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := m.rows[stream]
	return slices.Clone(rows[max(0, len(rows)-n):]), nil
}

// Delete removes a single row from a stream.
func (m *MemoryStore) Delete(_ context.Context, stream schema.Stream, id int64) error {
	if err := checkStream(stream); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[stream] = slices.DeleteFunc(m.rows[stream], func(r schema.Reading) bool { return r.ID == id })
	return nil
}

// PruneToLatest keeps only the newest row of each stream.
func (m *MemoryStore) PruneToLatest(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range schema.AllStreams {
		if rows := m.rows[st]; len(rows) > 1 {
			m.rows[st] = []schema.Reading{rows[len(rows)-1]}
		}
	}
	return nil
}

// GetStatus returns the row counts of the in-memory streams.
func (m *MemoryStore) GetStatus() (schema.StreamStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := schema.StreamStatus{
		Backend:   string(schema.NoneBackend),
		Connected: true,
		RowCounts: make(map[schema.Stream]int64, len(schema.AllStreams)),
		LastIDs:   make(map[schema.Stream]int64, len(schema.AllStreams)),
	}
	for _, st := range schema.AllStreams {
		rows := m.rows[st]
		status.RowCounts[st] = int64(len(rows))
		if len(rows) > 0 {
			status.LastIDs[st] = rows[len(rows)-1].ID
		}
	}
	if raw := m.rows[schema.RawStream]; len(raw) > 0 {
		status.LastDateTime = raw[len(raw)-1].DateTime
	}
	return status, nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
