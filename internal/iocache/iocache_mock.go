package iocache

import (
	"context"
	"time"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
	"github.com/stretchr/testify/mock"
)

// MockStreamStore is a mock implementation of StreamStore for testing.
type MockStreamStore struct {
	mock.Mock
}

var _ contract.StreamStore = &MockStreamStore{} // Compile-time check

// AppendCycle implements the StreamStore interface.
func (m *MockStreamStore) AppendCycle(ctx context.Context, cycle schema.Cycle) (schema.Cycle, error) {
	args := m.Called(ctx, cycle)
	return args.Get(0).(schema.Cycle), args.Error(1)
}

// All implements the StreamStore interface.
func (m *MockStreamStore) All(ctx context.Context, stream schema.Stream) ([]schema.Reading, error) {
	args := m.Called(ctx, stream)
	rows, _ := args.Get(0).([]schema.Reading)
	return rows, args.Error(1)
}

// Tail implements the StreamStore interface.
func (m *MockStreamStore) Tail(ctx context.Context, stream schema.Stream, n int) ([]schema.Reading, error) {
	args := m.Called(ctx, stream, n)
	rows, _ := args.Get(0).([]schema.Reading)
	return rows, args.Error(1)
}

// Delete implements the StreamStore interface.
func (m *MockStreamStore) Delete(ctx context.Context, stream schema.Stream, id int64) error {
	args := m.Called(ctx, stream, id)
	return args.Error(0)
}

// PruneToLatest implements the StreamStore interface.
func (m *MockStreamStore) PruneToLatest(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// GetStatus implements the StreamStore interface.
func (m *MockStreamStore) GetStatus() (schema.StreamStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StreamStatus), args.Error(1)
}

// Close implements the StreamStore interface.
func (m *MockStreamStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockForecaster is a mock implementation of Forecaster for testing.
type MockForecaster struct {
	mock.Mock
}

var _ contract.Forecaster = &MockForecaster{} // Compile-time check

// Name implements the Forecaster interface.
func (m *MockForecaster) Name() string {
	args := m.Called()
	return args.String(0)
}

// Predict implements the Forecaster interface.
func (m *MockForecaster) Predict(history []schema.Reading) (schema.Prediction, error) {
	args := m.Called(history)
	return args.Get(0).(schema.Prediction), args.Error(1)
}

// MockForwarder is a mock implementation of Forwarder for testing.
type MockForwarder struct {
	mock.Mock
}

var _ contract.Forwarder = &MockForwarder{} // Compile-time check

// Forward implements the Forwarder interface.
func (m *MockForwarder) Forward(ctx context.Context, payload schema.DataPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// Close implements the Forwarder interface.
func (m *MockForwarder) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockArchiver is a mock implementation of Archiver for testing.
type MockArchiver struct {
	mock.Mock
}

var _ contract.Archiver = &MockArchiver{} // Compile-time check

// Archive implements the Archiver interface.
func (m *MockArchiver) Archive(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// Exists implements the SnapshotStore interface.
func (m *MockSnapshotStore) Exists(date time.Time) (bool, error) {
	args := m.Called(date)
	return args.Bool(0), args.Error(1)
}

// Write implements the SnapshotStore interface.
func (m *MockSnapshotStore) Write(date time.Time, rows []schema.JoinedRow) (string, error) {
	args := m.Called(date, rows)
	return args.String(0), args.Error(1)
}

// Read implements the SnapshotStore interface.
func (m *MockSnapshotStore) Read(name string) ([]byte, error) {
	args := m.Called(name)
	if data := args.Get(0); data != nil {
		return data.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

// List implements the SnapshotStore interface.
func (m *MockSnapshotStore) List() ([]schema.FileInfo, error) {
	args := m.Called()
	if files := args.Get(0); files != nil {
		return files.([]schema.FileInfo), args.Error(1)
	}
	return nil, args.Error(1)
}
