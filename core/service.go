package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
)

// Options wires the collaborators of a Service.
type Options struct {
	Store     contract.StreamStore
	Snapshots contract.SnapshotStore
	Exports   contract.ExportStore
	Policy    SnapshotPolicy

	LSTM  contract.Forecaster
	ARIMA contract.Forecaster

	Forwarder      contract.Forwarder // optional
	ForwardTimeout time.Duration
	Archiver       contract.Archiver // optional

	ForecastWindow int
	Clock          func() time.Time
	Logger         *slog.Logger
}

// Service orchestrates ingest, retention and statistics over the three streams.
// Ingests are serialized so each cycle observes the previous one's rows.
type Service struct {
	opts     Options
	log      *slog.Logger
	baseline *Baseline

	mu sync.Mutex     // single writer for ingest and snapshots
	wg sync.WaitGroup // in-flight forwards
}

// NewService freezes the baseline over the current raw stream and returns a ready Service.
func NewService(ctx context.Context, opts Options) (*Service, error) {
	if opts.Store == nil || opts.Snapshots == nil || opts.Exports == nil {
		return nil, errors.New("service requires a stream store, snapshot store and export store")
	}
	if opts.LSTM == nil || opts.ARIMA == nil {
		return nil, errors.New("service requires both forecasting agents")
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ForecastWindow <= 0 {
		opts.ForecastWindow = contract.DefaultForecastWindow
	}
	if opts.ForwardTimeout <= 0 {
		opts.ForwardTimeout = contract.DefaultForwardTimeout
	}

	raw, err := opts.Store.All(ctx, schema.RawStream)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}
	return &Service{
		opts:     opts,
		log:      opts.Logger,
		baseline: NewBaseline(raw),
	}, nil
}

// ParseAndRecord parses string inputs as floats before recording them.
func (s *Service) ParseAndRecord(ctx context.Context, temperature, humidity string) (schema.IngestResult, error) {
	t, err := strconv.ParseFloat(strings.TrimSpace(temperature), 64)
	if err != nil {
		return schema.IngestResult{}, fmt.Errorf("%w: temperature %q", ErrInvalidInput, temperature)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(humidity), 64)
	if err != nil {
		return schema.IngestResult{}, fmt.Errorf("%w: humidity %q", ErrInvalidInput, humidity)
	}
	return s.RecordReading(ctx, t, h)
}

// RecordReading ingests one sensor reading. In order it validates the input, computes the heat index,
// takes the daily snapshot when due, runs both agents on the recent raw history, appends the three rows
// atomically and forwards the latest payload.
func (s *Service) RecordReading(ctx context.Context, temperature, humidity float64) (schema.IngestResult, error) {
	if !isFinite(temperature) || !isFinite(humidity) {
		return schema.IngestResult{}, fmt.Errorf("%w: readings must be finite numbers", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.Clock()
	heatIndex := HeatIndex(temperature, humidity)
	if !isFinite(heatIndex) {
		return schema.IngestResult{}, fmt.Errorf("%w: heat index overflows for temperature %g and humidity %g", ErrInvalidInput, temperature, humidity)
	}

	// 1. Snapshot and prune when due. Failures never block the ingest.
	s.maybeSnapshot(ctx, now)

	// 2. Build the explicit history for the agents
	stamp := schema.FormatDateTime(s.opts.Policy.Local(now))
	raw := schema.Reading{
		DateTime:    stamp,
		Temperature: temperature,
		Humidity:    humidity,
		HeatIndex:   heatIndex,
	}
	history, err := s.opts.Store.Tail(ctx, schema.RawStream, s.opts.ForecastWindow)
	if err != nil {
		return schema.IngestResult{}, fmt.Errorf("failed to load history: %w", err)
	}
	history = append(history, raw)

	// 3. Predict
	cycle := schema.Cycle{
		Raw:   raw,
		LSTM:  s.predict(s.opts.LSTM, history, stamp),
		ARIMA: s.predict(s.opts.ARIMA, history, stamp),
	}

	// 4. Persist all three rows together
	cycle, err = s.opts.Store.AppendCycle(ctx, cycle)
	if err != nil {
		return schema.IngestResult{}, fmt.Errorf("failed to append readings: %w", err)
	}
	s.log.Debug("Recorded reading", "id", cycle.Raw.ID, "temperature", temperature, "humidity", humidity, "heat_index", heatIndex)

	// 5. Forward
	s.forward(ctx)

	return schema.IngestResult{HeatIndex: heatIndex, Cycle: cycle}, nil
}

// predict runs one agent, marking the row unavailable when the agent fails or panics.
func (s *Service) predict(agent contract.Forecaster, history []schema.Reading, stamp string) (row schema.Reading) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Forecast agent panicked", "agent", agent.Name(), "panic", r)
			row = schema.Reading{DateTime: stamp, Unavailable: true}
		}
	}()
	p, err := agent.Predict(history)
	if err != nil || !isFinite(p.Temp) || !isFinite(p.Hum) || !isFinite(p.Heat) {
		s.log.Warn("Forecast unavailable", "agent", agent.Name(), "error", err)
		return schema.Reading{DateTime: stamp, Unavailable: true}
	}
	return schema.Reading{
		DateTime:    stamp,
		Temperature: p.Temp,
		Humidity:    p.Hum,
		HeatIndex:   p.Heat,
	}
}

// forward pushes the latest payload to the remote collector. It runs in the background unless
// the context asks for a synchronous forward.
func (s *Service) forward(ctx context.Context) {
	if s.opts.Forwarder == nil {
		return
	}
	send := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, s.opts.ForwardTimeout)
		defer cancel()
		payload, err := s.LatestData(ctx)
		if err == nil {
			err = s.opts.Forwarder.Forward(ctx, payload)
		}
		if err != nil {
			s.log.Debug("Forward failed", "error", err)
		}
	}
	if shouldSyncForward(ctx) {
		send(ctx)
		return
	}
	detached := context.WithoutCancel(ctx)
	s.wg.Go(func() { send(detached) })
}

// maybeSnapshot takes today's snapshot when the policy says it is due.
func (s *Service) maybeSnapshot(ctx context.Context, now time.Time) {
	local := s.opts.Policy.Local(now)
	exists, err := s.opts.Snapshots.Exists(local)
	if err != nil {
		s.log.Warn("Cannot check snapshot directory", "error", err)
		return
	}
	if !s.opts.Policy.Due(now, exists) {
		return
	}
	if _, err := s.snapshot(ctx, local); err != nil {
		s.log.Error("Snapshot failed", "error", err)
	}
}

// snapshot writes the joined streams to today's file, prunes the streams and archives the file.
// Rows are only pruned after the write succeeded.
func (s *Service) snapshot(ctx context.Context, local time.Time) (string, error) {
	set, err := s.streams(ctx, 0)
	if err != nil {
		return "", err
	}
	path, err := s.opts.Snapshots.Write(local, set.Join())
	if err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	s.log.Info("Saved snapshot", "path", path)

	if err := s.opts.Store.PruneToLatest(ctx); err != nil {
		return path, fmt.Errorf("failed to prune streams: %w", err)
	}

	if s.opts.Archiver != nil {
		if err := s.opts.Archiver.Archive(ctx, path); err != nil {
			s.log.Warn("Snapshot archive failed", "path", path, "error", err)
		}
	}
	return path, nil
}

// TakeSnapshot writes today's snapshot immediately, ignoring the cutoff window.
// It refuses to overwrite an existing snapshot for the same day.
func (s *Service) TakeSnapshot(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local := s.opts.Policy.Local(s.opts.Clock())
	exists, err := s.opts.Snapshots.Exists(local)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("snapshot %s already exists", schema.SnapshotName(local))
	}
	return s.snapshot(ctx, local)
}

// streams loads the last n rows of every stream, or all rows when n is 0.
func (s *Service) streams(ctx context.Context, n int) (schema.StreamSet, error) {
	set := make(schema.StreamSet, len(schema.AllStreams))
	for _, st := range schema.AllStreams {
		var (
			rows []schema.Reading
			err  error
		)
		if n > 0 {
			rows, err = s.opts.Store.Tail(ctx, st, n)
		} else {
			rows, err = s.opts.Store.All(ctx, st)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s stream: %w", st, err)
		}
		set[st] = rows
	}
	return set, nil
}

// CurrentStats compares the current raw stream against the frozen baseline.
func (s *Service) CurrentStats(ctx context.Context) (schema.StatComparison, error) {
	raw, err := s.opts.Store.All(ctx, schema.RawStream)
	if err != nil {
		return nil, err
	}
	return s.baseline.Compare(raw), nil
}

// ResetBaseline refreezes the baseline over the current raw stream.
func (s *Service) ResetBaseline(ctx context.Context) error {
	raw, err := s.opts.Store.All(ctx, schema.RawStream)
	if err != nil {
		return err
	}
	s.baseline.Reset(raw)
	s.log.Info("Baseline reset", "count", len(raw))
	return nil
}

// Baseline returns the frozen baseline statistics.
func (s *Service) Baseline() schema.Description {
	return s.baseline.Description()
}

// Describe returns the full descriptive statistics of a stream.
func (s *Service) Describe(ctx context.Context, stream schema.Stream) (schema.Description, error) {
	rows, err := s.opts.Store.All(ctx, stream)
	if err != nil {
		return nil, err
	}
	return Describe(rows), nil
}

// SensorData returns the last length rows of every stream.
func (s *Service) SensorData(ctx context.Context, length int) (schema.StreamSet, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length must be positive", ErrInvalidInput)
	}
	return s.streams(ctx, length)
}

// LatestData returns the newest row of each stream together with the raw comparison
// and the descriptions of the predicted streams.
func (s *Service) LatestData(ctx context.Context) (schema.DataPayload, error) {
	set, err := s.streams(ctx, 0)
	if err != nil {
		return schema.DataPayload{}, err
	}
	payload := schema.DataPayload{
		Actual:   make(map[schema.Stream]schema.Reading, len(schema.AllStreams)),
		DataStat: s.baseline.Compare(set[schema.RawStream]),
		PredStat: map[schema.Stream]schema.Description{
			schema.LSTMStream:  Describe(set[schema.LSTMStream]),
			schema.ARIMAStream: Describe(set[schema.ARIMAStream]),
		},
	}
	for _, st := range schema.AllStreams {
		if rows := set[st]; len(rows) > 0 {
			payload.Actual[st] = rows[len(rows)-1]
		}
	}
	return payload, nil
}

// ExportCSV writes the last length rows of the joined streams to a new export file.
func (s *Service) ExportCSV(ctx context.Context, length int) (string, []byte, error) {
	set, err := s.SensorData(ctx, length)
	if err != nil {
		return "", nil, err
	}
	return s.opts.Exports.Write(s.opts.Clock(), set.Join())
}

// SnapshotCSV returns the contents of a snapshot file.
func (s *Service) SnapshotCSV(name string) ([]byte, error) {
	data, err := s.opts.Snapshots.Read(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: snapshot %q", ErrNotFound, name)
	}
	return data, err
}

// ListSnapshots returns the snapshot files from oldest to newest.
func (s *Service) ListSnapshots() ([]schema.FileInfo, error) {
	return s.opts.Snapshots.List()
}

// Close waits for in-flight forwards to finish.
func (s *Service) Close() {
	s.wg.Wait()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
