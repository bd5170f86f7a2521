// Package core has core logic for ingest, retention and statistics.
package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/internal/outwriter"
	"github.com/huangsam/heatwatch/schema"
)

// ExecutorFunc defines the function signature for executing CLI operations against a service.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, svc *Service) error

// ExecuteDescribe prints the descriptive statistics of every stream.
func ExecuteDescribe(ctx context.Context, cfg *contract.Config, svc *Service) error {
	descs := make(map[schema.Stream]schema.Description, len(schema.AllStreams))
	for _, st := range schema.AllStreams {
		desc, err := svc.Describe(ctx, st)
		if err != nil {
			return err
		}
		descs[st] = desc
	}
	return outwriter.NewOutWriter().WriteDescriptions(descs, cfg)
}

// ExecuteCompare prints the current raw stream against the frozen baseline.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, svc *Service) error {
	start := time.Now()
	cmp, err := svc.CurrentStats(ctx)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteComparison(svc.Baseline(), cmp, cfg, time.Since(start))
}

// ExecuteCompareSnapshot returns an executor comparing the current raw stream
// against a baseline computed from the named snapshot file.
func ExecuteCompareSnapshot(name string) ExecutorFunc {
	return func(ctx context.Context, cfg *contract.Config, svc *Service) error {
		start := time.Now()
		data, err := svc.SnapshotCSV(name)
		if err != nil {
			return err
		}
		readings, err := ParseSnapshot(data)
		if err != nil {
			return fmt.Errorf("failed to parse snapshot %q: %w", name, err)
		}
		current, err := svc.opts.Store.All(ctx, schema.RawStream)
		if err != nil {
			return err
		}
		baseline := NewBaseline(readings)
		return outwriter.NewOutWriter().WriteComparison(baseline.Description(), baseline.Compare(current), cfg, time.Since(start))
	}
}

// ExecuteRecord returns an executor that ingests one reading and prints the stored rows.
func ExecuteRecord(temperature, humidity string) ExecutorFunc {
	return func(ctx context.Context, cfg *contract.Config, svc *Service) error {
		result, err := svc.ParseAndRecord(WithSyncForward(ctx), temperature, humidity)
		if err != nil {
			return err
		}
		return outwriter.NewOutWriter().WriteIngest(result, cfg)
	}
}

// ParseSnapshot reads the raw stream columns back out of a snapshot file.
// Rows that do not parse, such as repeated header rows, are skipped.
func ParseSnapshot(data []byte) ([]schema.Reading, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty snapshot", ErrInvalidInput)
	}

	var out []schema.Reading
	for _, rec := range records[1:] {
		if len(rec) < 5 {
			continue
		}
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			continue
		}
		r := schema.Reading{ID: id, DateTime: rec[1]}
		vals := []*float64{&r.Temperature, &r.Humidity, &r.HeatIndex}
		ok := true
		for i, v := range vals {
			if *v, err = strconv.ParseFloat(rec[2+i], 64); err != nil {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}
