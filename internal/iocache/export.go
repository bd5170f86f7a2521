package iocache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/internal/parquet"
	"github.com/huangsam/heatwatch/schema"
)

// ExecuteStreamExport exports every stream of the store to a single Parquet file.
func ExecuteStreamExport(ctx context.Context, w io.Writer, store contract.StreamStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get stream status: %w", err)
	}
	if status.RowCounts[schema.RawStream] == 0 {
		return errors.New("no readings found to export")
	}
	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)

	set := make(schema.StreamSet, len(schema.AllStreams))
	for _, st := range schema.AllStreams {
		rows, err := store.All(ctx, st)
		if err != nil {
			return fmt.Errorf("failed to retrieve %s stream: %w", st, err)
		}
		set[st] = rows
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", st, len(rows))
	}

	records := parquet.ConvertReadings(set)
	if err := parquet.WriteReadingsParquet(records, outputFile); err != nil {
		return fmt.Errorf("failed to write readings: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d readings to: %s\n", len(records), outputFile)
	return nil
}
