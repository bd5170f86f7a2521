// Package parquet provides data structures and functions for exporting heatwatch
// readings to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/huangsam/heatwatch/schema"
	"github.com/parquet-go/parquet-go"
)

// StreamReading is a single reading of one stream.
// The three streams share this layout so they can be unioned by BI tools.
type StreamReading struct {
	// Stream is the stream name (sensor, lstm or arima)
	Stream string `parquet:"stream,snappy,dict"`

	// ID is the auto-increment row ID within the stream
	ID int64 `parquet:"id,snappy"`

	// DateTime is the reading time in dd-mm-yyyy HH:MM:SS
	DateTime string `parquet:"datetime,snappy"`

	// Temperature is nil when the agent was unavailable for that cycle
	Temperature *float64 `parquet:"temperature,optional,snappy"`

	Humidity  *float64 `parquet:"humidity,optional,snappy"`
	HeatIndex *float64 `parquet:"heat_index,optional,snappy"`
}

// ConvertReadings flattens a stream set into parquet rows, stream by stream in canonical order.
func ConvertReadings(set schema.StreamSet) []StreamReading {
	var total int
	for _, rows := range set {
		total += len(rows)
	}
	result := make([]StreamReading, 0, total)
	for _, st := range schema.AllStreams {
		for _, r := range set[st] {
			row := StreamReading{Stream: string(st), ID: r.ID, DateTime: r.DateTime}
			if !r.Unavailable {
				temp, hum, heat := r.Temperature, r.Humidity, r.HeatIndex
				row.Temperature, row.Humidity, row.HeatIndex = &temp, &hum, &heat
			}
			result = append(result, row)
		}
	}
	return result
}

// WriteReadingsParquet writes a slice of StreamReading structs to a Parquet file.
func WriteReadingsParquet(data []StreamReading, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the StreamReading struct tags
	writer := parquet.NewGenericWriter[StreamReading](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
