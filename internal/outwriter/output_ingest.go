package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintIngest outputs the rows of one ingest to the configured destination.
func PrintIngest(result schema.IngestResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteIngestResults(w, result, cfg)
	}, "Wrote reading")
}

// WriteIngestResults outputs the ingest result, dispatching based on the output format configured.
func WriteIngestResults(w io.Writer, result schema.IngestResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		return writeCSVWithHeader(w, schema.CSVHeader, func(cw *csv.Writer) error {
			return cw.Write(schema.JoinedRow(result.Cycle).CSVRecord())
		})
	}

	fmtFloat := createFormatter(cfg.Precision)
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()
	table.Header([]string{"Stream", "ID", "Datetime", "Temperature", "Humidity", "Heat Index"})

	rows := map[schema.Stream]schema.Reading{
		schema.RawStream:   result.Raw,
		schema.LSTMStream:  result.LSTM,
		schema.ARIMAStream: result.ARIMA,
	}
	var data [][]string
	for _, st := range schema.AllStreams {
		r := rows[st]
		row := []string{string(st), strconv.FormatInt(r.ID, 10), r.DateTime}
		if r.Unavailable {
			row = append(row, "n/a", "n/a", "n/a")
		} else {
			row = append(row, fmtFloat(r.Temperature), fmtFloat(r.Humidity), fmtFloat(r.HeatIndex))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Heat index: %s\n", fmtFloat(result.HeatIndex))
	return err
}
