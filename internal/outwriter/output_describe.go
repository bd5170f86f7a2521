package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintDescriptions outputs the description of every stream to the configured destination.
func PrintDescriptions(descs map[schema.Stream]schema.Description, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteDescriptionResults(w, descs, cfg)
	}, "Wrote description")
}

// WriteDescriptionResults outputs the descriptions in stream order, dispatching based on the output format configured.
// Streams missing from descs are skipped.
func WriteDescriptionResults(w io.Writer, descs map[schema.Stream]schema.Description, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	header := []string{"statistic"}
	for _, m := range schema.AllMetrics {
		header = append(header, string(m))
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, descs)
	case schema.CSVOut:
		return writeCSVWithHeader(w, append([]string{"stream"}, header...), func(cw *csv.Writer) error {
			for _, st := range schema.AllStreams {
				desc, ok := descs[st]
				if !ok {
					continue
				}
				for _, s := range schema.DescribeStats {
					if err := cw.Write(append([]string{string(st)}, describeRow(desc, s, fmtFloat)...)); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}

	for _, st := range schema.AllStreams {
		desc, ok := descs[st]
		if !ok {
			continue
		}
		if err := writeDescriptionTable(w, st, desc, header, fmtFloat); err != nil {
			return err
		}
	}
	return nil
}

func writeDescriptionTable(w io.Writer, stream schema.Stream, desc schema.Description, header []string, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "Stream: %s\n", stream); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()
	table.Header(header)
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, s := range schema.DescribeStats {
		data = append(data, describeRow(desc, s, fmtFloat))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func describeRow(desc schema.Description, s schema.Statistic, fmtFloat func(float64) string) []string {
	row := []string{string(s)}
	for _, m := range schema.AllMetrics {
		row = append(row, fmtFloat(desc[m].Get(s)))
	}
	return row
}
