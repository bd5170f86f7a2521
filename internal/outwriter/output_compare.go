package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintComparison outputs the comparison to the configured destination.
func PrintComparison(baseline schema.Description, cmp schema.StatComparison, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComparisonResults(w, baseline, cmp, cfg, duration, useColors(cfg))
	}, "Wrote comparison")
}

// WriteComparisonResults outputs the comparison, dispatching based on the output format configured.
func WriteComparisonResults(w io.Writer, baseline schema.Description, cmp schema.StatComparison, cfg *contract.Config, duration time.Duration, colors bool) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, cmp); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForComparison(w, baseline, cmp, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeComparisonTable(w, baseline, cmp, cfg, fmtFloat, duration, colors)
	}
	return nil
}

// formatArrow renders a trend arrow, colored when enabled.
func formatArrow(arrow schema.Arrow, colors bool) string {
	var symbol string
	c := contract.EqualColor
	switch arrow {
	case schema.UpArrow:
		symbol, c = "▲", contract.UpColor
	case schema.DownArrow:
		symbol, c = "▼", contract.DownColor
	default:
		symbol = "="
	}
	if !colors {
		return symbol
	}
	return c.Sprint(symbol)
}

// formatPercent renders the percentage change, or the error when it is undefined.
func formatPercent(d schema.StatDelta) string {
	if d.Percent == nil {
		return d.Error
	}
	return fmt.Sprintf("%.2f%%", *d.Percent)
}

// writeComparisonTable writes one row per metric and statistic.
func writeComparisonTable(w io.Writer, baseline schema.Description, cmp schema.StatComparison, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, colors bool) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Metric", "Stat", "Baseline", "Current", "Trend", "Change"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, m := range schema.AllMetrics {
		for _, s := range schema.CompareStats {
			d := cmp[m][s]
			data = append(data, []string{
				string(m),
				string(s),
				fmtFloat(baseline[m].Get(s)),
				fmtFloat(d.Data),
				formatArrow(d.Arrow, colors),
				formatPercent(d),
			})
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Comparison completed in %v. Stream backend: %s\n", duration, cfg.DBBackend)
	return err
}

// writeCSVResultsForComparison writes the comparison as flat CSV rows.
func writeCSVResultsForComparison(w io.Writer, baseline schema.Description, cmp schema.StatComparison, fmtFloat func(float64) string) error {
	header := []string{"metric", "statistic", "baseline", "current", "arrow", "percent", "error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range schema.AllMetrics {
			for _, s := range schema.CompareStats {
				d := cmp[m][s]
				pct := ""
				if d.Percent != nil {
					pct = fmtFloat(*d.Percent)
				}
				row := []string{string(m), string(s), fmtFloat(baseline[m].Get(s)), fmtFloat(d.Data), string(d.Arrow), pct, d.Error}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
