// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteComparison prints a baseline comparison using the configured output format.
func (ow *OutWriter) WriteComparison(baseline schema.Description, cmp schema.StatComparison, cfg *contract.Config, duration time.Duration) error {
	return PrintComparison(baseline, cmp, cfg, duration)
}

// WriteDescriptions prints the description of every stream using the configured output format.
func (ow *OutWriter) WriteDescriptions(descs map[schema.Stream]schema.Description, cfg *contract.Config) error {
	return PrintDescriptions(descs, cfg)
}

// WriteIngest prints the rows produced by an ingest using the configured output format.
func (ow *OutWriter) WriteIngest(result schema.IngestResult, cfg *contract.Config) error {
	return PrintIngest(result, cfg)
}

// useColors reports whether colored output should be produced.
// Colors are dropped when writing to a file or when stdout is not a terminal.
func useColors(cfg *contract.Config) bool {
	if !cfg.UseColors || cfg.OutputFile != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
