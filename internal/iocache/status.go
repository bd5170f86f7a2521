package iocache

import (
	"fmt"
	"io"

	"github.com/huangsam/heatwatch/schema"
)

// PrintStreamStatus prints stream store status information.
func PrintStreamStatus(w io.Writer, status schema.StreamStatus) {
	_, _ = fmt.Fprintf(w, "Stream Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintln(w, "Streams:")
	for _, st := range schema.AllStreams {
		_, _ = fmt.Fprintf(w, "  %s: %d rows (last id %d)\n", st, status.RowCounts[st], status.LastIDs[st])
	}
	if status.LastDateTime != "" {
		_, _ = fmt.Fprintf(w, "Last Reading: %s\n", status.LastDateTime)
	}
}

// PrintFiles prints a list of snapshot or export files.
func PrintFiles(w io.Writer, files []schema.FileInfo) {
	if len(files) == 0 {
		_, _ = fmt.Fprintln(w, "No files found")
		return
	}
	for _, f := range files {
		_, _ = fmt.Fprintf(w, "%-20s %10d bytes  %s\n", f.Name, f.SizeBytes, f.Stamp.Format("2006-01-02 15:04:05"))
	}
}
