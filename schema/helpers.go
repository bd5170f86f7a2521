package schema

import (
	"strconv"
	"time"
)

// FormatDateTime renders a timestamp the way readings store it.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// SnapshotName returns the snapshot file name for the calendar day of t.
func SnapshotName(t time.Time) string {
	return t.Format(SnapshotDateLayout) + ".csv"
}

// formatValue renders a float with the shortest exact representation.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// predictedValues renders the three numeric fields of a predicted reading,
// leaving them blank when the agent was unavailable for that cycle.
func predictedValues(r Reading) []string {
	if r.Unavailable {
		return []string{"", "", ""}
	}
	return []string{formatValue(r.Temperature), formatValue(r.Humidity), formatValue(r.HeatIndex)}
}

// CSVRecord flattens a joined row into the column order of CSVHeader.
func (r JoinedRow) CSVRecord() []string {
	record := make([]string, 0, len(CSVHeader))
	record = append(record,
		strconv.FormatInt(r.Raw.ID, 10),
		r.Raw.DateTime,
		formatValue(r.Raw.Temperature),
		formatValue(r.Raw.Humidity),
		formatValue(r.Raw.HeatIndex),
	)
	record = append(record, predictedValues(r.LSTM)...)
	record = append(record, predictedValues(r.ARIMA)...)
	return record
}
