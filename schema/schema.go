// Package schema has configs, models and global variables for all parts of heatwatch.
package schema

// Reading is a single row of a stream. Predicted rows are marked Unavailable when the
// forecasting agent failed for that cycle; their numeric fields are then zero.
type Reading struct {
	ID          int64   `json:"id"`
	DateTime    string  `json:"datetime"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	HeatIndex   float64 `json:"heat_index"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

// Value returns the reading's value for the given metric.
func (r Reading) Value(m Metric) float64 {
	switch m {
	case HumidityMetric:
		return r.Humidity
	case HeatIndexMetric:
		return r.HeatIndex
	default:
		return r.Temperature
	}
}

// Prediction is the one-step forecast produced by an agent.
type Prediction struct {
	Temp float64 `json:"temp"`
	Hum  float64 `json:"hum"`
	Heat float64 `json:"heat"`
}

// Cycle holds the three rows appended together by one ingest.
type Cycle struct {
	Raw   Reading `json:"sensor"`
	LSTM  Reading `json:"lstm"`
	ARIMA Reading `json:"arima"`
}

// IngestResult is returned to the caller of an ingest.
type IngestResult struct {
	HeatIndex float64 `json:"heat_index"`
	Cycle
}

// StreamSet holds one ordered slice of readings per stream.
type StreamSet map[Stream][]Reading

// JoinedRow is one index-aligned row across the three streams.
type JoinedRow Cycle

// Join aligns the three streams by position. The result is as long as the shortest stream.
func (s StreamSet) Join() []JoinedRow {
	n := len(s[RawStream])
	for _, st := range AllStreams[1:] {
		n = min(n, len(s[st]))
	}
	rows := make([]JoinedRow, n)
	for i := range n {
		rows[i] = JoinedRow{
			Raw:   s[RawStream][i],
			LSTM:  s[LSTMStream][i],
			ARIMA: s[ARIMAStream][i],
		}
	}
	return rows
}
