package schema

// Summary holds the descriptive statistics of one metric.
type Summary struct {
	Count float64 `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"25%"`
	Q50   float64 `json:"50%"`
	Q75   float64 `json:"75%"`
	Max   float64 `json:"max"`
}

// Get returns the value of a single statistic.
func (s Summary) Get(stat Statistic) float64 {
	switch stat {
	case CountStat:
		return s.Count
	case MeanStat:
		return s.Mean
	case StdStat:
		return s.Std
	case MinStat:
		return s.Min
	case Q25Stat:
		return s.Q25
	case Q50Stat:
		return s.Q50
	case Q75Stat:
		return s.Q75
	default:
		return s.Max
	}
}

// Description maps each metric to its summary.
type Description map[Metric]Summary

// StatDelta compares one statistic against its baseline value.
// Percent is nil when the comparison is undefined (zero baseline).
type StatDelta struct {
	Data    float64  `json:"data"`
	Arrow   Arrow    `json:"arrow"`
	Percent *float64 `json:"%"`
	Error   string   `json:"error,omitempty"`
}

// StatComparison maps each metric and statistic to its delta versus the baseline.
type StatComparison map[Metric]map[Statistic]StatDelta

// DataPayload is the combined view of the latest cycle and the statistics,
// served by the API and forwarded to the remote collector.
type DataPayload struct {
	Actual   map[Stream]Reading     `json:"actual"`
	DataStat StatComparison         `json:"data_stat"`
	PredStat map[Stream]Description `json:"pred_stat"`
}
