// Package forecast has the one-step predictive agents run on every ingest.
package forecast

import (
	"github.com/huangsam/heatwatch/core"
	"github.com/huangsam/heatwatch/schema"
)

// seriesFunc forecasts the next value of a single metric series.
type seriesFunc func(series []float64) float64

// series extracts the values of one metric, skipping unavailable readings.
func series(history []schema.Reading, m schema.Metric) []float64 {
	out := make([]float64, 0, len(history))
	for _, r := range history {
		if r.Unavailable {
			continue
		}
		out = append(out, r.Value(m))
	}
	return out
}

// predictEach applies fn to the temperature, humidity and heat index series independently.
func predictEach(history []schema.Reading, fn seriesFunc) (schema.Prediction, error) {
	temps := series(history, schema.TemperatureMetric)
	if len(temps) == 0 {
		return schema.Prediction{}, core.ErrInsufficientHistory
	}
	return schema.Prediction{
		Temp: fn(temps),
		Hum:  fn(series(history, schema.HumidityMetric)),
		Heat: fn(series(history, schema.HeatIndexMetric)),
	}, nil
}
