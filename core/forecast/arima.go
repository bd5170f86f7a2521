package forecast

import "github.com/huangsam/heatwatch/schema"

// maxPhi bounds the autoregressive coefficient to keep forecasts stationary.
const maxPhi = 0.99

// ARIMA forecasts with an ARIMA(1,1,0) model: an AR(1) fit by least squares
// on the first differences of each series.
type ARIMA struct{}

// NewARIMA returns the ARIMA-style agent.
func NewARIMA() *ARIMA {
	return &ARIMA{}
}

// Name returns the stream this agent feeds.
func (a *ARIMA) Name() string {
	return string(schema.ARIMAStream)
}

// Predict forecasts one step ahead from the given history.
func (a *ARIMA) Predict(history []schema.Reading) (schema.Prediction, error) {
	return predictEach(history, arimaNext)
}

// arimaNext returns x[n] + phi*(x[n]-x[n-1]). Fewer than three points repeat the last value.
func arimaNext(x []float64) float64 {
	n := len(x)
	last := x[n-1]
	if n < 3 {
		return last
	}

	diffs := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diffs[i-1] = x[i] - x[i-1]
	}

	var num, den float64
	for i := 1; i < len(diffs); i++ {
		num += diffs[i] * diffs[i-1]
		den += diffs[i-1] * diffs[i-1]
	}
	if den == 0 {
		return last
	}
	phi := max(-maxPhi, min(maxPhi, num/den))
	return last + phi*diffs[len(diffs)-1]
}
