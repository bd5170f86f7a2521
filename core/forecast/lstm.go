package forecast

import (
	"math"

	"github.com/huangsam/heatwatch/schema"
)

// forgetGate is the fixed weight kept on the previous trend at every step.
const forgetGate = 0.8

// LSTM forecasts with a gated recurrent smoother. The update gate opens further
// when a reading departs from the current level by more than the typical step size,
// so sudden shifts are tracked quickly while noise is damped.
type LSTM struct{}

// NewLSTM returns the LSTM-style agent.
func NewLSTM() *LSTM {
	return &LSTM{}
}

// Name returns the stream this agent feeds.
func (l *LSTM) Name() string {
	return string(schema.LSTMStream)
}

// Predict forecasts one step ahead from the given history.
func (l *LSTM) Predict(history []schema.Reading) (schema.Prediction, error) {
	return predictEach(history, lstmNext)
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

// lstmNext runs the recurrence over x and returns level + trend.
func lstmNext(x []float64) float64 {
	if len(x) == 1 {
		return x[0]
	}

	var scale float64
	for i := 1; i < len(x); i++ {
		scale += math.Abs(x[i] - x[i-1])
	}
	scale /= float64(len(x) - 1)
	if scale == 0 {
		return x[len(x)-1]
	}

	level, trend := x[0], 0.0
	for _, v := range x[1:] {
		update := sigmoid((math.Abs(v-level) - scale) / scale)
		next := update*v + (1-update)*(level+trend)
		trend = forgetGate*trend + (1-forgetGate)*(next-level)
		level = next
	}
	return level + trend
}
