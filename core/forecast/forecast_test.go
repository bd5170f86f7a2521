package forecast

import (
	"testing"

	"github.com/huangsam/heatwatch/core"
	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time check
var (
	_ contract.Forecaster = &ARIMA{}
	_ contract.Forecaster = &LSTM{}
)

func readings(temps ...float64) []schema.Reading {
	out := make([]schema.Reading, len(temps))
	for i, v := range temps {
		out[i] = schema.Reading{
			ID:          int64(i + 1),
			Temperature: v,
			Humidity:    40,
			HeatIndex:   core.HeatIndex(v, 40),
		}
	}
	return out
}

func TestAgents_EmptyHistory(t *testing.T) {
	for _, agent := range []contract.Forecaster{NewARIMA(), NewLSTM()} {
		t.Run(agent.Name(), func(t *testing.T) {
			_, err := agent.Predict(nil)
			assert.ErrorIs(t, err, core.ErrInsufficientHistory)

			_, err = agent.Predict([]schema.Reading{{Unavailable: true}})
			assert.ErrorIs(t, err, core.ErrInsufficientHistory)
		})
	}
}

func TestAgents_SingleReading(t *testing.T) {
	for _, agent := range []contract.Forecaster{NewARIMA(), NewLSTM()} {
		t.Run(agent.Name(), func(t *testing.T) {
			p, err := agent.Predict(readings(25))
			require.NoError(t, err)
			assert.Equal(t, 25.0, p.Temp)
			assert.Equal(t, 40.0, p.Hum)
			assert.InDelta(t, core.HeatIndex(25, 40), p.Heat, 1e-9)
		})
	}
}

func TestAgents_ConstantSeries(t *testing.T) {
	for _, agent := range []contract.Forecaster{NewARIMA(), NewLSTM()} {
		t.Run(agent.Name(), func(t *testing.T) {
			p, err := agent.Predict(readings(21, 21, 21, 21, 21))
			require.NoError(t, err)
			assert.Equal(t, 21.0, p.Temp)
			assert.Equal(t, 40.0, p.Hum)
		})
	}
}

func TestAgents_Deterministic(t *testing.T) {
	history := readings(20, 20.5, 21.2, 21.0, 21.8, 22.4)
	for _, agent := range []contract.Forecaster{NewARIMA(), NewLSTM()} {
		t.Run(agent.Name(), func(t *testing.T) {
			p1, err := agent.Predict(history)
			require.NoError(t, err)
			p2, err := agent.Predict(history)
			require.NoError(t, err)
			assert.Equal(t, p1, p2)
		})
	}
}

func TestARIMA_LinearTrend(t *testing.T) {
	// Constant differences fit phi at the upper clamp and continue the trend.
	p, err := NewARIMA().Predict(readings(20, 21, 22, 23))
	require.NoError(t, err)
	assert.InDelta(t, 23+maxPhi, p.Temp, 1e-9)
}

func TestARIMA_ShortHistory(t *testing.T) {
	p, err := NewARIMA().Predict(readings(20, 24))
	require.NoError(t, err)
	assert.Equal(t, 24.0, p.Temp)
}

func TestARIMA_Oscillation(t *testing.T) {
	// Alternating differences give a negative phi, pulling the forecast back.
	p, err := NewARIMA().Predict(readings(20, 22, 20, 22, 20, 22))
	require.NoError(t, err)
	assert.Less(t, p.Temp, 22.0)
}

func TestLSTM_RisingSeriesForecastsAboveStart(t *testing.T) {
	p, err := NewLSTM().Predict(readings(20, 21, 22, 23, 24, 25))
	require.NoError(t, err)
	assert.Greater(t, p.Temp, 23.0)
	assert.Less(t, p.Temp, 27.0)
}

func TestSigmoid(t *testing.T) {
	assert.InDelta(t, 0.5, sigmoid(0), 1e-12)
	assert.Greater(t, sigmoid(5), 0.99)
	assert.Less(t, sigmoid(-5), 0.01)
}
