package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/heatwatch/internal/contract"
	"github.com/huangsam/heatwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func sampleComparison() (schema.Description, schema.StatComparison) {
	baseline := schema.Description{
		schema.TemperatureMetric: {Count: 3, Mean: 20, Std: 1, Min: 0, Max: 22},
		schema.HumidityMetric:    {Count: 3, Mean: 40, Std: 2, Min: 38, Max: 42},
		schema.HeatIndexMetric:   {Count: 3, Mean: 21, Std: 1, Min: 20, Max: 22},
	}
	cmp := schema.StatComparison{}
	for _, m := range schema.AllMetrics {
		cmp[m] = map[schema.Statistic]schema.StatDelta{}
		for _, s := range schema.CompareStats {
			cmp[m][s] = schema.StatDelta{Data: baseline[m].Get(s), Arrow: schema.EqualArrow, Percent: ptr(0)}
		}
	}
	cmp[schema.TemperatureMetric][schema.MeanStat] = schema.StatDelta{Data: 22, Arrow: schema.UpArrow, Percent: ptr(10)}
	cmp[schema.TemperatureMetric][schema.MinStat] = schema.StatDelta{Data: 1, Arrow: schema.UpArrow, Error: "undefined comparison"}
	return baseline, cmp
}

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{Output: output, Precision: 2, DBBackend: schema.SQLiteBackend}
}

func TestWriteComparisonResults_Table(t *testing.T) {
	baseline, cmp := sampleComparison()
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, baseline, cmp, testConfig(schema.TextOut), time.Second, false))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "METRIC")
	assert.Contains(t, out, "10.00%")
	assert.Contains(t, out, "▲")
	assert.Contains(t, out, "undefined comparison")
	assert.Contains(t, out, "Stream backend: sqlite")
}

func TestWriteComparisonResults_CSV(t *testing.T) {
	baseline, cmp := sampleComparison()
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, baseline, cmp, testConfig(schema.CSVOut), time.Second, false))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+len(schema.AllMetrics)*len(schema.CompareStats))
	assert.Equal(t, []string{"metric", "statistic", "baseline", "current", "arrow", "percent", "error"}, records[0])
	assert.Equal(t, []string{"temperature", "mean", "20.00", "22.00", "up", "10.00", ""}, records[2])
	assert.Equal(t, []string{"temperature", "min", "0.00", "1.00", "up", "", "undefined comparison"}, records[4])
}

func TestWriteComparisonResults_JSON(t *testing.T) {
	baseline, cmp := sampleComparison()
	var buf bytes.Buffer
	require.NoError(t, WriteComparisonResults(&buf, baseline, cmp, testConfig(schema.JSONOut), time.Second, false))

	var decoded map[string]map[string]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	mean := decoded["temperature"]["mean"]
	assert.Equal(t, "up", mean["arrow"])
	assert.Equal(t, 10.0, mean["%"])

	undefined := decoded["temperature"]["min"]
	assert.Nil(t, undefined["%"])
	assert.Equal(t, "undefined comparison", undefined["error"])
}

func TestFormatArrow(t *testing.T) {
	assert.Equal(t, "▲", formatArrow(schema.UpArrow, false))
	assert.Equal(t, "▼", formatArrow(schema.DownArrow, false))
	assert.Equal(t, "=", formatArrow(schema.EqualArrow, false))
	assert.Contains(t, formatArrow(schema.UpArrow, true), "▲")
}

func TestWriteDescriptionResults(t *testing.T) {
	descs := map[schema.Stream]schema.Description{
		schema.RawStream:  {schema.TemperatureMetric: {Count: 4, Mean: 21.5, Q50: 21.5}},
		schema.LSTMStream: {},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteDescriptionResults(&buf, descs, testConfig(schema.TextOut)))
		assert.Contains(t, buf.String(), "Stream: sensor")
		assert.Contains(t, buf.String(), "Stream: lstm")
		assert.NotContains(t, buf.String(), "Stream: arima")
		assert.Contains(t, buf.String(), "21.50")
		assert.Contains(t, buf.String(), "25%")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteDescriptionResults(&buf, descs, testConfig(schema.CSVOut)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 1+2*len(schema.DescribeStats))
		assert.Equal(t, []string{"stream", "statistic", "temperature", "humidity", "heat_index"}, records[0])
		assert.Equal(t, []string{"sensor", "count", "4.00", "0.00", "0.00"}, records[1])
		assert.Equal(t, "lstm", records[len(records)-1][0])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteDescriptionResults(&buf, descs, testConfig(schema.JSONOut)))
		assert.Contains(t, buf.String(), `"50%": 21.5`)
	})
}

func TestWriteIngestResults(t *testing.T) {
	result := schema.IngestResult{
		HeatIndex: 25.7,
		Cycle: schema.Cycle{
			Raw:   schema.Reading{ID: 7, DateTime: "01-06-2024 12:00:00", Temperature: 25, Humidity: 40, HeatIndex: 25.7},
			LSTM:  schema.Reading{ID: 7, DateTime: "01-06-2024 12:00:00", Temperature: 25.1, Humidity: 40, HeatIndex: 25.8},
			ARIMA: schema.Reading{ID: 7, DateTime: "01-06-2024 12:00:00", Unavailable: true},
		},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteIngestResults(&buf, result, testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "n/a")
		assert.Contains(t, out, "Heat index: 25.70")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteIngestResults(&buf, result, testConfig(schema.CSVOut)))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "7,01-06-2024 12:00:00,25,40,25.7,25.1,40,25.8,,,", lines[1])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteIngestResults(&buf, result, testConfig(schema.JSONOut)))
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 25.7, decoded["heat_index"])
		assert.Contains(t, decoded, "sensor")
		assert.Contains(t, decoded, "arima")
	})
}

func TestPrintToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "describe.json")
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = outputFile

	require.NoError(t, NewOutWriter().WriteDescription(schema.RawStream, schema.Description{}, cfg))
	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestUseColors(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	assert.False(t, useColors(cfg), "colors disabled in config")

	cfg.UseColors = true
	cfg.OutputFile = "out.txt"
	assert.False(t, useColors(cfg), "never color file output")
}
