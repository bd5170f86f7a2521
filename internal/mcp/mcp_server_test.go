package mcp_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/heatwatch/core"
	"github.com/huangsam/heatwatch/core/forecast"
	"github.com/huangsam/heatwatch/internal/iocache"
	mcp_internal "github.com/huangsam/heatwatch/internal/mcp"
	"github.com/huangsam/heatwatch/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *core.Service {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := core.NewService(context.Background(), core.Options{
		Store:     iocache.NewMemoryStore(),
		Snapshots: iocache.NewSnapshotDir(filepath.Join(dir, "csv_data"), 7, logger),
		Exports:   iocache.NewExportCache(filepath.Join(dir, "temp"), 20, logger),
		Policy:    core.DefaultSnapshotPolicy(time.UTC),
		LSTM:      forecast.NewLSTM(),
		ARIMA:     forecast.NewARIMA(),
		Clock:     func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := mcp_internal.NewMCPServer(newTestService(t))

	t.Run("get_sensor_data invalid length", func(t *testing.T) {
		res := call(t, s, "get_sensor_data", map[string]any{"length": 0.0})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, text(res), "length must be at least 1")
	})

	t.Run("describe unknown stream", func(t *testing.T) {
		res := call(t, s, "describe", map[string]any{"stream": "gru"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "unknown stream")
	})

	t.Run("record_reading missing humidity", func(t *testing.T) {
		res := call(t, s, "record_reading", map[string]any{"temperature": 25.0})
		assert.True(t, res.IsError)
	})
}

func TestMCPServerHandlers_RecordAndQuery(t *testing.T) {
	s := mcp_internal.NewMCPServer(newTestService(t))

	for _, temp := range []float64{20, 21} {
		res := call(t, s, "record_reading", map[string]any{"temperature": temp, "humidity": 40.0})
		require.False(t, res.IsError, text(res))
	}

	res := call(t, s, "get_sensor_data", map[string]any{"length": 1.0})
	require.False(t, res.IsError)
	var set schema.StreamSet
	require.NoError(t, json.Unmarshal([]byte(text(res)), &set))
	require.Len(t, set[schema.RawStream], 1)
	assert.Equal(t, 21.0, set[schema.RawStream][0].Temperature)

	res = call(t, s, "describe", map[string]any{})
	require.False(t, res.IsError)
	var desc schema.Description
	require.NoError(t, json.Unmarshal([]byte(text(res)), &desc))
	assert.Equal(t, 2.0, desc[schema.TemperatureMetric].Count)

	res = call(t, s, "get_stats", nil)
	require.False(t, res.IsError)
	assert.Contains(t, text(res), `"baseline"`)

	res = call(t, s, "get_latest", nil)
	require.False(t, res.IsError)
	assert.Contains(t, text(res), `"pred_stat"`)

	res = call(t, s, "list_snapshots", nil)
	require.False(t, res.IsError)
	assert.Equal(t, "[]", text(res))
}
