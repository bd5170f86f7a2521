// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/heatwatch/core"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the heatwatch MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(svc *core.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"Heatwatch Sensor Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{svc: svc}

	// --- 1. Tool: get_stats ---
	s.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Compare the current sensor statistics against the baseline frozen at startup."),
	), h.handleGetStats)

	// --- 2. Tool: get_sensor_data ---
	s.AddTool(mcp.NewTool("get_sensor_data",
		mcp.WithDescription("Return the most recent rows of the sensor, lstm and arima streams."),
		mcp.WithNumber("length", mcp.Description("Number of rows per stream."), mcp.Required()),
	), h.handleGetSensorData)

	// --- 3. Tool: describe ---
	s.AddTool(mcp.NewTool("describe",
		mcp.WithDescription("Descriptive statistics (count, mean, std, min, quartiles, max) of a stream."),
		mcp.WithString("stream", mcp.Description("Stream to describe. Defaults to 'sensor'."), mcp.Enum("sensor", "lstm", "arima")),
	), h.handleDescribe)

	// --- 4. Tool: get_latest ---
	s.AddTool(mcp.NewTool("get_latest",
		mcp.WithDescription("Latest row of each stream together with the current statistics."),
	), h.handleGetLatest)

	// --- 5. Tool: list_snapshots ---
	s.AddTool(mcp.NewTool("list_snapshots",
		mcp.WithDescription("List the daily snapshot files from oldest to newest."),
	), h.handleListSnapshots)

	// --- 6. Tool: record_reading ---
	s.AddTool(mcp.NewTool("record_reading",
		mcp.WithDescription("Ingest one sensor reading and return the stored rows."),
		mcp.WithNumber("temperature", mcp.Description("Temperature in degrees Celsius."), mcp.Required()),
		mcp.WithNumber("humidity", mcp.Description("Relative humidity in percent."), mcp.Required()),
	), h.handleRecordReading)

	return s
}

// StartMCPServer starts the heatwatch MCP server on stdio.
func StartMCPServer(_ context.Context, svc *core.Service) error {
	s := NewMCPServer(svc)
	return server.ServeStdio(s)
}
