package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/heatwatch/core"
	"github.com/huangsam/heatwatch/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	svc *core.Service
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmp, err := h.svc.CurrentStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"baseline": h.svc.Baseline(),
		"current":  cmp,
	})
}

func (h *toolHandler) handleGetSensorData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	length := request.GetInt("length", 0)
	if length < 1 {
		return mcp.NewToolResultError("length must be at least 1"), nil
	}
	set, err := h.svc.SensorData(ctx, length)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(set)
}

func (h *toolHandler) handleDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stream := schema.Stream(request.GetString("stream", string(schema.RawStream)))
	if _, ok := schema.ValidStreams[stream]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown stream %q", stream)), nil
	}
	desc, err := h.svc.Describe(ctx, stream)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
	}
	return jsonResult(desc)
}

func (h *toolHandler) handleGetLatest(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := h.svc.LatestData(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return jsonResult(payload)
}

func (h *toolHandler) handleListSnapshots(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := h.svc.ListSnapshots()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	if files == nil {
		files = []schema.FileInfo{}
	}
	return jsonResult(files)
}

func (h *toolHandler) handleRecordReading(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	temperature, err := request.RequireFloat("temperature")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	humidity, err := request.RequireFloat("humidity")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := h.svc.RecordReading(core.WithSyncForward(ctx), temperature, humidity)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingest failed: %v", err)), nil
	}
	return jsonResult(result)
}
