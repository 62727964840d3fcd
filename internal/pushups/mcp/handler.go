package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/pushupstats/internal/pushups/logs"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const dateLayout = "2006-01-02"

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// GetPushupsContextTool returns the MCP tool handler for get_pushups_context.
func (h *Handler) GetPushupsContextTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

// TimeRangeInput is the input for get_pushups_for_time_range.
type TimeRangeInput struct {
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date, inclusive (YYYY-MM-DD)"`
}

// GetPushupsForTimeRangeTool returns the MCP tool handler for get_pushups_for_time_range.
func (h *Handler) GetPushupsForTimeRangeTool() func(context.Context, *mcp.CallToolRequest, TimeRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TimeRangeInput) (*mcp.CallToolResult, any, error) {
		params, errRes := h.listParams(in.FromDate, in.ToDate, true)
		if errRes != nil {
			return errRes, nil, nil
		}
		list, err := h.service.ListPushups(ctx, params)
		if err != nil {
			return errorResult("Error listing pushups: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// GetPushupsSummaryTool returns the MCP tool handler for get_pushups_summary.
func (h *Handler) GetPushupsSummaryTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		summary, err := h.service.GetSummary(ctx)
		if err != nil {
			return errorResult("Error computing summary: " + err.Error()), nil, nil
		}
		return jsonResult(summary), nil, nil
	}
}

// VariationStatsInput is the input for get_variation_stats. Both dates are optional.
type VariationStatsInput struct {
	FromDate string `json:"from_date,omitempty" jsonschema:"Optional start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"Optional end date, inclusive (YYYY-MM-DD)"`
}

// GetVariationStatsTool returns the MCP tool handler for get_variation_stats.
func (h *Handler) GetVariationStatsTool() func(context.Context, *mcp.CallToolRequest, VariationStatsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in VariationStatsInput) (*mcp.CallToolResult, any, error) {
		params, errRes := h.listParams(in.FromDate, in.ToDate, false)
		if errRes != nil {
			return errRes, nil, nil
		}
		stats, err := h.service.GetVariationStats(ctx, params)
		if err != nil {
			return errorResult("Error computing variation stats: " + err.Error()), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}

// PreviewImportInput is the input for preview_history_import.
type PreviewImportInput struct {
	Text string `json:"text" jsonschema:"Pasted pushup history, one date or set list per line (e.g. 10/1: 30, 25w, 20)"`
}

// PreviewImportTool returns the MCP tool handler for preview_history_import.
func (h *Handler) PreviewImportTool() func(context.Context, *mcp.CallToolRequest, PreviewImportInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in PreviewImportInput) (*mcp.CallToolResult, any, error) {
		if in.Text == "" {
			return errorResult("Nothing to parse: text is empty"), nil, nil
		}
		return jsonResult(h.service.PreviewImport(in.Text)), nil, nil
	}
}

// listParams turns optional YYYY-MM-DD bounds into an inclusive day range.
func (h *Handler) listParams(fromDate, toDate string, required bool) (logs.ListParams, *mcp.CallToolResult) {
	params := logs.ListParams{}
	loc := h.service.Location()

	if fromDate != "" || required {
		from, err := time.ParseInLocation(dateLayout, fromDate, loc)
		if err != nil {
			return params, errorResult("Invalid from_date: use YYYY-MM-DD")
		}
		params.From = &from
	}
	if toDate != "" || required {
		to, err := time.ParseInLocation(dateLayout, toDate, loc)
		if err != nil {
			return params, errorResult("Invalid to_date: use YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1)
		params.To = &to
	}
	if params.From != nil && params.To != nil && !params.From.Before(*params.To) {
		return params, errorResult("Invalid range: from_date is after to_date")
	}

	return params, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}
