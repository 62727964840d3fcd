package mcp

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with pushups tools: schema, logs for a range, summary,
// variation stats and history import preview.
// Used by the main backend when mounting MCP at /mcp (internal/server).
func NewServer(pool *pgxpool.Pool, logsRepo LogsRepo, stats statsProvider) *mcp.Server {
	svc := NewContextService(NewPoolSchemaRepo(pool), logsRepo, stats)
	return newServer(NewHandler(svc))
}

func newServer(h *Handler) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "pushups-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_pushups_context",
		Description: "Returns the DB schema for pushups tables (pushup_log, daily_note): table names, columns, types, nullable, default. Use when developing the pushups app and you need the actual backend schema.",
	}, h.GetPushupsContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_pushups_for_time_range",
		Description: "Returns logged sets (reps, variation, logged_at) within the given date range, newest first. Args: from_date, to_date (YYYY-MM-DD, inclusive). Use when you need to see what was logged in a period.",
	}, h.GetPushupsForTimeRangeTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_pushups_summary",
		Description: "Returns the dashboard summary: daily goal, today's total, lifetime total, current streak, personal records, last 7 and 30 days totals and per-variation stats.",
	}, h.GetPushupsSummaryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_variation_stats",
		Description: "Returns total reps, best set and set count per variation (Standard, Weighted, Decline, Incline, Wide, Diamond). Optional args: from_date, to_date (YYYY-MM-DD).",
	}, h.GetVariationStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "preview_history_import",
		Description: "Parses free-form pasted pushup history and returns the recognized dated sets and warnings, without storing anything. Arg: text.",
	}, h.PreviewImportTool())

	return s
}
