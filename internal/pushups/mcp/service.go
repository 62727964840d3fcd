package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
	"github.com/2beens/pushupstats/internal/pushups/analytics"
	"github.com/2beens/pushupstats/internal/pushups/history"
	"github.com/2beens/pushupstats/internal/pushups/logs"
)

// LogsRepo lists logged sets (for dependency injection and testing).
type LogsRepo interface {
	ListAll(ctx context.Context, params logs.ListParams) ([]pushups.LogRecord, error)
}

// statsProvider provides the dashboard summary and the clock it is computed against.
type statsProvider interface {
	Summary(ctx context.Context) (*analytics.Summary, error)
	Now() time.Time
}

// contextService provides pushups context data. Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	ListPushups(ctx context.Context, params logs.ListParams) ([]pushups.LogRecord, error)
	GetSummary(ctx context.Context) (*analytics.Summary, error)
	GetVariationStats(ctx context.Context, params logs.ListParams) ([]analytics.VariationStat, error)
	PreviewImport(text string) history.ParseResult
	Location() *time.Location
}

// ContextService holds dependencies and implements the pushups context business logic.
type ContextService struct {
	schema SchemaRepo
	logs   LogsRepo
	stats  statsProvider
}

func NewContextService(schemaRepo SchemaRepo, logsRepo LogsRepo, stats statsProvider) *ContextService {
	return &ContextService{
		schema: schemaRepo,
		logs:   logsRepo,
		stats:  stats,
	}
}

// GetSchema returns the DB schema (table names, columns, types) for the pushup_log and daily_note tables.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetPushupsColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatPushupsSchema(cols), nil
}

func formatPushupsSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Pushups DB Schema\n\nNo pushups tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Pushups DB Schema\n\n")
	b.WriteString("Tables: " + strings.Join(pushupsTables, ", ") + " (schema: public).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// ListPushups returns logged sets within the params range, newest first.
func (s *ContextService) ListPushups(ctx context.Context, params logs.ListParams) ([]pushups.LogRecord, error) {
	return s.logs.ListAll(ctx, params)
}

func (s *ContextService) GetSummary(ctx context.Context) (*analytics.Summary, error) {
	return s.stats.Summary(ctx)
}

// GetVariationStats aggregates reps per variation over the params range.
func (s *ContextService) GetVariationStats(ctx context.Context, params logs.ListParams) ([]analytics.VariationStat, error) {
	records, err := s.logs.ListAll(ctx, params)
	if err != nil {
		return nil, err
	}
	return analytics.VariationStats(records), nil
}

// PreviewImport parses pasted history without storing anything.
func (s *ContextService) PreviewImport(text string) history.ParseResult {
	return history.Parse(text, s.stats.Now())
}

func (s *ContextService) Location() *time.Location {
	return s.stats.Now().Location()
}
