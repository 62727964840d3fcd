package mcp

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaRepo describes the pushups tables, so MCP clients can write their own queries.
type SchemaRepo interface {
	GetPushupsColumns(ctx context.Context) ([]SchemaColumn, error)
}

// SchemaColumn is one information_schema.columns row.
type SchemaColumn struct {
	TableSchema string  `db:"table_schema"`
	TableName   string  `db:"table_name"`
	ColumnName  string  `db:"column_name"`
	DataType    string  `db:"data_type"`
	IsNullable  string  `db:"is_nullable"`
	ColumnDef   *string `db:"column_default"`
}

var pushupsTables = []string{"pushup_log", "daily_note"}

const pushupsColumnsQuery = `
	SELECT table_schema, table_name, column_name, data_type, is_nullable, column_default
	FROM information_schema.columns
	WHERE table_schema = current_schema()
	  AND table_name = ANY($1)
	ORDER BY table_name, ordinal_position`

type poolSchemaRepo struct {
	pool *pgxpool.Pool
}

func NewPoolSchemaRepo(pool *pgxpool.Pool) SchemaRepo {
	return &poolSchemaRepo{pool: pool}
}

func (r *poolSchemaRepo) GetPushupsColumns(ctx context.Context) ([]SchemaColumn, error) {
	rows, err := r.pool.Query(ctx, pushupsColumnsQuery, pushupsTables)
	if err != nil {
		return nil, fmt.Errorf("query pushups columns: %w", err)
	}
	cols, err := pgx.CollectRows(rows, pgx.RowToStructByName[SchemaColumn])
	if err != nil {
		return nil, fmt.Errorf("collect pushups columns: %w", err)
	}
	return cols, nil
}
