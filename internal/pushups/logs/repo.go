package logs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/pushupstats/internal/pushups"
	"github.com/2beens/pushupstats/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrLogNotFound = errors.New("pushup log not found")

// ListParams bounds a listing by logged_at. Nil bounds are open.
type ListParams struct {
	From *time.Time
	To   *time.Time
}

type Repo struct {
	db    *pgxpool.Pool
	newID func() uuid.UUID
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db:    db,
		newID: uuid.New,
	}
}

func (r *Repo) Add(ctx context.Context, record pushups.LogRecord) (_ *pushups.LogRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pushups.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	id := r.newID()
	record.ID = id.String()
	span.SetAttributes(attribute.String("log.id", record.ID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO pushup_log (id, reps, variation, logged_at) VALUES ($1, $2, $3, $4);`,
		id, record.Reps, variationColumn(record.Variation), record.LoggedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}

	return &record, nil
}

// AddBatch inserts all records with a single COPY. Either all of them are stored or none.
func (r *Repo) AddBatch(ctx context.Context, records []pushups.LogRecord) (_ []pushups.LogRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pushups.add-batch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("batch.size", len(records)))

	if len(records) == 0 {
		return []pushups.LogRecord{}, nil
	}

	stored := make([]pushups.LogRecord, len(records))
	rows := make([][]any, len(records))
	for i, rec := range records {
		id := r.newID()
		rec.ID = id.String()
		stored[i] = rec
		rows[i] = []any{id, rec.Reps, variationColumn(rec.Variation), rec.LoggedAt}
	}

	copied, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"pushup_log"},
		[]string{"id", "reps", "variation", "logged_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return nil, fmt.Errorf("copy from: %w", err)
	}
	if int(copied) != len(records) {
		return nil, fmt.Errorf("copied %d of %d records", copied, len(records))
	}

	return stored, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *pushups.LogRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pushups.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	logID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrLogNotFound
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, reps, variation, logged_at FROM pushup_log WHERE id = $1;`,
		logID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := rows2records(rows)
	if err != nil {
		return nil, err
	}

	if len(records) != 1 {
		return nil, ErrLogNotFound
	}

	return &records[0], nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pushups.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	logID, err := uuid.Parse(id)
	if err != nil {
		return ErrLogNotFound
	}

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM pushup_log WHERE id = $1`,
		logID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLogNotFound
	}
	return nil
}

// ListAll returns logged sets, newest first.
func (r *Repo) ListAll(ctx context.Context, params ListParams) (_ []pushups.LogRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.pushups.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, reps, variation, logged_at
			FROM pushup_log
			WHERE ($1::timestamptz IS NULL OR logged_at >= $1)
				AND ($2::timestamptz IS NULL OR logged_at < $2)
			ORDER BY logged_at DESC;`,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	records, err := rows2records(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2records: %w", err)
	}
	return records, nil
}

func rows2records(rows pgx.Rows) ([]pushups.LogRecord, error) {
	records := []pushups.LogRecord{}
	for rows.Next() {
		var (
			id        string
			reps      int
			variation *string
			loggedAt  time.Time
		)
		if err := rows.Scan(&id, &reps, &variation, &loggedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		rec := pushups.LogRecord{
			ID:       id,
			Reps:     reps,
			LoggedAt: loggedAt,
		}
		if variation != nil {
			rec.Variation = pushups.Variation(*variation)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// variationColumn stores Standard as NULL.
func variationColumn(v pushups.Variation) *string {
	if v.IsStandard() {
		return nil
	}
	s := string(v)
	return &s
}
