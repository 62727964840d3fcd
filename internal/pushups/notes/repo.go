package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/pushupstats/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrNoteNotFound = errors.New("note not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert stores the note for the given day, replacing the content of an existing one.
func (r *Repo) Upsert(ctx context.Context, date time.Time, content string) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date.Format(DateLayout)))

	if content == "" {
		return nil, errors.New("note content empty")
	}

	rows, err := r.db.Query(
		ctx,
		`
			INSERT INTO daily_note (note_date, content) VALUES ($1, $2)
			ON CONFLICT (note_date) DO UPDATE SET content = EXCLUDED.content, updated_at = now()
			RETURNING note_date, content, created_at, updated_at;`,
		date, content,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert: %w", err)
	}
	defer rows.Close()

	notes, err := rows2notes(rows)
	if err != nil {
		return nil, err
	}
	if len(notes) != 1 {
		return nil, errors.New("unexpected error [no rows returned]")
	}

	return &notes[0], nil
}

func (r *Repo) Get(ctx context.Context, date time.Time) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date.Format(DateLayout)))

	rows, err := r.db.Query(
		ctx,
		`SELECT note_date, content, created_at, updated_at FROM daily_note WHERE note_date = $1;`,
		date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes, err := rows2notes(rows)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoteNotFound
	}

	return &notes[0], nil
}

func (r *Repo) Delete(ctx context.Context, date time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("date", date.Format(DateLayout)))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM daily_note WHERE note_date = $1`,
		date,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// List returns all notes, newest day first.
func (r *Repo) List(ctx context.Context) (_ []Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				note_date, content, created_at, updated_at
			FROM daily_note
			ORDER BY note_date DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2notes(rows)
}

func rows2notes(rows pgx.Rows) ([]Note, error) {
	notes := []Note{}
	for rows.Next() {
		var (
			date      time.Time
			content   string
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&date, &content, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		notes = append(notes, Note{
			Date:      date.Format(DateLayout),
			Content:   content,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}
