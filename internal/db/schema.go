package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Schema creates the tables used by the backend. Safe to run more than once.
const Schema = `
CREATE TABLE IF NOT EXISTS public.pushup_log
(
    id         UUID PRIMARY KEY,
    reps       INTEGER     NOT NULL CHECK (reps > 0),
    variation  VARCHAR,
    logged_at  TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ix_pushup_log_logged_at ON public.pushup_log USING btree (logged_at);

CREATE TABLE IF NOT EXISTS public.daily_note
(
    note_date  DATE PRIMARY KEY,
    content    TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	tag, err := pool.Exec(ctx, Schema)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Debugf("schema applied: %s", tag.String())
	return nil
}
