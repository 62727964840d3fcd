// Package main parses a pasted pushup history file, prints what was recognized
// and, with -commit, stores the sets in Postgres.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/2beens/pushupstats/internal/config"
	"github.com/2beens/pushupstats/internal/db"
	"github.com/2beens/pushupstats/internal/logging"
	"github.com/2beens/pushupstats/internal/pushups"
	"github.com/2beens/pushupstats/internal/pushups/history"
	"github.com/2beens/pushupstats/internal/pushups/logs"
	"github.com/2beens/pushupstats/pkg"

	log "github.com/sirupsen/logrus"
)

type batchStore interface {
	AddBatch(ctx context.Context, records []pushups.LogRecord) ([]pushups.LogRecord, error)
}

type options struct {
	commit bool
	asJSON bool
	now    time.Time
	openDB func(ctx context.Context) (batchStore, func(), error)
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	file := flag.String("file", "-", "history file to parse, - for stdin")
	commit := flag.Bool("commit", false, "store the parsed sets")
	asJSON := flag.Bool("json", false, "print the preview as JSON")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	logging.Setup(logging.LoggerSetupParams{
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})
	// keep the preview on stdout clean
	log.SetOutput(os.Stderr)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("time zone: %s", err)
	}

	in := os.Stdin
	if *file != "-" {
		exists, err := pkg.PathExists(*file, false)
		if err != nil {
			log.Fatalf("check history file: %s", err)
		}
		if !exists {
			log.Fatalf("history file not found: %s", *file)
		}
		f, err := os.Open(*file)
		if err != nil {
			log.Fatalf("open history file: %s", err)
		}
		defer f.Close()
		in = f
	}

	opts := options{
		commit: *commit,
		asJSON: *asJSON,
		now:    time.Now().In(loc),
		openDB: func(ctx context.Context) (batchStore, func(), error) {
			pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
				DBHost: cfg.PostgresHost,
				DBPort: cfg.PostgresPort,
				DBName: cfg.PostgresDBName,
			})
			if err != nil {
				return nil, nil, err
			}
			return logs.NewRepo(pool), pool.Close, nil
		},
	}

	if err := run(context.Background(), opts, in, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	result := history.Parse(string(raw), opts.now)
	for _, w := range result.Warnings {
		log.Warn(w)
	}

	if err := printPreview(out, result, opts.asJSON); err != nil {
		return err
	}

	if !opts.commit {
		return nil
	}
	if len(result.Entries) == 0 {
		return fmt.Errorf("nothing to import")
	}

	store, closeDB, err := opts.openDB(ctx)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer closeDB()

	stored, err := store.AddBatch(ctx, result.Records())
	if err != nil {
		return fmt.Errorf("store sets: %w", err)
	}

	log.Infof("imported %d sets, %d reps", len(stored), result.TotalReps())
	return nil
}

func printPreview(out io.Writer, result history.ParseResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	for _, e := range result.Entries {
		if _, err := fmt.Fprintf(out, "%s  %4d reps  %d sets\n", e.Date.Format("2006-01-02"), e.Total(), len(e.Sets)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "total: %d entries, %d sets, %d reps, %d warnings\n",
		len(result.Entries), result.TotalSets(), result.TotalReps(), len(result.Warnings))
	return err
}
