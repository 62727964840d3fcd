// Package main exports all logged pushups and daily notes into a JSON backup on Google Drive.
// With -dry-run the snapshot is written to stdout instead.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/2beens/pushupstats/internal/config"
	"github.com/2beens/pushupstats/internal/db"
	"github.com/2beens/pushupstats/internal/logging"
	"github.com/2beens/pushupstats/internal/pushups/backup"
	"github.com/2beens/pushupstats/internal/pushups/logs"
	"github.com/2beens/pushupstats/internal/pushups/notes"
	"github.com/2beens/pushupstats/pkg"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	credentialsFile := flag.String("gd-creds", "./drive-credentials.json", "google drive service account credentials json")
	shareWith := flag.String("share-with", "", "account to share the backups with (reader)")
	logsPath := flag.String("logs-path", "", "backup logs file path (empty for stdout)")
	dryRun := flag.Bool("dry-run", false, "print the snapshot instead of uploading it")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	logging.Setup(logging.LoggerSetupParams{
		LogLevel:    cfg.LogLevel,
		LogFileName: *logsPath,
		LogToStdout: *logsPath == "",
		Environment: cfg.Environment,
	})
	if *dryRun && *logsPath == "" {
		// keep the snapshot on stdout clean
		log.SetOutput(os.Stderr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: cfg.PostgresHost,
		DBPort: cfg.PostgresPort,
		DBName: cfg.PostgresDBName,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	logsRepo := logs.NewRepo(dbPool)
	notesRepo := notes.NewRepo(dbPool)

	if *dryRun {
		snapshot, err := backup.NewService(logsRepo, notesRepo, nil).Snapshot(ctx)
		if err != nil {
			log.Fatalf("snapshot: %s", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snapshot); err != nil {
			log.Fatalf("encode snapshot: %s", err)
		}
		return
	}

	exists, err := pkg.PathExists(*credentialsFile, false)
	if err != nil || !exists {
		log.Fatalf("google drive credentials json not found: %s", *credentialsFile)
	}
	credentialsFileBytes, err := os.ReadFile(*credentialsFile)
	if err != nil {
		log.Fatalf("unable to read credentials file: %s", err)
	}

	uploader, err := backup.NewGoogleDriveUploader(ctx, *shareWith, option.WithCredentialsJSON(credentialsFileBytes))
	if err != nil {
		log.Fatalf("failed to create google drive uploader: %s", err)
	}

	name, fileID, err := backup.NewService(logsRepo, notesRepo, uploader).DoBackup(ctx)
	if err != nil {
		log.Fatalf("backup failed: %s", err)
	}
	log.Infof("backup %s done: %s", name, fileID)
}
