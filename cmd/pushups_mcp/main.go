// Package main runs the pushups MCP server over stdio (for local assistant use).
// The same MCP server is also mounted on the main backend at /mcp over HTTP,
// so you can use either: stdio (this cmd) or the backend URL (no extra deploy).
package main

import (
	"context"
	"flag"
	"net"
	"os"

	"github.com/2beens/pushupstats/internal/config"
	"github.com/2beens/pushupstats/internal/db"
	"github.com/2beens/pushupstats/internal/pushups/goal"
	"github.com/2beens/pushupstats/internal/pushups/logs"
	pushupsmcp "github.com/2beens/pushupstats/internal/pushups/mcp"
	"github.com/2beens/pushupstats/internal/telemetry/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout belongs to the MCP protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("time zone: %v", err)
	}

	ctx := context.Background()
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis: %s", err)
		}
	}()

	logsRepo := logs.NewRepo(dbPool)
	statsService := logs.NewStatsService(
		logsRepo,
		goal.NewStore(rdb),
		cfg.StatsCacheSizeBytes(),
		// nothing scrapes a stdio process
		metrics.NewManager("mcp", "pushups", prometheus.NewRegistry()),
		loc,
	)
	server := pushupsmcp.NewServer(dbPool, logsRepo, statsService)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
