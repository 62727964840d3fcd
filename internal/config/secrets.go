package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Secrets are never kept in the TOML file.
type Secrets struct {
	AdminUsername     string `env:"PUSHUPS_ADMIN_USERNAME"`
	AdminPasswordHash string `env:"PUSHUPS_ADMIN_PASSWORD_HASH"`
	RedisPassword     string `env:"PUSHUPS_REDIS_PASS"`
	MCPSecret         string `env:"PUSHUPS_MCP_SECRET"`
	SentryDSN         string `env:"SENTRY_DSN"`
	HoneycombEnabled  bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey   string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName   string `env:"OTEL_SERVICE_NAME, default=pushups-backend"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return loadSecrets(ctx, envconfig.OsLookuper())
}

func loadSecrets(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}

// Missing lists the names of secrets the backend cannot run properly without.
func (s *Secrets) Missing() []string {
	var missing []string
	if s.AdminUsername == "" {
		missing = append(missing, "PUSHUPS_ADMIN_USERNAME")
	}
	if s.AdminPasswordHash == "" {
		missing = append(missing, "PUSHUPS_ADMIN_PASSWORD_HASH")
	}
	if s.RedisPassword == "" {
		missing = append(missing, "PUSHUPS_REDIS_PASS")
	}
	if s.MCPSecret == "" {
		missing = append(missing, "PUSHUPS_MCP_SECRET")
	}
	if s.HoneycombEnabled && s.HoneycombAPIKey == "" {
		missing = append(missing, "HONEYCOMB_API_KEY")
	}
	return missing
}
