package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	MigrateOnStart bool   `toml:"migrate_on_start"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// http
	AllowedOrigins               []string `toml:"allowed_origins"`
	LoginRateLimitAllowedPerMin  int      `toml:"login_rate_limit_allowed_per_min"`
	ImportRateLimitAllowedPerMin int      `toml:"import_rate_limit_allowed_per_min"`
	// stats
	StatsCacheSizeMB int    `toml:"stats_cache_size_mb"`
	TimeZone         string `toml:"time_zone"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	cfg.Environment = strings.ToLower(env)
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return t.Get(env)
}

// Parse is like Load, but reads the TOML from a string.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return t.Get(env)
}

// Location resolves TimeZone, the zone whose calendar days the stats are counted in.
// Empty means the server's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %s: %w", c.TimeZone, err)
	}
	return loc, nil
}

// MinStatsCacheSizeMB keeps a whole summary under freecache's 1/1024 entry limit.
const MinStatsCacheSizeMB = 16

// StatsCacheSizeBytes is the freecache size, never below MinStatsCacheSizeMB.
func (c *Config) StatsCacheSizeBytes() int {
	if c.StatsCacheSizeMB < MinStatsCacheSizeMB {
		return MinStatsCacheSizeMB * 1024 * 1024
	}
	return c.StatsCacheSizeMB * 1024 * 1024
}
