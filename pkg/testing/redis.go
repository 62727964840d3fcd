// Package testing holds helpers for the integration tests.
package testing

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// RedisTestDB keeps integration test keys out of the default database.
const RedisTestDB = 9

// GetRedisClientAndCtx connects to REDIS_HOST:REDIS_PORT (localhost:6379 by default),
// flushes RedisTestDB and closes the client when the test ends.
func GetRedisClientAndCtx(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(envOr("REDIS_HOST", "localhost"), envOr("REDIS_PORT", "6379")),
		Password: os.Getenv("PUSHUPS_REDIS_PASS"),
		DB:       RedisTestDB,
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	require.NoError(t, rdb.Ping(ctx).Err(), "redis at %s", rdb.Options().Addr)
	require.NoError(t, rdb.FlushDB(ctx).Err())
	t.Logf("redis %s, db %s", rdb.Options().Addr, strconv.Itoa(RedisTestDB))

	return ctx, rdb
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
