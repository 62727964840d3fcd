package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	// injectable clock, for tests
	NowFunc func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		NowFunc:     time.Now,
	}
}

// IsLogged reports whether the token belongs to a live session. Unknown tokens
// are not an error. The TTL is checked here too, redis expiry is not exact.
func (c *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	createdAtUnix, err := strconv.ParseInt(cmd.Val(), 10, 64)
	if err != nil {
		return false, err
	}
	sessionDuration := c.NowFunc().Sub(time.Unix(createdAtUnix, 0))
	return sessionDuration <= c.ttl, nil
}
