package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/2beens/pushupstats/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "pushups-session||"
	tokensSetKey     = "pushups-sessions"
)

var ErrWrongPassword = errors.New("wrong username or password")

type Admin struct {
	Username     string
	PasswordHash string
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Service struct {
	admin       *Admin
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	admin *Admin,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		admin:          admin,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Login checks the credentials against the admin account and opens a new session.
// The session key expires on its own after the TTL; the tokens set is trimmed by ScanAndClean.
func (as *Service) Login(ctx context.Context, creds Credentials, createdAt time.Time) (string, error) {
	if as.admin == nil || creds.Username != as.admin.Username {
		return "", ErrWrongPassword
	}
	if !pkg.CheckPasswordHash(creds.Password, as.admin.PasswordHash) {
		return "", ErrWrongPassword
	}

	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	if err := as.redisClient.Set(ctx, sessionKeyPrefix+token, createdAt.Unix(), as.ttl).Err(); err != nil {
		return "", err
	}
	if err := as.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Logout ends the session. It reports false for tokens that are unknown or already expired.
func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	if err := as.redisClient.Get(ctx, sessionKey).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return false, err
	}
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, err
	}

	return true, nil
}

// ScanAndClean drops sessions older than the TTL, and tokens whose session key is already gone.
// It returns the number of removed tokens.
func (as *Service) ScanAndClean(ctx context.Context, now time.Time) int {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return 0
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Traceln("auth service, scan and clean: no sessions")
		return 0
	}

	var staleTokens []any
	var staleKeys []string
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		val, err := as.redisClient.Get(ctx, sessionKey).Result()
		if errors.Is(err, redis.Nil) {
			// expired by redis
			staleTokens = append(staleTokens, token)
			continue
		}
		if err != nil {
			log.Errorf("auth service, scan and clean, get session: %s", err)
			continue
		}

		createdAtUnix, err := strconv.ParseInt(val, 10, 64)
		if err != nil || now.Sub(time.Unix(createdAtUnix, 0)) > as.ttl {
			staleTokens = append(staleTokens, token)
			staleKeys = append(staleKeys, sessionKey)
		}
	}

	if len(staleKeys) > 0 {
		if err := as.redisClient.Del(ctx, staleKeys...).Err(); err != nil {
			log.Errorf("auth service, scan and clean, delete sessions: %s", err)
			return 0
		}
	}
	if len(staleTokens) > 0 {
		if err := as.redisClient.SRem(ctx, tokensSetKey, staleTokens...).Err(); err != nil {
			log.Errorf("auth service, scan and clean, remove tokens: %s", err)
			return 0
		}
	}

	log.Debugf("auth service, scan and clean: %d of %d sessions removed", len(staleTokens), len(sessionTokens))
	return len(staleTokens)
}
