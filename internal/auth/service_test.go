package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

const (
	testUsername = "testuser"
	testPassword = "testpass"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func newTestAdmin(t *testing.T) *Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return &Admin{
		Username:     testUsername,
		PasswordHash: string(hash),
	}
}

func TestAuthService_Login(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(newTestAdmin(t), time.Hour, db)
	require.NotNil(t, authService)
	assert.NotNil(t, authService.redisClient)
	assert.Equal(t, time.Hour, authService.ttl)

	testToken := "test_token"
	authService.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	now := time.Now()
	mock.ExpectSet(sessionKeyPrefix+testToken, now.Unix(), time.Hour).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)
	token, err := authService.Login(context.Background(), Credentials{
		Username: testUsername,
		Password: testPassword,
	}, now)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
	require.NoError(t, mock.ExpectationsWereMet())

	for _, creds := range []Credentials{
		{Username: testUsername, Password: "invalid_pass"},
		{Username: "someone", Password: testPassword},
		{},
	} {
		token, err = authService.Login(context.Background(), creds, now)
		assert.ErrorIs(t, err, ErrWrongPassword)
		assert.Empty(t, token)
	}
}

func TestAuthService_Login_Errors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(newTestAdmin(t), time.Hour, db)
	creds := Credentials{Username: testUsername, Password: testPassword}
	now := time.Now()

	authService.RandStringFunc = func(s int) (string, error) {
		return "", errors.New("no entropy")
	}
	_, err := authService.Login(context.Background(), creds, now)
	require.EqualError(t, err, "no entropy")

	authService.RandStringFunc = func(s int) (string, error) {
		return "tkn", nil
	}
	mock.ExpectSet(sessionKeyPrefix+"tkn", now.Unix(), time.Hour).SetErr(errors.New("redis down"))
	token, err := authService.Login(context.Background(), creds, now)
	require.EqualError(t, err, "redis down")
	assert.Empty(t, token)

	mock.ExpectSet(sessionKeyPrefix+"tkn", now.Unix(), time.Hour).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, "tkn").SetErr(errors.New("oom"))
	_, err = authService.Login(context.Background(), creds, now)
	require.EqualError(t, err, "oom")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_Logout(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	authService := NewAuthService(newTestAdmin(t), time.Hour, db)
	ctx := context.Background()

	// unknown or expired
	mock.ExpectGet(sessionKeyPrefix + "unknown").SetErr(redis.Nil)
	loggedOut, err := authService.Logout(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, loggedOut)

	mock.ExpectGet(sessionKeyPrefix + "broken").SetErr(errors.New("conn reset"))
	loggedOut, err = authService.Logout(ctx, "broken")
	require.EqualError(t, err, "conn reset")
	assert.False(t, loggedOut)

	createdAt := time.Now().Add(-time.Minute)
	mock.ExpectGet(sessionKeyPrefix + "tkn").SetVal(fmt.Sprintf("%d", createdAt.Unix()))
	mock.ExpectDel(sessionKeyPrefix + "tkn").SetVal(1)
	mock.ExpectSRem(tokensSetKey, "tkn").SetVal(1)
	loggedOut, err = authService.Logout(ctx, "tkn")
	require.NoError(t, err)
	assert.True(t, loggedOut)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_ScanAndClean(t *testing.T) {
	ttl := time.Hour
	now := time.Now()
	then := now.Add(-2 * time.Hour)

	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	authService := NewAuthService(newTestAdmin(t), ttl, rdb)

	t1, t2, t3, t4 := "token1", "token2", "token3", "token4"
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{t1, t2, t3, t4})
	mock.ExpectGet(sessionKeyPrefix + t1).SetVal(fmt.Sprintf("%d", then.Unix()))
	mock.ExpectGet(sessionKeyPrefix + t2).SetVal(fmt.Sprintf("%d", now.Unix()))
	mock.ExpectGet(sessionKeyPrefix + t3).SetErr(redis.Nil)
	mock.ExpectGet(sessionKeyPrefix + t4).SetVal("garbage")
	// t1 is too old, t3 already expired in redis, t4 is unreadable
	mock.ExpectDel(sessionKeyPrefix+t1, sessionKeyPrefix+t4).SetVal(2)
	mock.ExpectSRem(tokensSetKey, t1, t3, t4).SetVal(3)

	removed := authService.ScanAndClean(context.Background(), now)
	assert.Equal(t, 3, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_ScanAndClean_OnlyExpiredKeys(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	authService := NewAuthService(newTestAdmin(t), time.Hour, rdb)
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{"gone"})
	mock.ExpectGet(sessionKeyPrefix + "gone").SetErr(redis.Nil)
	// nothing to delete, only the set is trimmed
	mock.ExpectSRem(tokensSetKey, "gone").SetVal(1)

	assert.Equal(t, 1, authService.ScanAndClean(context.Background(), time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthService_ScanAndClean_NoSessions(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	authService := NewAuthService(newTestAdmin(t), time.Hour, rdb)
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{})
	assert.Zero(t, authService.ScanAndClean(context.Background(), time.Now()))

	mock.ExpectSMembers(tokensSetKey).SetErr(errors.New("redis down"))
	assert.Zero(t, authService.ScanAndClean(context.Background(), time.Now()))
	require.NoError(t, mock.ExpectationsWereMet())
}
