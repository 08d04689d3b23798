package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.SessionExpiry.Duration)
	assert.Equal(t, time.Hour, cfg.Reset.TokenExpiry.Duration)
	assert.Equal(t, 3, cfg.Reset.RateLimitRequests)
	assert.Equal(t, 60*time.Second, cfg.Reset.RateLimitWindow.Duration)
	assert.Equal(t, RateLimiterMemory, cfg.Reset.LimiterBackend)
	assert.Equal(t, 12, cfg.Security.BCryptCost)
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)
	assert.Equal(t, "https://www.googleapis.com/oauth2/v3/userinfo", cfg.Google.UserInfoURL)
}

func TestLoad_DayDurations(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_SESSION_EXPIRY", "14d")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 14*24*time.Hour, cfg.JWT.SessionExpiry.Duration)
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_UnknownLimiterBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("RESET_RATE_LIMITER_BACKEND", "memcached")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter backend")
}

func TestLoad_RedisBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("RESET_RATE_LIMITER_BACKEND", "redis")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RateLimiterRedis, cfg.Reset.LimiterBackend)
}

func TestPostgresConfig_DSNAndURL(t *testing.T) {
	p := PostgresConfig{
		Host:     "db",
		Port:     "5432",
		User:     "svc",
		Password: "pw",
		DBName:   "auth",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=svc password=pw dbname=auth sslmode=disable", p.DSN())
	assert.Equal(t, "postgres://svc:pw@db:5432/auth?sslmode=disable", p.URL())
}
