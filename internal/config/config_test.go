package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_TTL_MINUTES", "")
	t.Setenv("RATE_LIMIT_BOOKING", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.RateLimitBooking)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("RATE_LIMIT_REVIEW", "2m")
	t.Setenv("LOG_SOURCE", "yes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 2*time.Minute, cfg.RateLimitReview)
	assert.True(t, cfg.LogSource)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("RATE_LIMIT_BOOKING", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "RATE_LIMIT_BOOKING")
}

func TestOrigins(t *testing.T) {
	cfg := &Config{AllowedOrigins: "https://a.test, https://b.test,"}
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Origins())

	cfg.AllowedOrigins = " "
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Origins())
}
