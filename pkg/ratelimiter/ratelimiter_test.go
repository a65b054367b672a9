package ratelimiter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/ratelimiter"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T) (*ratelimiter.Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return ratelimiter.New(rdb), mr
}

func TestAllowBlocksWithinWindow(t *testing.T) {
	ctx := context.Background()
	limiter, mr := newLimiter(t)
	user := uuid.New()

	require.NoError(t, limiter.Allow(ctx, user, "booking", time.Minute))

	err := limiter.Allow(ctx, user, "booking", time.Minute)
	var rlErr *ratelimiter.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)
	assert.Greater(t, rlErr.RetryAfter, time.Duration(0))

	// other users and actions are independent
	assert.NoError(t, limiter.Allow(ctx, uuid.New(), "booking", time.Minute))
	assert.NoError(t, limiter.Allow(ctx, user, "review", time.Minute))

	mr.FastForward(time.Minute + time.Second)
	assert.NoError(t, limiter.Allow(ctx, user, "booking", time.Minute))
}

func TestReleaseFreesWindow(t *testing.T) {
	ctx := context.Background()
	limiter, _ := newLimiter(t)
	user := uuid.New()

	require.NoError(t, limiter.Allow(ctx, user, "review", time.Hour))
	require.NoError(t, limiter.Release(ctx, user, "review"))
	assert.NoError(t, limiter.Allow(ctx, user, "review", time.Hour))
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	var limiter *ratelimiter.Limiter
	assert.NoError(t, limiter.Allow(context.Background(), uuid.New(), "booking", time.Minute))
	assert.NoError(t, ratelimiter.New(nil).Allow(context.Background(), uuid.New(), "booking", time.Minute))
}
