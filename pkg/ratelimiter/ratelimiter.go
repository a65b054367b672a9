package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/hennahub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitError carries how long the caller has to wait.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Limiter allows one action per user per window. A nil redis client disables it.
type Limiter struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Limiter {
	return &Limiter{rdb: rdb}
}

func key(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

// Allow claims the window for (userID, action). It returns a *RateLimitError
// when the window is still held.
func (l *Limiter) Allow(ctx context.Context, userID uuid.UUID, action string, window time.Duration) error {
	if l == nil || l.rdb == nil || window <= 0 {
		return nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(userID, action), "locked", window).Result()
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if wasSet {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, key(userID, action)).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return &RateLimitError{
		Message:    fmt.Sprintf("too many %s requests, retry in %.0fs", action, ttl.Seconds()),
		RetryAfter: ttl,
	}
}

// Release drops the window, used when the guarded action failed.
func (l *Limiter) Release(ctx context.Context, userID uuid.UUID, action string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(userID, action)).Err()
}
