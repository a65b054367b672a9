package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/hennahub/internal/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	pendingKey   = "pending:design_views"
	viewerWindow = time.Hour
	syncInterval = time.Minute
)

// ViewStore persists flushed view counts.
type ViewStore interface {
	AddViews(ctx context.Context, designID uuid.UUID, n int) error
}

type ViewCounter interface {
	// RecordView counts a view of designID by viewer and reports whether it
	// was counted. A viewer is counted once per hour; an empty viewer always
	// counts.
	RecordView(ctx context.Context, designID uuid.UUID, viewer string) (bool, error)
	StartViewSyncWorker(ctx context.Context)
}

type viewCounter struct {
	redisClient *redis.Client
	store       ViewStore
}

// NewViewCounter buffers views in redis and flushes them to store from the
// sync worker. Without redis every view goes straight to store.
func NewViewCounter(redisClient *redis.Client, store ViewStore) ViewCounter {
	return &viewCounter{
		redisClient: redisClient,
		store:       store,
	}
}

func viewsKey(designID uuid.UUID) string {
	return fmt.Sprintf("design:views:%s", designID)
}

func (s *viewCounter) RecordView(ctx context.Context, designID uuid.UUID, viewer string) (bool, error) {
	if s.redisClient == nil {
		if err := s.store.AddViews(ctx, designID, 1); err != nil {
			return false, err
		}
		return true, nil
	}

	if viewer != "" {
		viewerKey := fmt.Sprintf("design:viewer:%s:%s", designID, viewer)
		fresh, err := s.redisClient.SetNX(ctx, viewerKey, "viewed", viewerWindow).Result()
		if err != nil {
			return false, fmt.Errorf("failed to mark viewer: %w", err)
		}
		if !fresh {
			return false, nil
		}
	}

	pipe := s.redisClient.TxPipeline()
	pipe.Incr(ctx, viewsKey(designID))
	pipe.SAdd(ctx, pendingKey, designID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to buffer view: %w", err)
	}
	return true, nil
}

// syncViewsToDB moves buffered counts into the store and returns how many
// designs were flushed. A count that fails to persist is put back.
func (s *viewCounter) syncViewsToDB(ctx context.Context) int {
	designIDs, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		logger.Warn("failed to read pending design views", "error", err)
		return 0
	}

	synced := 0
	for _, raw := range designIDs {
		designID, err := uuid.Parse(raw)
		if err != nil {
			s.redisClient.SRem(ctx, pendingKey, raw)
			continue
		}

		if err := s.redisClient.SRem(ctx, pendingKey, raw).Err(); err != nil {
			logger.Warn("failed to clear pending design view", "design_id", designID, "error", err)
			continue
		}

		count, err := s.redisClient.GetDel(ctx, viewsKey(designID)).Int()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				logger.Warn("failed to read design views", "design_id", designID, "error", err)
			}
			continue
		}
		if count <= 0 {
			continue
		}

		if err := s.store.AddViews(ctx, designID, count); err != nil {
			logger.Warn("failed to persist design views", "design_id", designID, "error", err)
			pipe := s.redisClient.TxPipeline()
			pipe.IncrBy(ctx, viewsKey(designID), int64(count))
			pipe.SAdd(ctx, pendingKey, raw)
			_, _ = pipe.Exec(ctx)
			continue
		}
		synced++
	}

	if synced > 0 {
		logger.Debug("synced design views", "designs", synced)
	}
	return synced
}

func (s *viewCounter) StartViewSyncWorker(ctx context.Context) {
	if s.redisClient == nil {
		return
	}

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncViewsToDB(ctx)
		case <-ctx.Done():
			// Final flush so buffered views survive a shutdown.
			s.syncViewsToDB(context.WithoutCancel(ctx))
			return
		}
	}
}
