package service

import (
	"context"
	"encoding/json"
	"fmt"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/event"
	"anoa.com/hennahub/internal/logger"
	notifRepo "anoa.com/hennahub/internal/modules/notification/repository"
	"anoa.com/hennahub/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dispatcher turns domain events into notification records.
type Dispatcher interface {
	// Dispatch persists one notification per event using tx, so the records
	// commit or roll back together with the state change that emitted them.
	Dispatch(ctx context.Context, tx *gorm.DB, events []event.Event) ([]entity.Notification, error)
	// Publish pushes committed notifications to each recipient's channel.
	Publish(ctx context.Context, notifications []entity.Notification)
}

type dispatcher struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
}

func NewDispatcher(repo notifRepo.NotificationRepository, redisClient *redis.Client) Dispatcher {
	return &dispatcher{repo: repo, redisClient: redisClient}
}

func (d *dispatcher) Dispatch(ctx context.Context, tx *gorm.DB, events []event.Event) ([]entity.Notification, error) {
	if len(events) == 0 {
		return nil, nil
	}

	notifications := make([]entity.Notification, 0, len(events))
	for _, ev := range events {
		notifications = append(notifications, entity.Notification{
			UserID:    ev.Recipient,
			Type:      string(ev.Type),
			Title:     ev.Title,
			Message:   ev.Message,
			BookingID: ev.BookingID,
		})
	}

	if err := d.repo.WithTx(tx).CreateBatch(ctx, notifications); err != nil {
		return nil, apperror.Store(err)
	}
	return notifications, nil
}

func Channel(n entity.Notification) string {
	return fmt.Sprintf("user_notifications:%s", n.UserID.String())
}

func (d *dispatcher) Publish(ctx context.Context, notifications []entity.Notification) {
	if d.redisClient == nil {
		return
	}
	for _, n := range notifications {
		payload, err := json.Marshal(n)
		if err != nil {
			logger.Warn("notification encode failed", "notification_id", n.ID, "error", err)
			continue
		}
		if err := d.redisClient.Publish(ctx, Channel(n), payload).Err(); err != nil {
			logger.Warn("notification publish failed", "notification_id", n.ID, "error", err)
		}
	}
}
