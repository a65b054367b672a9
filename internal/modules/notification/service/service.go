package service

import (
	"context"
	"fmt"

	"anoa.com/hennahub/internal/entity"
	notifRepo "anoa.com/hennahub/internal/modules/notification/repository"
	"anoa.com/hennahub/pkg/apperror"
	"github.com/google/uuid"
)

const defaultPageSize = 50

type NotificationService interface {
	GetNotifications(ctx context.Context, actor entity.Actor, page, limit int) ([]entity.Notification, error)
	UnreadCount(ctx context.Context, actor entity.Actor) (int64, error)
	MarkAsRead(ctx context.Context, actor entity.Actor, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, actor entity.Actor) (int64, error)
}

type notificationService struct {
	repo notifRepo.NotificationRepository
}

func NewNotificationService(repo notifRepo.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) GetNotifications(ctx context.Context, actor entity.Actor, page, limit int) ([]entity.Notification, error) {
	if limit <= 0 || limit > defaultPageSize {
		limit = defaultPageSize
	}
	if page < 1 {
		page = 1
	}

	notifications, err := s.repo.GetByUserID(ctx, actor.UserID, limit, (page-1)*limit)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, actor entity.Actor) (int64, error) {
	count, err := s.repo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return 0, apperror.Store(err)
	}
	return count, nil
}

// MarkAsRead is a no-op for notifications that are already read. A
// notification owned by someone else is reported as not found.
func (s *notificationService) MarkAsRead(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apperror.FromRepo(err, "notification")
	}
	if n.UserID != actor.UserID {
		return fmt.Errorf("notification not found: %w", apperror.ErrNotFound)
	}
	if n.IsRead {
		return nil
	}

	if err := s.repo.MarkAsRead(ctx, id); err != nil {
		return apperror.Store(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, actor entity.Actor) (int64, error) {
	updated, err := s.repo.MarkAllAsRead(ctx, actor.UserID)
	if err != nil {
		return 0, apperror.Store(err)
	}
	return updated, nil
}
