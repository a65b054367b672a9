package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/event"
	"anoa.com/hennahub/internal/logger"
	notification "anoa.com/hennahub/internal/modules/notification/service"
	"anoa.com/hennahub/internal/modules/review/dto"
	reviewRepo "anoa.com/hennahub/internal/modules/review/repository"
	userRepo "anoa.com/hennahub/internal/modules/user/repository"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/database"
	"anoa.com/hennahub/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const rateLimitAction = "create_review"

type ReviewService interface {
	CreateReview(ctx context.Context, actor entity.Actor, designerID uuid.UUID, req dto.CreateReviewRequest) (*entity.Review, error)
	ListReviews(ctx context.Context, designerID uuid.UUID) ([]entity.Review, error)
	Respond(ctx context.Context, actor entity.Actor, reviewID uuid.UUID, text string) (*entity.Review, error)
	Report(ctx context.Context, actor entity.Actor, reviewID uuid.UUID, reason string) error
}

type reviewService struct {
	repo       reviewRepo.ReviewRepository
	users      userRepo.UserRepository
	tx         database.TxManager
	dispatcher notification.Dispatcher
	limiter    *ratelimiter.Limiter
	window     time.Duration
	sanitizer  *bluemonday.Policy
}

func NewReviewService(
	repo reviewRepo.ReviewRepository,
	users userRepo.UserRepository,
	tx database.TxManager,
	dispatcher notification.Dispatcher,
	limiter *ratelimiter.Limiter,
	window time.Duration,
) ReviewService {
	return &reviewService{
		repo:       repo,
		users:      users,
		tx:         tx,
		dispatcher: dispatcher,
		limiter:    limiter,
		window:     window,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

func (s *reviewService) clean(text string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(text))
}

func (s *reviewService) CreateReview(ctx context.Context, actor entity.Actor, designerID uuid.UUID, req dto.CreateReviewRequest) (*entity.Review, error) {
	if !actor.IsCustomer() {
		return nil, fmt.Errorf("only customers can leave reviews: %w", apperror.ErrForbidden)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", apperror.ErrInvalidInput)
	}
	comment := s.clean(req.Comment)
	if comment == "" {
		return nil, fmt.Errorf("comment is required: %w", apperror.ErrInvalidInput)
	}

	designer, err := s.users.FindByID(ctx, designerID)
	if err != nil {
		return nil, apperror.FromRepo(err, "designer")
	}
	if !designer.IsDesigner() {
		return nil, fmt.Errorf("designer not found: %w", apperror.ErrNotFound)
	}

	exists, err := s.repo.Exists(ctx, actor.UserID, designerID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if exists {
		return nil, fmt.Errorf("you have already reviewed this designer: %w", apperror.ErrInvalidInput)
	}

	customer, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.FromRepo(err, "customer")
	}

	if err := s.limiter.Allow(ctx, actor.UserID, rateLimitAction, s.window); err != nil {
		return nil, err
	}

	review := &entity.Review{
		CustomerID: actor.UserID,
		DesignerID: designerID,
		Rating:     req.Rating,
		Comment:    comment,
		IsApproved: true,
	}

	var notes []entity.Notification
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, review); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("you have already reviewed this designer: %w", apperror.ErrInvalidInput)
			}
			return apperror.Store(err)
		}
		if _, err := repo.RecomputeAverageRating(ctx, designerID); err != nil {
			return apperror.Store(err)
		}

		var err error
		notes, err = s.dispatcher.Dispatch(ctx, tx, []event.Event{
			event.NewReviewReceived(designerID, customer.DisplayName(), review.Rating),
		})
		return err
	})
	if err != nil {
		if relErr := s.limiter.Release(ctx, actor.UserID, rateLimitAction); relErr != nil {
			logger.Warn("rate limit release failed", "user_id", actor.UserID, "error", relErr)
		}
		return nil, err
	}

	s.dispatcher.Publish(ctx, notes)
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, designerID uuid.UUID) ([]entity.Review, error) {
	reviews, err := s.repo.ListApproved(ctx, designerID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return reviews, nil
}

func (s *reviewService) Respond(ctx context.Context, actor entity.Actor, reviewID uuid.UUID, text string) (*entity.Review, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, apperror.FromRepo(err, "review")
	}
	if review.DesignerID != actor.UserID {
		return nil, fmt.Errorf("only the reviewed designer can respond: %w", apperror.ErrForbidden)
	}

	response := s.clean(text)
	if response == "" {
		return nil, fmt.Errorf("response is required: %w", apperror.ErrInvalidInput)
	}
	now := time.Now().UTC()
	review.DesignerResponse = &response
	review.ResponseDate = &now

	if err := s.repo.Save(ctx, review); err != nil {
		return nil, apperror.Store(err)
	}
	return review, nil
}

func (s *reviewService) Report(ctx context.Context, actor entity.Actor, reviewID uuid.UUID, reason string) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return apperror.FromRepo(err, "review")
	}

	cleaned := s.clean(reason)
	if cleaned == "" {
		return fmt.Errorf("report reason is required: %w", apperror.ErrInvalidInput)
	}
	review.IsReported = true
	review.ReportReason = &cleaned

	if err := s.repo.Save(ctx, review); err != nil {
		return apperror.Store(err)
	}
	logger.Info("review reported", "review_id", review.ID, "reported_by", actor.UserID)
	return nil
}
