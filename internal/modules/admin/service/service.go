package service

import (
	"context"
	"fmt"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/event"
	"anoa.com/hennahub/internal/logger"
	"anoa.com/hennahub/internal/modules/admin/dto"
	adminRepo "anoa.com/hennahub/internal/modules/admin/repository"
	notification "anoa.com/hennahub/internal/modules/notification/service"
	reviewRepo "anoa.com/hennahub/internal/modules/review/repository"
	search "anoa.com/hennahub/internal/modules/search/service"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModerationService gates designers, designs and reported reviews. Every
// operation requires an admin actor.
type ModerationService interface {
	Dashboard(ctx context.Context, actor entity.Actor) (*dto.DashboardResponse, error)
	PendingDesigners(ctx context.Context, actor entity.Actor) ([]entity.User, error)
	PendingDesigns(ctx context.Context, actor entity.Actor) ([]entity.Design, error)
	ReportedReviews(ctx context.Context, actor entity.Actor) ([]entity.Review, error)
	ApproveDesigner(ctx context.Context, actor entity.Actor, designerID uuid.UUID) error
	ApproveDesign(ctx context.Context, actor entity.Actor, designID uuid.UUID) error
	RejectDesign(ctx context.Context, actor entity.Actor, designID uuid.UUID) error
	HandleReport(ctx context.Context, actor entity.Actor, reviewID uuid.UUID, action string) error
}

type moderationService struct {
	repo       adminRepo.AdminRepository
	reviews    reviewRepo.ReviewRepository
	tx         database.TxManager
	dispatcher notification.Dispatcher
	indexer    search.DesignIndexer
}

func NewModerationService(
	repo adminRepo.AdminRepository,
	reviews reviewRepo.ReviewRepository,
	tx database.TxManager,
	dispatcher notification.Dispatcher,
	indexer search.DesignIndexer,
) ModerationService {
	return &moderationService{
		repo:       repo,
		reviews:    reviews,
		tx:         tx,
		dispatcher: dispatcher,
		indexer:    indexer,
	}
}

func requireAdmin(actor entity.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("admin access required: %w", apperror.ErrForbidden)
	}
	return nil
}

func (s *moderationService) Dashboard(ctx context.Context, actor entity.Actor) (*dto.DashboardResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var (
		res dto.DashboardResponse
		err error
	)
	unapproved := false
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&res.Users.Total, func() (int64, error) { return s.repo.CountUsers(ctx, "", nil) }},
		{&res.Users.Designers, func() (int64, error) { return s.repo.CountUsers(ctx, entity.RoleDesigner, nil) }},
		{&res.Users.Customers, func() (int64, error) { return s.repo.CountUsers(ctx, entity.RoleCustomer, nil) }},
		{&res.Users.PendingDesigners, func() (int64, error) { return s.repo.CountUsers(ctx, entity.RoleDesigner, &unapproved) }},
		{&res.Designs.Total, func() (int64, error) { return s.repo.CountDesigns(ctx, "") }},
		{&res.Designs.Pending, func() (int64, error) { return s.repo.CountDesigns(ctx, entity.DesignPending) }},
		{&res.Designs.Approved, func() (int64, error) { return s.repo.CountDesigns(ctx, entity.DesignApproved) }},
		{&res.Bookings.Total, func() (int64, error) { return s.repo.CountBookings(ctx, "") }},
		{&res.Bookings.Pending, func() (int64, error) { return s.repo.CountBookings(ctx, entity.BookingPending) }},
		{&res.Bookings.Completed, func() (int64, error) { return s.repo.CountBookings(ctx, entity.BookingCompleted) }},
		{&res.Reviews.Reported, func() (int64, error) { return s.repo.CountReportedReviews(ctx) }},
	}
	for _, c := range counts {
		if *c.dst, err = c.fn(); err != nil {
			return nil, apperror.Store(err)
		}
	}

	if res.TopDesigners, err = s.repo.TopDesigners(ctx); err != nil {
		return nil, apperror.Store(err)
	}
	if res.TopDesigns, err = s.repo.TopDesigns(ctx); err != nil {
		return nil, apperror.Store(err)
	}
	return &res, nil
}

func (s *moderationService) PendingDesigners(ctx context.Context, actor entity.Actor) ([]entity.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.repo.PendingDesigners(ctx)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return users, nil
}

func (s *moderationService) PendingDesigns(ctx context.Context, actor entity.Actor) ([]entity.Design, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	designs, err := s.repo.PendingDesigns(ctx)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return designs, nil
}

func (s *moderationService) ReportedReviews(ctx context.Context, actor entity.Actor) ([]entity.Review, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListReported(ctx)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return reviews, nil
}

// ApproveDesigner is one-way; approving twice is a conflict.
func (s *moderationService) ApproveDesigner(ctx context.Context, actor entity.Actor, designerID uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	var notes []entity.Notification
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.LockUser(ctx, designerID)
		if err != nil {
			return apperror.FromRepo(err, "designer")
		}
		if !user.IsDesigner() {
			return fmt.Errorf("designer not found: %w", apperror.ErrNotFound)
		}
		if user.IsApproved {
			return fmt.Errorf("designer is already approved: %w", apperror.ErrConflict)
		}

		if err := repo.ApproveUser(ctx, designerID); err != nil {
			return apperror.Store(err)
		}

		notes, err = s.dispatcher.Dispatch(ctx, tx, []event.Event{event.NewDesignerApproved(designerID)})
		return err
	})
	if err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, notes)
	return nil
}

func (s *moderationService) ApproveDesign(ctx context.Context, actor entity.Actor, designID uuid.UUID) error {
	if err := s.moderateDesign(ctx, actor, designID, entity.DesignApproved); err != nil {
		return err
	}

	design, err := s.repo.FindDesign(ctx, designID)
	if err != nil {
		logger.Warn("approved design not reloaded for indexing", "design_id", designID, "error", err)
		return nil
	}
	if err := s.indexer.IndexDesign(design); err != nil {
		logger.Warn("design indexing failed", "design_id", designID, "error", err)
	}
	return nil
}

func (s *moderationService) RejectDesign(ctx context.Context, actor entity.Actor, designID uuid.UUID) error {
	if err := s.moderateDesign(ctx, actor, designID, entity.DesignRejected); err != nil {
		return err
	}

	if err := s.indexer.DeleteDesign(designID); err != nil {
		logger.Warn("design removal from index failed", "design_id", designID, "error", err)
	}
	return nil
}

// moderateDesign moves a pending design to status. Any other starting
// status is a conflict.
func (s *moderationService) moderateDesign(ctx context.Context, actor entity.Actor, designID uuid.UUID, status string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		design, err := repo.LockDesign(ctx, designID)
		if err != nil {
			return apperror.FromRepo(err, "design")
		}
		if design.Status != entity.DesignPending {
			return fmt.Errorf("design is already %s: %w", design.Status, apperror.ErrConflict)
		}

		if err := repo.SetDesignStatus(ctx, designID, status); err != nil {
			return apperror.Store(err)
		}
		return nil
	})
}

// HandleReport resolves a reported review. approve clears the report and
// keeps the review visible; reject hides the review and leaves the report
// flag set.
func (s *moderationService) HandleReport(ctx context.Context, actor entity.Actor, reviewID uuid.UUID, action string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if action != dto.ReportApprove && action != dto.ReportReject {
		return fmt.Errorf("invalid action %q: %w", action, apperror.ErrInvalidInput)
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		reviews := s.reviews.WithTx(tx)

		review, err := reviews.FindByID(ctx, reviewID)
		if err != nil {
			return apperror.FromRepo(err, "review")
		}

		switch action {
		case dto.ReportApprove:
			review.IsReported = false
		case dto.ReportReject:
			review.IsApproved = false
		}

		if err := reviews.Save(ctx, review); err != nil {
			return apperror.Store(err)
		}
		if action == dto.ReportReject {
			if _, err := reviews.RecomputeAverageRating(ctx, review.DesignerID); err != nil {
				return apperror.Store(err)
			}
		}
		return nil
	})
}
