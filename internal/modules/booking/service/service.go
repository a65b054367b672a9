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
	"anoa.com/hennahub/internal/modules/booking/dto"
	bookingRepo "anoa.com/hennahub/internal/modules/booking/repository"
	notification "anoa.com/hennahub/internal/modules/notification/service"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/database"
	"anoa.com/hennahub/pkg/ratelimiter"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const rateLimitAction = "create_booking"

type BookingService interface {
	CreateBooking(ctx context.Context, actor entity.Actor, req dto.CreateBookingRequest) (*entity.Booking, error)
	ListBookings(ctx context.Context, actor entity.Actor, status string) ([]entity.Booking, error)
	GetBooking(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Booking, error)
	UpdateBooking(ctx context.Context, actor entity.Actor, id uuid.UUID, req dto.UpdateBookingRequest) (*entity.Booking, error)
	CancelBooking(ctx context.Context, actor entity.Actor, id uuid.UUID, reason *string) (*entity.Booking, error)
	DashboardStats(ctx context.Context, actor entity.Actor) (*dto.DashboardStats, error)
}

type bookingService struct {
	repo       bookingRepo.BookingRepository
	tx         database.TxManager
	dispatcher notification.Dispatcher
	limiter    *ratelimiter.Limiter
	window     time.Duration
	now        func() time.Time
}

func NewBookingService(repo bookingRepo.BookingRepository, tx database.TxManager, dispatcher notification.Dispatcher, limiter *ratelimiter.Limiter, window time.Duration) BookingService {
	return &bookingService{
		repo:       repo,
		tx:         tx,
		dispatcher: dispatcher,
		limiter:    limiter,
		window:     window,
		now:        time.Now,
	}
}

func parseStartsAt(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dto.DateLayout+" "+dto.TimeLayout, strings.TrimSpace(date)+" "+strings.TrimSpace(clock), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking date must be YYYY-MM-DD and time HH:MM: %w", apperror.ErrInvalidInput)
	}
	return t, nil
}

func (s *bookingService) requireFuture(startsAt time.Time) error {
	if !startsAt.After(s.now()) {
		return fmt.Errorf("booking date cannot be in the past: %w", apperror.ErrInvalidInput)
	}
	return nil
}

// visibility scopes queries to the actor's side of the booking.
func visibility(actor entity.Actor) bookingRepo.BookingFilter {
	id := actor.UserID
	if actor.IsDesigner() {
		return bookingRepo.BookingFilter{DesignerID: &id}
	}
	return bookingRepo.BookingFilter{CustomerID: &id}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor entity.Actor, req dto.CreateBookingRequest) (*entity.Booking, error) {
	if !actor.IsCustomer() {
		return nil, fmt.Errorf("only customers can create bookings: %w", apperror.ErrForbidden)
	}

	startsAt, err := parseStartsAt(req.BookingDate, req.BookingTime)
	if err != nil {
		return nil, err
	}
	if err := s.requireFuture(startsAt); err != nil {
		return nil, err
	}

	if err := s.limiter.Allow(ctx, actor.UserID, rateLimitAction, s.window); err != nil {
		return nil, err
	}

	booking := &entity.Booking{
		CustomerID:    actor.UserID,
		DesignerID:    req.DesignerID,
		StartsAt:      startsAt,
		DurationHours: req.DurationHours,
		EventType:     req.EventType,
		Location:      req.Location,
		Notes:         req.Notes,
		Status:        entity.BookingPending,
	}

	var notes []entity.Notification
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		designer, err := repo.FindUser(ctx, req.DesignerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("designer does not exist: %w", apperror.ErrInvalidInput)
			}
			return apperror.Store(err)
		}
		if !designer.IsDesigner() {
			return fmt.Errorf("selected user is not a designer: %w", apperror.ErrInvalidInput)
		}
		if !designer.IsApproved {
			return fmt.Errorf("designer is not approved yet: %w", apperror.ErrInvalidInput)
		}

		customer, err := repo.FindUser(ctx, actor.UserID)
		if err != nil {
			return apperror.FromRepo(err, "customer")
		}

		if err := repo.Create(ctx, booking); err != nil {
			return apperror.Store(err)
		}
		if err := repo.IncrementTotalBookings(ctx, designer.ID); err != nil {
			return apperror.Store(err)
		}

		notes, err = s.dispatcher.Dispatch(ctx, tx, []event.Event{
			event.NewBookingCreated(booking.ID, designer.ID, customer.DisplayName(), booking.StartsAt),
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
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, actor entity.Actor, status string) ([]entity.Booking, error) {
	filter := visibility(actor)
	filter.Status = status

	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return bookings, nil
}

// GetBooking reports bookings the actor is not a party to as not found.
func (s *bookingService) GetBooking(ctx context.Context, actor entity.Actor, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.FromRepo(err, "booking")
	}
	if !s.visibleTo(booking, actor) {
		return nil, fmt.Errorf("booking not found: %w", apperror.ErrNotFound)
	}
	return booking, nil
}

func (s *bookingService) visibleTo(b *entity.Booking, actor entity.Actor) bool {
	if actor.IsDesigner() {
		return b.DesignerID == actor.UserID
	}
	return b.CustomerID == actor.UserID
}

func (s *bookingService) UpdateBooking(ctx context.Context, actor entity.Actor, id uuid.UUID, req dto.UpdateBookingRequest) (*entity.Booking, error) {
	if req.Status != nil && *req.Status == entity.BookingCancelled {
		return s.CancelBooking(ctx, actor, id, req.CancellationReason)
	}

	var notes []entity.Notification
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		booking, err := repo.LockByID(ctx, id)
		if err != nil {
			return apperror.FromRepo(err, "booking")
		}
		if !s.visibleTo(booking, actor) {
			return fmt.Errorf("booking not found: %w", apperror.ErrNotFound)
		}

		var events []event.Event
		if req.HasDetails() {
			if err := s.applyDetails(booking, actor, req); err != nil {
				return err
			}
		}
		if req.EstimatedPrice != nil {
			if booking.DesignerID != actor.UserID {
				return fmt.Errorf("only the designer can set the estimated price: %w", apperror.ErrForbidden)
			}
			if booking.IsTerminal() {
				return fmt.Errorf("booking is %s: %w", booking.Status, apperror.ErrConflict)
			}
			booking.EstimatedPrice = req.EstimatedPrice
		}
		if req.Status != nil {
			ev, err := s.transition(ctx, repo, booking, actor, *req.Status)
			if err != nil {
				return err
			}
			events = append(events, ev...)
		}

		if err := repo.Save(ctx, booking); err != nil {
			return apperror.Store(err)
		}
		notes, err = s.dispatcher.Dispatch(ctx, tx, events)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, notes)
	return s.GetBooking(ctx, actor, id)
}

// applyDetails lets the customer reschedule or edit a booking that the
// designer has not acted on yet.
func (s *bookingService) applyDetails(b *entity.Booking, actor entity.Actor, req dto.UpdateBookingRequest) error {
	if b.CustomerID != actor.UserID {
		return fmt.Errorf("only the customer can edit booking details: %w", apperror.ErrForbidden)
	}
	if b.Status != entity.BookingPending {
		return fmt.Errorf("booking details can only be changed while pending: %w", apperror.ErrConflict)
	}

	if req.BookingDate != nil || req.BookingTime != nil {
		date := b.StartsAt.UTC().Format(dto.DateLayout)
		clock := b.StartsAt.UTC().Format(dto.TimeLayout)
		if req.BookingDate != nil {
			date = *req.BookingDate
		}
		if req.BookingTime != nil {
			clock = *req.BookingTime
		}
		startsAt, err := parseStartsAt(date, clock)
		if err != nil {
			return err
		}
		if err := s.requireFuture(startsAt); err != nil {
			return err
		}
		b.StartsAt = startsAt
	}
	if req.DurationHours != nil {
		b.DurationHours = *req.DurationHours
	}
	if req.EventType != nil {
		b.EventType = *req.EventType
	}
	if req.Location != nil {
		b.Location = *req.Location
	}
	if req.Notes != nil {
		b.Notes = req.Notes
	}
	return nil
}

// transition applies a designer-driven status change:
// pending -> confirmed -> completed.
func (s *bookingService) transition(ctx context.Context, repo bookingRepo.BookingRepository, b *entity.Booking, actor entity.Actor, status string) ([]event.Event, error) {
	if b.DesignerID != actor.UserID {
		return nil, fmt.Errorf("only the designer can change the booking status: %w", apperror.ErrForbidden)
	}

	switch {
	case status == entity.BookingConfirmed && b.Status == entity.BookingPending:
		b.Status = entity.BookingConfirmed
		designer, err := repo.FindUser(ctx, b.DesignerID)
		if err != nil {
			return nil, apperror.FromRepo(err, "designer")
		}
		return []event.Event{event.NewBookingConfirmed(b.ID, b.CustomerID, designer.DisplayName())}, nil

	case status == entity.BookingCompleted && b.Status == entity.BookingConfirmed:
		b.Status = entity.BookingCompleted
		return nil, nil

	default:
		return nil, fmt.Errorf("cannot move booking from %s to %s: %w", b.Status, status, apperror.ErrConflict)
	}
}

// CancelBooking cancels a non-terminal booking and notifies the other party.
func (s *bookingService) CancelBooking(ctx context.Context, actor entity.Actor, id uuid.UUID, reason *string) (*entity.Booking, error) {
	var notes []entity.Notification
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		booking, err := repo.LockByID(ctx, id)
		if err != nil {
			return apperror.FromRepo(err, "booking")
		}
		if !booking.Involves(actor.UserID) {
			return fmt.Errorf("booking not found: %w", apperror.ErrNotFound)
		}
		if booking.IsTerminal() {
			return fmt.Errorf("booking is already %s: %w", booking.Status, apperror.ErrConflict)
		}

		actorID := actor.UserID
		booking.Status = entity.BookingCancelled
		booking.CancelledByID = &actorID
		if reason != nil && strings.TrimSpace(*reason) != "" {
			booking.CancellationReason = reason
		}

		if err := repo.Save(ctx, booking); err != nil {
			return apperror.Store(err)
		}

		notes, err = s.dispatcher.Dispatch(ctx, tx, []event.Event{
			event.NewBookingCancelled(booking.ID, booking.Counterparty(actor.UserID), booking.StartsAt),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, notes)

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.FromRepo(err, "booking")
	}
	return booking, nil
}

func (s *bookingService) DashboardStats(ctx context.Context, actor entity.Actor) (*dto.DashboardStats, error) {
	filter := visibility(actor)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, apperror.Store(err)
	}
	stats := &dto.DashboardStats{TotalBookings: total}

	if !actor.IsDesigner() {
		favorites, err := s.repo.CountFavorites(ctx, actor.UserID)
		if err != nil {
			return nil, apperror.Store(err)
		}
		stats.FavoriteDesigns = &favorites
		return stats, nil
	}

	pendingFilter, completedFilter := filter, filter
	pendingFilter.Status = entity.BookingPending
	completedFilter.Status = entity.BookingCompleted

	pending, err := s.repo.Count(ctx, pendingFilter)
	if err != nil {
		return nil, apperror.Store(err)
	}
	completed, err := s.repo.Count(ctx, completedFilter)
	if err != nil {
		return nil, apperror.Store(err)
	}
	designs, err := s.repo.CountApprovedDesigns(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	designer, err := s.repo.FindUser(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.FromRepo(err, "designer")
	}

	stats.PendingBookings = &pending
	stats.CompletedBookings = &completed
	stats.TotalDesigns = &designs
	stats.AverageRating = &designer.AverageRating
	return stats, nil
}
