package repository

import (
	"context"

	"anoa.com/hennahub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingFilter struct {
	CustomerID *uuid.UUID
	DesignerID *uuid.UUID
	Status     string
}

type BookingRepository interface {
	WithTx(tx *gorm.DB) BookingRepository
	FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	Save(ctx context.Context, booking *entity.Booking) error
	IncrementTotalBookings(ctx context.Context, designerID uuid.UUID) error
	List(ctx context.Context, filter BookingFilter) ([]entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	CountApprovedDesigns(ctx context.Context, designerID uuid.UUID) (int64, error)
	CountFavorites(ctx context.Context, userID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) WithTx(tx *gorm.DB) BookingRepository {
	return &bookingRepository{db: tx}
}

func (r *bookingRepository) FindUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Designer").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Save(ctx context.Context, booking *entity.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(booking).Error
}

func (r *bookingRepository) IncrementTotalBookings(ctx context.Context, designerID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", designerID).
		UpdateColumn("total_bookings", gorm.Expr("total_bookings + ?", 1)).Error
}

func (r *bookingRepository) scoped(ctx context.Context, filter BookingFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&entity.Booking{})
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.DesignerID != nil {
		q = q.Where("designer_id = ?", *filter.DesignerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	return q
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.scoped(ctx, filter).
		Preload("Customer").
		Preload("Designer").
		Order("starts_at desc").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, filter).Count(&count).Error
	return count, err
}

func (r *bookingRepository) CountApprovedDesigns(ctx context.Context, designerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Design{}).
		Where("designer_id = ? AND status = ?", designerID, entity.DesignApproved).
		Count(&count).Error
	return count, err
}

func (r *bookingRepository) CountFavorites(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Favorite{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
