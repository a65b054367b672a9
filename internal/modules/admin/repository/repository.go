package repository

import (
	"context"

	"anoa.com/hennahub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const topLimit = 5

type AdminRepository interface {
	WithTx(tx *gorm.DB) AdminRepository
	LockUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
	ApproveUser(ctx context.Context, id uuid.UUID) error
	LockDesign(ctx context.Context, id uuid.UUID) (*entity.Design, error)
	SetDesignStatus(ctx context.Context, id uuid.UUID, status string) error
	FindDesign(ctx context.Context, id uuid.UUID) (*entity.Design, error)
	PendingDesigners(ctx context.Context) ([]entity.User, error)
	PendingDesigns(ctx context.Context) ([]entity.Design, error)
	CountUsers(ctx context.Context, role string, approved *bool) (int64, error)
	CountDesigns(ctx context.Context, status string) (int64, error)
	CountBookings(ctx context.Context, status string) (int64, error)
	CountReportedReviews(ctx context.Context) (int64, error)
	TopDesigners(ctx context.Context) ([]entity.User, error)
	TopDesigns(ctx context.Context) ([]entity.Design, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) WithTx(tx *gorm.DB) AdminRepository {
	return &adminRepository{db: tx}
}

func (r *adminRepository) LockUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminRepository) ApproveUser(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Update("is_approved", true).Error
}

func (r *adminRepository) LockDesign(ctx context.Context, id uuid.UUID) (*entity.Design, error) {
	var design entity.Design
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&design, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *adminRepository) SetDesignStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&entity.Design{}).Where("id = ?", id).Update("status", status).Error
}

func (r *adminRepository) FindDesign(ctx context.Context, id uuid.UUID) (*entity.Design, error) {
	var design entity.Design
	err := r.db.WithContext(ctx).Preload("Designer").Preload("Category").First(&design, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *adminRepository) PendingDesigners(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_approved = ?", entity.RoleDesigner, false).
		Order("created_at asc").
		Find(&users).Error
	return users, err
}

func (r *adminRepository) PendingDesigns(ctx context.Context) ([]entity.Design, error) {
	var designs []entity.Design
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.DesignPending).
		Preload("Designer").
		Preload("Category").
		Order("created_at asc").
		Find(&designs).Error
	return designs, err
}

func (r *adminRepository) CountUsers(ctx context.Context, role string, approved *bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if approved != nil {
		q = q.Where("is_approved = ?", *approved)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *adminRepository) CountDesigns(ctx context.Context, status string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Design{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *adminRepository) CountBookings(ctx context.Context, status string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *adminRepository) CountReportedReviews(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Review{}).Where("is_reported = ?", true).Count(&count).Error
	return count, err
}

func (r *adminRepository) TopDesigners(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_approved = ?", entity.RoleDesigner, true).
		Order("total_bookings desc, average_rating desc").
		Limit(topLimit).
		Find(&users).Error
	return users, err
}

func (r *adminRepository) TopDesigns(ctx context.Context) ([]entity.Design, error) {
	var designs []entity.Design
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.DesignApproved).
		Order("likes_count desc, views_count desc").
		Limit(topLimit).
		Find(&designs).Error
	return designs, err
}
