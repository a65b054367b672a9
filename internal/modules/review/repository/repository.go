package repository

import (
	"context"
	"math"

	"anoa.com/hennahub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	WithTx(tx *gorm.DB) ReviewRepository
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	Exists(ctx context.Context, customerID, designerID uuid.UUID) (bool, error)
	Save(ctx context.Context, review *entity.Review) error
	ListApproved(ctx context.Context, designerID uuid.UUID) ([]entity.Review, error)
	ListReported(ctx context.Context) ([]entity.Review, error)
	// RecomputeAverageRating stores the mean of the designer's approved
	// reviews, rounded to two decimals, on the designer row.
	RecomputeAverageRating(ctx context.Context, designerID uuid.UUID) (float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Exists(ctx context.Context, customerID, designerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Review{}).
		Where("customer_id = ? AND designer_id = ?", customerID, designerID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) Save(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error
}

func (r *reviewRepository) ListApproved(ctx context.Context, designerID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	err := r.db.WithContext(ctx).
		Where("designer_id = ? AND is_approved = ?", designerID, true).
		Preload("Customer").
		Order("created_at desc").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ListReported(ctx context.Context) ([]entity.Review, error) {
	var reviews []entity.Review
	err := r.db.WithContext(ctx).
		Where("is_reported = ?", true).
		Preload("Customer").
		Preload("Designer").
		Order("updated_at desc").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) RecomputeAverageRating(ctx context.Context, designerID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&entity.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("designer_id = ? AND is_approved = ?", designerID, true).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}

	avg = math.Round(avg*100) / 100
	err = r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", designerID).
		UpdateColumn("average_rating", avg).Error
	return avg, err
}
