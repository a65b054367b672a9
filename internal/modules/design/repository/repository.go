package repository

import (
	"context"
	"strings"

	"anoa.com/hennahub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListParams struct {
	// ViewerID also admits the viewer's own designs regardless of status.
	ViewerID   *uuid.UUID
	CategoryID *uuid.UUID
	DesignerID *uuid.UUID
	Search     string
	Order      string
	Limit      int
}

type DesignRepository interface {
	Create(ctx context.Context, design *entity.Design) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Design, error)
	List(ctx context.Context, params ListParams) ([]entity.Design, error)
	AddViews(ctx context.Context, id uuid.UUID, n int) error
	FindCategory(ctx context.Context, idOrSlug string) (*entity.Category, error)

	FindFavorite(ctx context.Context, userID, designID uuid.UUID) (*entity.Favorite, error)
	CreateFavorite(ctx context.Context, favorite *entity.Favorite) error
	DeleteFavorite(ctx context.Context, favorite *entity.Favorite) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error)
}

type designRepository struct {
	db *gorm.DB
}

func NewDesignRepository(db *gorm.DB) DesignRepository {
	return &designRepository{db: db}
}

func (r *designRepository) Create(ctx context.Context, design *entity.Design) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(design).Error
}

func (r *designRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Design, error) {
	var design entity.Design
	err := r.db.WithContext(ctx).
		Preload("Designer").
		Preload("Category").
		First(&design, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &design, nil
}

func (r *designRepository) List(ctx context.Context, params ListParams) ([]entity.Design, error) {
	q := r.db.WithContext(ctx).Model(&entity.Design{})

	if params.ViewerID != nil {
		q = q.Where("status = ? OR designer_id = ?", entity.DesignApproved, *params.ViewerID)
	} else {
		q = q.Where("status = ?", entity.DesignApproved)
	}
	if params.CategoryID != nil {
		q = q.Where("category_id = ?", *params.CategoryID)
	}
	if params.DesignerID != nil {
		q = q.Where("designer_id = ?", *params.DesignerID)
	}
	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?", like, like, like)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}

	var designs []entity.Design
	err := q.Preload("Designer").Preload("Category").Order(params.Order).Find(&designs).Error
	return designs, err
}

func (r *designRepository) AddViews(ctx context.Context, id uuid.UUID, n int) error {
	return r.db.WithContext(ctx).Model(&entity.Design{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", n)).Error
}

func (r *designRepository) FindCategory(ctx context.Context, idOrSlug string) (*entity.Category, error) {
	var category entity.Category
	q := r.db.WithContext(ctx)
	if id, err := uuid.Parse(idOrSlug); err == nil {
		q = q.Where("id = ?", id)
	} else {
		q = q.Where("slug = ?", idOrSlug)
	}
	if err := q.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *designRepository) FindFavorite(ctx context.Context, userID, designID uuid.UUID) (*entity.Favorite, error) {
	var favorites []entity.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND design_id = ?", userID, designID).
		Limit(1).
		Find(&favorites).Error
	if err != nil || len(favorites) == 0 {
		return nil, err
	}
	return &favorites[0], nil
}

func (r *designRepository) CreateFavorite(ctx context.Context, favorite *entity.Favorite) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(favorite).Error
}

func (r *designRepository) DeleteFavorite(ctx context.Context, favorite *entity.Favorite) error {
	return r.db.WithContext(ctx).Delete(favorite).Error
}

func (r *designRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]entity.Favorite, error) {
	var favorites []entity.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Design").
		Preload("Design.Designer").
		Order("created_at desc").
		Find(&favorites).Error
	return favorites, err
}
