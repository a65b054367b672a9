package repository

import (
	"context"
	"strings"

	"anoa.com/hennahub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindAll(ctx context.Context, filter string) ([]*entity.Category, error)
	CountApprovedDesigns(ctx context.Context) (map[uuid.UUID]int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context, filter string) ([]*entity.Category, error) {
	var categories []*entity.Category
	query := r.db.WithContext(ctx)

	if filter != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter)+"%")
	}

	if err := query.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) CountApprovedDesigns(ctx context.Context) (map[uuid.UUID]int64, error) {
	type result struct {
		CategoryID uuid.UUID
		Count      int64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Model(&entity.Design{}).
		Select("category_id, count(*) as count").
		Where("status = ? AND category_id IS NOT NULL", entity.DesignApproved).
		Group("category_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(results))
	for _, res := range results {
		counts[res.CategoryID] = res.Count
	}
	return counts, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id).Error
}
