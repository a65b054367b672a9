package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/modules/category/dto"
	"anoa.com/hennahub/internal/modules/category/repository"
	"anoa.com/hennahub/pkg/apperror"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, actor entity.Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context, filter dto.CategoryFilter) ([]dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, actor entity.Actor, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func (s *categoryService) CreateCategory(ctx context.Context, actor entity.Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("admin access required: %w", apperror.ErrForbidden)
	}

	slug := Slugify(req.Name)
	if slug == "" {
		return nil, fmt.Errorf("category name is required: %w", apperror.ErrInvalidInput)
	}

	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, fmt.Errorf("category with name %s already exists: %w", req.Name, apperror.ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Store(err)
	}

	category := &entity.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Icon:        req.Icon,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, apperror.Store(err)
	}

	return &dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Icon:        category.Icon,
	}, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context, filter dto.CategoryFilter) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx, filter.Search)
	if err != nil {
		return nil, apperror.Store(err)
	}
	counts, err := s.repo.CountApprovedDesigns(ctx)
	if err != nil {
		return nil, apperror.Store(err)
	}

	categoryResponses := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		categoryResponses = append(categoryResponses, dto.CategoryResponse{
			ID:          cat.ID,
			Name:        cat.Name,
			Slug:        cat.Slug,
			Description: cat.Description,
			Icon:        cat.Icon,
			DesignCount: counts[cat.ID],
		})
	}
	return categoryResponses, nil
}

// DeleteCategory leaves the category's designs uncategorised.
func (s *categoryService) DeleteCategory(ctx context.Context, actor entity.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("admin access required: %w", apperror.ErrForbidden)
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperror.FromRepo(err, "category")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Store(err)
	}
	return nil
}
