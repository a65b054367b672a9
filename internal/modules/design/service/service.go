package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/modules/design/dto"
	"anoa.com/hennahub/internal/modules/design/repository"
	userRepo "anoa.com/hennahub/internal/modules/user/repository"
	view "anoa.com/hennahub/internal/modules/view/service"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const (
	designFolder  = "designs"
	trendingLimit = 12
)

var designOrdering = map[string]string{
	"":                "created_at desc",
	"-created_at":     "created_at desc",
	"created_at":      "created_at asc",
	"-likes_count":    "likes_count desc",
	"-views_count":    "views_count desc",
	"-dislikes_count": "dislikes_count desc",
}

type DesignService interface {
	CreateDesign(ctx context.Context, actor entity.Actor, req dto.CreateDesignRequest, image *storage.ImageFile) (*entity.Design, error)
	ListDesigns(ctx context.Context, actor *entity.Actor, filter dto.DesignFilter) ([]entity.Design, error)
	GetDesign(ctx context.Context, actor *entity.Actor, id uuid.UUID) (*entity.Design, error)
	Trending(ctx context.Context) ([]entity.Design, error)
	ToggleFavorite(ctx context.Context, actor entity.Actor, designID uuid.UUID) (bool, error)
	ListFavorites(ctx context.Context, actor entity.Actor) ([]entity.Favorite, error)
}

type designService struct {
	repo         repository.DesignRepository
	users        userRepo.UserRepository
	imageStorage storage.ImageStorage
	views        view.ViewCounter
	sanitizer    *bluemonday.Policy
}

func NewDesignService(repo repository.DesignRepository, users userRepo.UserRepository, imageStorage storage.ImageStorage, views view.ViewCounter) DesignService {
	return &designService{
		repo:         repo,
		users:        users,
		imageStorage: imageStorage,
		views:        views,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

func (s *designService) clean(v string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(v))
}

// CreateDesign submits a design for moderation. Only approved designers
// can submit, and the design always starts pending.
func (s *designService) CreateDesign(ctx context.Context, actor entity.Actor, req dto.CreateDesignRequest, image *storage.ImageFile) (*entity.Design, error) {
	if !actor.IsDesigner() {
		return nil, fmt.Errorf("only designers can upload designs: %w", apperror.ErrForbidden)
	}
	designer, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.FromRepo(err, "designer")
	}
	if !designer.IsApproved {
		return nil, fmt.Errorf("designer account is pending approval: %w", apperror.ErrForbidden)
	}

	title := s.clean(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperror.ErrInvalidInput)
	}

	design := &entity.Design{
		DesignerID:  actor.UserID,
		Title:       title,
		Description: s.clean(req.Description),
		Tags:        s.clean(req.Tags),
		PriceRange:  s.clean(req.PriceRange),
		Status:      entity.DesignPending,
	}

	if req.CategoryID != nil {
		if _, err := s.repo.FindCategory(ctx, req.CategoryID.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("category does not exist: %w", apperror.ErrInvalidInput)
			}
			return nil, apperror.Store(err)
		}
		design.CategoryID = req.CategoryID
	}

	switch {
	case image != nil && image.Reader != nil:
		if err := storage.CheckImageName(image.FileName); err != nil {
			return nil, err
		}
		url, err := s.imageStorage.UploadImage(ctx, image.Reader, designFolder, image.FileName)
		if err != nil {
			return nil, err
		}
		design.ImageURL = url
	case req.ImageURL != "":
		design.ImageURL = req.ImageURL
	default:
		return nil, fmt.Errorf("image is required: %w", apperror.ErrInvalidInput)
	}

	if err := s.repo.Create(ctx, design); err != nil {
		return nil, apperror.Store(err)
	}
	return design, nil
}

func (s *designService) ListDesigns(ctx context.Context, actor *entity.Actor, filter dto.DesignFilter) ([]entity.Design, error) {
	order, ok := designOrdering[filter.Ordering]
	if !ok {
		return nil, fmt.Errorf("unsupported ordering %q: %w", filter.Ordering, apperror.ErrInvalidInput)
	}

	params := repository.ListParams{Search: strings.TrimSpace(filter.Search), Order: order}
	if actor != nil && actor.IsDesigner() {
		params.ViewerID = &actor.UserID
	}

	if filter.Category != "" {
		category, err := s.repo.FindCategory(ctx, filter.Category)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []entity.Design{}, nil
		}
		if err != nil {
			return nil, apperror.Store(err)
		}
		params.CategoryID = &category.ID
	}
	if filter.Designer != "" {
		designerID, err := uuid.Parse(filter.Designer)
		if err != nil {
			return nil, fmt.Errorf("invalid designer id: %w", apperror.ErrInvalidInput)
		}
		params.DesignerID = &designerID
	}

	designs, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return designs, nil
}

// GetDesign returns an approved design, or an unapproved one to its owner
// or an admin, and counts the view.
func (s *designService) GetDesign(ctx context.Context, actor *entity.Actor, id uuid.UUID) (*entity.Design, error) {
	design, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.FromRepo(err, "design")
	}

	if !design.VisibleTo(actor) {
		return nil, fmt.Errorf("design not found: %w", apperror.ErrNotFound)
	}

	var viewer string
	if actor != nil {
		viewer = actor.UserID.String()
	}
	counted, err := s.views.RecordView(ctx, id, viewer)
	if err != nil {
		return nil, apperror.Store(err)
	}
	if counted {
		design.ViewsCount++
	}
	return design, nil
}

func (s *designService) Trending(ctx context.Context) ([]entity.Design, error) {
	designs, err := s.repo.List(ctx, repository.ListParams{
		Order: "likes_count desc, views_count desc",
		Limit: trendingLimit,
	})
	if err != nil {
		return nil, apperror.Store(err)
	}
	return designs, nil
}

// ToggleFavorite adds or removes the design from the actor's favorites and
// reports whether it is now a favorite.
func (s *designService) ToggleFavorite(ctx context.Context, actor entity.Actor, designID uuid.UUID) (bool, error) {
	design, err := s.repo.FindByID(ctx, designID)
	if err != nil {
		return false, apperror.FromRepo(err, "design")
	}
	if !design.VisibleTo(&actor) {
		return false, fmt.Errorf("design not found: %w", apperror.ErrNotFound)
	}

	existing, err := s.repo.FindFavorite(ctx, actor.UserID, designID)
	if err != nil {
		return false, apperror.Store(err)
	}
	if existing != nil {
		if err := s.repo.DeleteFavorite(ctx, existing); err != nil {
			return false, apperror.Store(err)
		}
		return false, nil
	}

	if err := s.repo.CreateFavorite(ctx, &entity.Favorite{UserID: actor.UserID, DesignID: designID}); err != nil {
		// a concurrent toggle already added it
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, apperror.Store(err)
	}
	return true, nil
}

func (s *designService) ListFavorites(ctx context.Context, actor entity.Actor) ([]entity.Favorite, error) {
	favorites, err := s.repo.ListFavorites(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return favorites, nil
}
