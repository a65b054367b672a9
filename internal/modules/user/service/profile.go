package service

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/logger"
	"anoa.com/hennahub/internal/modules/user/dto"
	"anoa.com/hennahub/internal/modules/user/repository"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/storage"
	"github.com/google/uuid"
)

const profileFolder = "profiles"

type UserService interface {
	GetProfile(ctx context.Context, actor entity.Actor) (*entity.User, error)
	UpdateProfile(ctx context.Context, actor entity.Actor, input dto.UpdateProfileInput, picture *storage.ImageFile) (*entity.User, error)
	ListDesigners(ctx context.Context, query dto.DesignerQuery) ([]entity.User, error)
	GetDesigner(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type userService struct {
	repo         repository.UserRepository
	imageStorage storage.ImageStorage
}

func NewUserService(repo repository.UserRepository, imageStorage storage.ImageStorage) UserService {
	return &userService{repo: repo, imageStorage: imageStorage}
}

var designerOrdering = map[string]string{
	"":                     "average_rating desc",
	"-average_rating":      "average_rating desc",
	"average_rating":       "average_rating asc",
	"-years_of_experience": "years_of_experience desc",
	"years_of_experience":  "years_of_experience asc",
	"-total_bookings":      "total_bookings desc",
	"username":             "username asc",
}

func (s *userService) GetProfile(ctx context.Context, actor entity.Actor) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.FromRepo(err, "user")
	}
	return user, nil
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *userService) UpdateProfile(ctx context.Context, actor entity.Actor, input dto.UpdateProfileInput, picture *storage.ImageFile) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.FromRepo(err, "user")
	}

	if input.HasDesignerFields() && !user.IsDesigner() {
		return nil, fmt.Errorf("designer fields can only be set by designers: %w", apperror.ErrInvalidInput)
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		user.Phone = normalizeOptional(input.Phone)
	}
	if input.Bio != nil {
		user.Bio = normalizeOptional(input.Bio)
	}
	if input.Location != nil {
		user.Location = normalizeOptional(input.Location)
	}
	if input.YearsOfExperience != nil {
		user.YearsOfExperience = *input.YearsOfExperience
	}
	if input.Specialization != nil {
		user.Specialization = normalizeOptional(input.Specialization)
	}
	if input.PortfolioURL != nil {
		user.PortfolioURL = normalizeOptional(input.PortfolioURL)
	}

	var oldPicture string
	if picture != nil && picture.Reader != nil {
		if err := storage.CheckImageName(picture.FileName); err != nil {
			return nil, err
		}
		url, err := s.imageStorage.UploadImage(ctx, picture.Reader, profileFolder, picture.FileName)
		if err != nil {
			return nil, err
		}
		if user.ProfilePictureURL != nil {
			oldPicture = *user.ProfilePictureURL
		}
		user.ProfilePictureURL = &url
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperror.Store(err)
	}

	if oldPicture != "" {
		if err := s.imageStorage.DeleteImage(ctx, oldPicture); err != nil {
			logger.Warn("old profile picture not deleted", "url", oldPicture, "error", err)
		}
	}
	return user, nil
}

func (s *userService) ListDesigners(ctx context.Context, query dto.DesignerQuery) ([]entity.User, error) {
	order, ok := designerOrdering[query.Ordering]
	if !ok {
		return nil, fmt.Errorf("unsupported ordering %q: %w", query.Ordering, apperror.ErrInvalidInput)
	}

	designers, err := s.repo.ListDesigners(ctx, strings.TrimSpace(query.Search), order)
	if err != nil {
		return nil, apperror.Store(err)
	}
	return designers, nil
}

func (s *userService) GetDesigner(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	designer, err := s.repo.FindApprovedDesigner(ctx, id)
	if err != nil {
		return nil, apperror.FromRepo(err, "designer")
	}
	return designer, nil
}
