package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/modules/user/dto"
	"anoa.com/hennahub/internal/modules/user/repository"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens *token.Issuer
}

func NewAuthService(repo repository.UserRepository, tokens *token.Issuer) AuthService {
	return &authService{repo: repo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	if input.Password != input.Password2 {
		return nil, fmt.Errorf("passwords don't match: %w", apperror.ErrInvalidInput)
	}
	username := strings.ReplaceAll(strings.TrimSpace(input.Username), " ", "_")
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username already taken: %w", apperror.ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Store(err)
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", apperror.ErrInvalidInput)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Store(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		Phone:        input.Phone,
		// designers wait for admin approval
		IsApproved: input.Role != entity.RoleDesigner,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperror.Store(err)
	}

	res, err := s.buildAuthResponse(user)
	if err != nil {
		return nil, err
	}
	res.Message = "Registration successful"
	if user.IsDesigner() {
		res.Message = "Registration successful. Your designer account is pending approval."
	}
	return res, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	var (
		user *entity.User
		err  error
	)
	if strings.Contains(input.Username, "@") {
		user, err = s.repo.FindByEmail(ctx, input.Username)
	} else {
		user, err = s.repo.FindByUsername(ctx, input.Username)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
		}
		return nil, apperror.Store(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	signed, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
	}, nil
}
