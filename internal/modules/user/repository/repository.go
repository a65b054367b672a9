package repository

import (
	"context"
	"strings"

	"anoa.com/hennahub/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListDesigners(ctx context.Context, search, order string) ([]entity.User, error)
	FindApprovedDesigner(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

func (r *userRepository) approvedDesigners(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("role = ? AND is_approved = ?", entity.RoleDesigner, true)
}

func (r *userRepository) ListDesigners(ctx context.Context, search, order string) ([]entity.User, error) {
	q := r.approvedDesigners(ctx)
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(specialization) LIKE ? OR LOWER(location) LIKE ?",
			like, like, like, like, like,
		)
	}

	var designers []entity.User
	err := q.Order(order).Find(&designers).Error
	return designers, err
}

func (r *userRepository) FindApprovedDesigner(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.approvedDesigners(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
