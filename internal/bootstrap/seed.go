package bootstrap

import (
	"context"
	"strings"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedAdminUser creates the moderation account when no user owns email yet.
func SeedAdminUser(ctx context.Context, db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := db.WithContext(ctx).Model(&entity.User{}).
		Where("LOWER(email) = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Debug("admin user already exists, skipping seed", "email", email)
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
		FirstName:    "Administrator",
		Role:         entity.RoleAdmin,
		IsSuperuser:  true,
	}

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(&adminUser).Error; err != nil {
		return err
	}

	logger.Info("admin user seeded", "email", email)
	return nil
}
