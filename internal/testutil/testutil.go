// Package testutil wires an in-memory sqlite database and seed helpers for
// service and handler tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"anoa.com/hennahub/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens an isolated in-memory sqlite database with the full schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection: sqlite shared-cache tables lock across connections
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(entity.All()...))
	return db
}

type UserOption func(*entity.User)

func Approved(u *entity.User) { u.IsApproved = true }

func Superuser(u *entity.User) { u.IsSuperuser = true }

func WithPasswordHash(hash string) UserOption {
	return func(u *entity.User) { u.PasswordHash = hash }
}

// CreateUser inserts a user with the given role. Customers and admins are
// approved by default, designers are not.
func CreateUser(t *testing.T, db *gorm.DB, role string, opts ...UserOption) *entity.User {
	t.Helper()

	short := uuid.NewString()[:8]
	u := &entity.User{
		Username:     role + "_" + short,
		Email:        role + "_" + short + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsApproved:   role != entity.RoleDesigner,
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateDesign(t *testing.T, db *gorm.DB, designerID uuid.UUID, status string) *entity.Design {
	t.Helper()

	d := &entity.Design{
		DesignerID: designerID,
		Title:      "Design " + uuid.NewString()[:8],
		ImageURL:   "https://res.cloudinary.com/demo/image/upload/d.webp",
		Status:     status,
	}
	require.NoError(t, db.Create(d).Error)
	return d
}

func CreateBooking(t *testing.T, db *gorm.DB, customerID, designerID uuid.UUID, status string) *entity.Booking {
	t.Helper()

	b := &entity.Booking{
		CustomerID:    customerID,
		DesignerID:    designerID,
		StartsAt:      time.Now().UTC().Add(48 * time.Hour).Truncate(time.Minute),
		DurationHours: 2,
		EventType:     "Wedding",
		Location:      "Lahore",
		Status:        status,
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func CreateReview(t *testing.T, db *gorm.DB, customerID, designerID uuid.UUID, rating int) *entity.Review {
	t.Helper()

	r := &entity.Review{
		CustomerID: customerID,
		DesignerID: designerID,
		Rating:     rating,
		Comment:    "Beautiful work",
		IsApproved: true,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

// Reload re-reads dest by primary key.
func Reload[T any](t *testing.T, db *gorm.DB, id uuid.UUID) *T {
	t.Helper()

	var out T
	require.NoError(t, db.First(&out, "id = ?", id).Error)
	return &out
}
