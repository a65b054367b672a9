package bootstrap

import (
	"context"
	"testing"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdminUserIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	require.NoError(t, SeedAdminUser(ctx, db, "Admin@Example.com", "s3cret-pass"))
	require.NoError(t, SeedAdminUser(ctx, db, "admin@example.com", "other-pass"))

	var admins []entity.User
	require.NoError(t, db.Where("role = ?", entity.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)

	admin := admins[0]
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.True(t, admin.IsSuperuser)
	assert.True(t, admin.Actor().IsAdmin())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("s3cret-pass")))
}
