package category

import (
	"context"
	"testing"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/modules/category/dto"
	"anoa.com/hennahub/internal/modules/category/repository"
	"anoa.com/hennahub/internal/testutil"
	"anoa.com/hennahub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "arabic-bridal", Slugify("  Arabic   Bridal "))
}

func TestCategoryLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCategoryService(repository.NewCategoryRepository(db))
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, entity.RoleAdmin)
	designer := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)

	_, err := svc.CreateCategory(ctx, designer.Actor(), dto.CreateCategoryRequest{Name: "Bridal"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	created, err := svc.CreateCategory(ctx, admin.Actor(), dto.CreateCategoryRequest{Name: "Arabic Bridal", Icon: "star"})
	require.NoError(t, err)
	assert.Equal(t, "arabic-bridal", created.Slug)

	_, err = svc.CreateCategory(ctx, admin.Actor(), dto.CreateCategoryRequest{Name: "arabic bridal"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	design := testutil.CreateDesign(t, db, designer.ID, entity.DesignApproved)
	require.NoError(t, db.Model(design).Update("category_id", created.ID).Error)
	pending := testutil.CreateDesign(t, db, designer.ID, entity.DesignPending)
	require.NoError(t, db.Model(pending).Update("category_id", created.ID).Error)

	list, err := svc.GetAllCategories(ctx, dto.CategoryFilter{Search: "arab"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].DesignCount)

	assert.ErrorIs(t, svc.DeleteCategory(ctx, admin.Actor(), uuid.New()), apperror.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCategory(ctx, designer.Actor(), created.ID), apperror.ErrForbidden)
	require.NoError(t, svc.DeleteCategory(ctx, admin.Actor(), created.ID))
}
