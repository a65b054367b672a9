package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/modules/user/dto"
	"anoa.com/hennahub/internal/modules/user/repository"
	"anoa.com/hennahub/internal/testutil"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/storage"
	"anoa.com/hennahub/pkg/token"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) UploadImage(_ context.Context, _ io.Reader, folder, fileName string) (string, error) {
	url := "https://res.cloudinary.com/demo/image/upload/v1/" + folder + "/" + fileName
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeStorage) DeleteImage(_ context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return nil
}

func registerInput(username, role string) dto.RegisterInput {
	return dto.RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "supersecret",
		Password2: "supersecret",
		Role:      role,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.NewDB(t)
	issuer := token.NewIssuer("secret", time.Hour)
	svc := NewAuthService(repository.NewUserRepository(db), issuer)
	ctx := context.Background()

	res, err := svc.Register(ctx, registerInput("amna", entity.RoleDesigner))
	require.NoError(t, err)
	assert.False(t, res.User.IsApproved)
	assert.NotEmpty(t, res.AccessToken)
	assert.Contains(t, res.Message, "pending approval")

	actor, err := issuer.Parse(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, actor.UserID)
	assert.Equal(t, entity.RoleDesigner, actor.Role)

	customer, err := svc.Register(ctx, registerInput("bilal", entity.RoleCustomer))
	require.NoError(t, err)
	assert.True(t, customer.User.IsApproved)

	_, err = svc.Login(ctx, dto.LoginInput{Username: "amna", Password: "supersecret"})
	assert.NoError(t, err)
	_, err = svc.Login(ctx, dto.LoginInput{Username: "AMNA@example.com", Password: "supersecret"})
	assert.NoError(t, err)
	_, err = svc.Login(ctx, dto.LoginInput{Username: "amna", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = svc.Login(ctx, dto.LoginInput{Username: "nobody", Password: "supersecret"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRegisterRejectsDuplicatesAndMismatch(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), token.NewIssuer("secret", time.Hour))
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("sana", entity.RoleCustomer))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput("sana", entity.RoleCustomer))
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	dupEmail := registerInput("sana2", entity.RoleCustomer)
	dupEmail.Email = "SANA@example.com"
	_, err = svc.Register(ctx, dupEmail)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	mismatch := registerInput("zara", entity.RoleCustomer)
	mismatch.Password2 = "different1"
	_, err = svc.Register(ctx, mismatch)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewDB(t)
	images := &fakeStorage{}
	svc := NewUserService(repository.NewUserRepository(db), images)
	ctx := context.Background()

	customer := testutil.CreateUser(t, db, entity.RoleCustomer)
	designer := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)

	bio := "  Bridal henna artist  "
	years := 6
	updated, err := svc.UpdateProfile(ctx, designer.Actor(), dto.UpdateProfileInput{Bio: &bio, YearsOfExperience: &years}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "Bridal henna artist", *updated.Bio)
	assert.Equal(t, 6, testutil.Reload[entity.User](t, db, designer.ID).YearsOfExperience)

	_, err = svc.UpdateProfile(ctx, customer.Actor(), dto.UpdateProfileInput{YearsOfExperience: &years}, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	pic := &storage.ImageFile{Reader: strings.NewReader("img"), FileName: "me.png"}
	updated, err = svc.UpdateProfile(ctx, customer.Actor(), dto.UpdateProfileInput{}, pic)
	require.NoError(t, err)
	require.NotNil(t, updated.ProfilePictureURL)
	first := *updated.ProfilePictureURL

	pic = &storage.ImageFile{Reader: strings.NewReader("img"), FileName: "me2.png"}
	_, err = svc.UpdateProfile(ctx, customer.Actor(), dto.UpdateProfileInput{}, pic)
	require.NoError(t, err)
	assert.Equal(t, []string{first}, images.deleted)

	bad := &storage.ImageFile{Reader: strings.NewReader("x"), FileName: "cv.pdf"}
	_, err = svc.UpdateProfile(ctx, customer.Actor(), dto.UpdateProfileInput{}, bad)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestDesignerDirectory(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(repository.NewUserRepository(db), &fakeStorage{})
	ctx := context.Background()

	top := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)
	require.NoError(t, db.Model(top).Update("average_rating", 4.8).Error)
	other := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)
	require.NoError(t, db.Model(other).Update("average_rating", 3.1).Error)
	pending := testutil.CreateUser(t, db, entity.RoleDesigner)
	testutil.CreateUser(t, db, entity.RoleCustomer)

	list, err := svc.ListDesigners(ctx, dto.DesignerQuery{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, top.ID, list[0].ID)

	list, err = svc.ListDesigners(ctx, dto.DesignerQuery{Search: other.Username})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].ID)

	_, err = svc.ListDesigners(ctx, dto.DesignerQuery{Ordering: "password_hash"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.GetDesigner(ctx, pending.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.GetDesigner(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	got, err := svc.GetDesigner(ctx, top.ID)
	require.NoError(t, err)
	assert.Equal(t, top.Username, got.Username)
}
