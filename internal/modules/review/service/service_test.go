package service

import (
	"context"
	"testing"
	"time"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/event"
	notifRepo "anoa.com/hennahub/internal/modules/notification/repository"
	notification "anoa.com/hennahub/internal/modules/notification/service"
	"anoa.com/hennahub/internal/modules/review/dto"
	reviewRepo "anoa.com/hennahub/internal/modules/review/repository"
	userRepo "anoa.com/hennahub/internal/modules/user/repository"
	"anoa.com/hennahub/internal/testutil"
	"anoa.com/hennahub/pkg/apperror"
	"anoa.com/hennahub/pkg/database"
	"anoa.com/hennahub/pkg/ratelimiter"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T, limiter *ratelimiter.Limiter) (*gorm.DB, ReviewService) {
	t.Helper()
	db := testutil.NewDB(t)
	dispatcher := notification.NewDispatcher(notifRepo.NewNotificationRepository(db), nil)
	svc := NewReviewService(
		reviewRepo.NewReviewRepository(db),
		userRepo.NewUserRepository(db),
		database.NewTxManager(db),
		dispatcher,
		limiter,
		30*time.Second,
	)
	return db, svc
}

func TestCreateReviewUpdatesRatingAndNotifies(t *testing.T) {
	db, svc := newService(t, nil)
	ctx := context.Background()
	designer := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)
	first := testutil.CreateUser(t, db, entity.RoleCustomer)
	second := testutil.CreateUser(t, db, entity.RoleCustomer)

	r, err := svc.CreateReview(ctx, first.Actor(), designer.ID, dto.CreateReviewRequest{Rating: 5, Comment: "<i>Gorgeous</i> work"})
	require.NoError(t, err)
	assert.Equal(t, "Gorgeous work", r.Comment)
	assert.True(t, r.IsApproved)

	_, err = svc.CreateReview(ctx, second.Actor(), designer.ID, dto.CreateReviewRequest{Rating: 2, Comment: "Late"})
	require.NoError(t, err)

	assert.InDelta(t, 3.5, testutil.Reload[entity.User](t, db, designer.ID).AverageRating, 0.001)

	var notes []entity.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", designer.ID, string(event.ReviewReceived)).Find(&notes).Error)
	assert.Len(t, notes, 2)
}

func TestCreateReviewRules(t *testing.T) {
	db, svc := newService(t, nil)
	ctx := context.Background()
	designer := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)
	customer := testutil.CreateUser(t, db, entity.RoleCustomer)
	other := testutil.CreateUser(t, db, entity.RoleCustomer)

	ok := dto.CreateReviewRequest{Rating: 4, Comment: "Nice"}

	_, err := svc.CreateReview(ctx, designer.Actor(), designer.ID, ok)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.CreateReview(ctx, customer.Actor(), other.ID, ok)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.CreateReview(ctx, customer.Actor(), uuid.New(), ok)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.CreateReview(ctx, customer.Actor(), designer.ID, dto.CreateReviewRequest{Rating: 6, Comment: "x"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.CreateReview(ctx, customer.Actor(), designer.ID, dto.CreateReviewRequest{Rating: 3, Comment: "<script></script>"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.CreateReview(ctx, customer.Actor(), designer.ID, ok)
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, customer.Actor(), designer.ID, ok)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestCreateReviewRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db, svc := newService(t, ratelimiter.New(rdb))
	ctx := context.Background()
	a := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)
	b := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)
	customer := testutil.CreateUser(t, db, entity.RoleCustomer)

	_, err := svc.CreateReview(ctx, customer.Actor(), a.ID, dto.CreateReviewRequest{Rating: 5, Comment: "Great"})
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, customer.Actor(), b.ID, dto.CreateReviewRequest{Rating: 5, Comment: "Great"})
	var rlErr *ratelimiter.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Greater(t, rlErr.RetryAfter, time.Duration(0))
}

func TestRespondAndReport(t *testing.T) {
	db, svc := newService(t, nil)
	ctx := context.Background()
	designer := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)
	otherDesigner := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)
	customer := testutil.CreateUser(t, db, entity.RoleCustomer)
	review := testutil.CreateReview(t, db, customer.ID, designer.ID, 4)

	_, err := svc.Respond(ctx, otherDesigner.Actor(), review.ID, "Thanks")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	got, err := svc.Respond(ctx, designer.Actor(), review.ID, "Thank you!")
	require.NoError(t, err)
	require.NotNil(t, got.DesignerResponse)
	assert.Equal(t, "Thank you!", *got.DesignerResponse)
	assert.NotNil(t, got.ResponseDate)

	require.NoError(t, svc.Report(ctx, designer.Actor(), review.ID, "abusive language"))
	reloaded := testutil.Reload[entity.Review](t, db, review.ID)
	assert.True(t, reloaded.IsReported)
	require.NotNil(t, reloaded.ReportReason)
	assert.Equal(t, "abusive language", *reloaded.ReportReason)
	assert.True(t, reloaded.IsApproved)

	assert.ErrorIs(t, svc.Report(ctx, designer.Actor(), uuid.New(), "x"), apperror.ErrNotFound)
}

func TestListReviewsHidesUnapproved(t *testing.T) {
	db, svc := newService(t, nil)
	designer := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)
	visible := testutil.CreateReview(t, db, testutil.CreateUser(t, db, entity.RoleCustomer).ID, designer.ID, 5)
	hidden := testutil.CreateReview(t, db, testutil.CreateUser(t, db, entity.RoleCustomer).ID, designer.ID, 1)
	require.NoError(t, db.Model(hidden).UpdateColumn("is_approved", false).Error)

	reviews, err := svc.ListReviews(context.Background(), designer.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, visible.ID, reviews[0].ID)
	require.NotNil(t, reviews[0].Customer)
}
