package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/event"
	notifRepo "anoa.com/hennahub/internal/modules/notification/repository"
	"anoa.com/hennahub/internal/testutil"
	"anoa.com/hennahub/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDispatchCreatesUnreadRecords(t *testing.T) {
	db := testutil.NewDB(t)
	repo := notifRepo.NewNotificationRepository(db)
	d := NewDispatcher(repo, nil)
	ctx := context.Background()

	designer := testutil.CreateUser(t, db, entity.RoleDesigner, testutil.Approved)
	customer := testutil.CreateUser(t, db, entity.RoleCustomer)

	var created []entity.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = d.Dispatch(ctx, tx, []event.Event{
			event.NewDesignerApproved(designer.ID),
			event.NewReviewReceived(designer.ID, customer.Username, 5),
		})
		return err
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	var stored []entity.Notification
	require.NoError(t, db.Where("user_id = ?", designer.ID).Order("created_at").Find(&stored).Error)
	require.Len(t, stored, 2)
	for _, n := range stored {
		assert.False(t, n.IsRead)
		assert.False(t, n.IsEmailed)
	}
}

func TestDispatchRollsBackWithTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(notifRepo.NewNotificationRepository(db), nil)
	user := testutil.CreateUser(t, db, entity.RoleDesigner)

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := d.Dispatch(context.Background(), tx, []event.Event{event.NewDesignerApproved(user.ID)}); err != nil {
			return err
		}
		return apperror.ErrConflict
	})
	require.ErrorIs(t, err, apperror.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&entity.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPublishSendsToRecipientChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	n := entity.Notification{ID: uuid.New(), UserID: uuid.New(), Type: string(event.DesignerApproved), Title: "t", Message: "m"}

	sub := rdb.Subscribe(ctx, Channel(n))
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	NewDispatcher(nil, rdb).Publish(ctx, []entity.Notification{n})

	select {
	case msg := <-sub.Channel():
		var got entity.Notification
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, n.ID, got.ID)
		assert.Equal(t, "designer_approved", got.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}

func TestMarkAsReadOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	repo := notifRepo.NewNotificationRepository(db)
	svc := NewNotificationService(repo)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, entity.RoleCustomer)
	other := testutil.CreateUser(t, db, entity.RoleCustomer)
	n := entity.Notification{UserID: owner.ID, Type: "booking_confirmed", Title: "t", Message: "m"}
	require.NoError(t, db.Create(&n).Error)

	err := svc.MarkAsRead(ctx, other.Actor(), n.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.False(t, testutil.Reload[entity.Notification](t, db, n.ID).IsRead)

	require.NoError(t, svc.MarkAsRead(ctx, owner.Actor(), n.ID))
	assert.True(t, testutil.Reload[entity.Notification](t, db, n.ID).IsRead)

	// already read
	require.NoError(t, svc.MarkAsRead(ctx, owner.Actor(), n.ID))

	err = svc.MarkAsRead(ctx, owner.Actor(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUnreadCountAndMarkAll(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNotificationService(notifRepo.NewNotificationRepository(db))
	ctx := context.Background()
	user := testutil.CreateUser(t, db, entity.RoleCustomer)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&entity.Notification{UserID: user.ID, Type: "booking_created", Title: "t", Message: "m"}).Error)
	}

	count, err := svc.UnreadCount(ctx, user.Actor())
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	updated, err := svc.MarkAllAsRead(ctx, user.Actor())
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)

	count, err = svc.UnreadCount(ctx, user.Actor())
	require.NoError(t, err)
	assert.Zero(t, count)

	list, err := svc.GetNotifications(ctx, user.Actor(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
