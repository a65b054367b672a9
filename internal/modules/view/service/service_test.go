package view

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu    sync.Mutex
	views map[uuid.UUID]int
	fail  bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{views: map[uuid.UUID]int{}}
}

func (m *memoryStore) AddViews(_ context.Context, id uuid.UUID, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("database unavailable")
	}
	m.views[id] += n
	return nil
}

func (m *memoryStore) get(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views[id]
}

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func TestRecordViewWithoutRedisWritesThrough(t *testing.T) {
	store := newMemoryStore()
	counter := NewViewCounter(nil, store)
	designID := uuid.New()

	for i := 0; i < 3; i++ {
		counted, err := counter.RecordView(context.Background(), designID, "same-viewer")
		require.NoError(t, err)
		assert.True(t, counted)
	}
	assert.Equal(t, 3, store.get(designID))
}

func TestRecordViewDedupesViewerAndSyncs(t *testing.T) {
	rdb, mr := newRedis(t)
	store := newMemoryStore()
	counter := NewViewCounter(rdb, store).(*viewCounter)
	ctx := context.Background()
	designID := uuid.New()

	counted, err := counter.RecordView(ctx, designID, "viewer-1")
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = counter.RecordView(ctx, designID, "viewer-1")
	require.NoError(t, err)
	assert.False(t, counted, "same viewer within the hour")

	_, err = counter.RecordView(ctx, designID, "viewer-2")
	require.NoError(t, err)
	_, err = counter.RecordView(ctx, designID, "")
	require.NoError(t, err)

	assert.Equal(t, 0, store.get(designID), "buffered until sync")
	assert.Equal(t, 1, counter.syncViewsToDB(ctx))
	assert.Equal(t, 3, store.get(designID))
	assert.False(t, mr.Exists(viewsKey(designID)))

	// Nothing left to flush.
	assert.Equal(t, 0, counter.syncViewsToDB(ctx))

	mr.FastForward(viewerWindow)
	counted, err = counter.RecordView(ctx, designID, "viewer-1")
	require.NoError(t, err)
	assert.True(t, counted)
}

func TestSyncKeepsCountsWhenStoreFails(t *testing.T) {
	rdb, _ := newRedis(t)
	store := newMemoryStore()
	counter := NewViewCounter(rdb, store).(*viewCounter)
	ctx := context.Background()
	designID := uuid.New()

	_, err := counter.RecordView(ctx, designID, "")
	require.NoError(t, err)
	_, err = counter.RecordView(ctx, designID, "")
	require.NoError(t, err)

	store.fail = true
	assert.Equal(t, 0, counter.syncViewsToDB(ctx))

	store.fail = false
	assert.Equal(t, 1, counter.syncViewsToDB(ctx))
	assert.Equal(t, 2, store.get(designID))
}

func TestSyncWorkerFlushesOnCancel(t *testing.T) {
	rdb, _ := newRedis(t)
	store := newMemoryStore()
	counter := NewViewCounter(rdb, store)
	designID := uuid.New()

	_, err := counter.RecordView(context.Background(), designID, "viewer-a")
	require.NoError(t, err)
	assert.Zero(t, store.get(designID))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		counter.StartViewSyncWorker(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.Equal(t, 1, store.get(designID))
}
