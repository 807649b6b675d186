package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStore_MissingKey(t *testing.T) {
	store, _ := newTestRedisStore(t)

	history, err := store.GetHistory(context.Background(), "absent")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	err := store.SetHistory(ctx, "k", []int64{100, 101, 102}, time.Minute)
	require.NoError(t, err)

	history, err := store.GetHistory(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 101, 102}, history)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetHistory(ctx, "k", []int64{100}, time.Minute))

	mr.FastForward(2 * time.Minute)

	history, err := store.GetHistory(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetHistory(ctx, "k", []int64{5, 6}, time.Minute))

	history, err := store.GetHistory(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, history)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetHistory(ctx, "k", []int64{5}, -time.Second))

	history, err := store.GetHistory(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStore_CopiesHistory(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := []int64{1, 2, 3}
	require.NoError(t, store.SetHistory(ctx, "k", original, time.Minute))
	original[0] = 99

	history, err := store.GetHistory(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, history)
}

func TestMemoryStore_Reset(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetHistory(ctx, "k", []int64{1}, time.Minute))
	store.Reset("k")

	history, err := store.GetHistory(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, history)
}
