package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	store, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	key := "test_key"
	value := []byte("test_value")

	err = store.Set(ctx, key, value, 10*time.Second)
	assert.NoError(t, err)

	retrieved, err := store.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, value, retrieved)
}

func TestRedisStore_GetNotFound(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	store, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	_, err = store.Get(ctx, "non_existent_key")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisStore_Delete(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	store, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	key := "delete_test"
	err = store.Set(ctx, key, []byte("value"), 0)
	require.NoError(t, err)

	err = store.Delete(ctx, key)
	assert.NoError(t, err)

	_, err = store.Get(ctx, key)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	store, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	key := "ttl_test"
	err = store.Set(ctx, key, []byte("expires_soon"), 1*time.Second)
	require.NoError(t, err)

	_, err = store.Get(ctx, key)
	assert.NoError(t, err)

	// Fast forward time in miniredis
	mr.FastForward(2 * time.Second)

	_, err = store.Get(ctx, key)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisStore_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	store, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
}

func TestRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore("invalid://url")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
