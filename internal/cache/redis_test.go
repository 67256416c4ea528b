package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/todo-saas/internal/config"
	"github.com/magabrotheeeer/todo-saas/internal/models"
)

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	endsAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	expected := models.SubscriptionStatus{IsSubscribed: true, EndsAt: &endsAt}
	err := cache.Set(context.Background(), "subscription:user_1", expected, time.Minute)
	require.NoError(t, err)

	var actual models.SubscriptionStatus
	found, err := cache.Get(context.Background(), "subscription:user_1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out models.SubscriptionStatus
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set(context.Background(), "subscription:user_1",
		models.SubscriptionStatus{IsSubscribed: true}, time.Minute))
	require.NoError(t, cache.Invalidate(context.Background(), "subscription:user_1"))

	var out models.SubscriptionStatus
	found, err := cache.Get(context.Background(), "subscription:user_1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClose(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Close())

	var out models.SubscriptionStatus
	_, err := cache.Get(context.Background(), "any", &out)
	assert.Error(t, err, "closed client should not serve requests")
}
