package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/config"
	"github.com/magabrotheeeer/account-service/internal/models"
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
	ctx := context.Background()

	expected := models.UserInfo{ID: "uid-1", Name: "Ada Lovelace", Email: "ada@x.com", RoleID: "role-1"}
	err := cache.Set(ctx, "user:uid-1", expected, time.Minute)
	require.NoError(t, err)

	var actual models.UserInfo
	found, err := cache.Get(ctx, "user:uid-1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out models.UserInfo
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "user:uid-1", models.UserInfo{ID: "uid-1"}, time.Minute))
	require.NoError(t, cache.Invalidate(ctx, "user:uid-1"))

	var out models.UserInfo
	found, err := cache.Get(ctx, "user:uid-1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
