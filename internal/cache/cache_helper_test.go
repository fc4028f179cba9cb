package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCacheTest(t *testing.T) *redis.Client {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return client
}

func TestCacheHelperRoundTrip(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(setupCacheTest(t), "course:")

	type record struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	require.NoError(t, helper.Set(ctx, "c-1", record{ID: "c-1", Title: "Databases"}, time.Minute))

	var got record
	require.NoError(t, helper.Get(ctx, "c-1", &got))
	assert.Equal(t, "Databases", got.Title)

	var missing record
	assert.ErrorIs(t, helper.Get(ctx, "c-2", &missing), ErrCacheNotFound)
}

func TestCacheHelperDeleteAndExists(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(setupCacheTest(t), "content:")

	require.NoError(t, helper.SetString(ctx, "a", "1", time.Minute))
	require.NoError(t, helper.SetString(ctx, "b", "2", time.Minute))

	exists, err := helper.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, helper.Delete(ctx, "a", "b"))

	exists, err = helper.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheHelperInvalidatePattern(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(setupCacheTest(t), "enrollment:")

	require.NoError(t, helper.SetString(ctx, "user:u-1:list", "x", time.Minute))
	require.NoError(t, helper.SetString(ctx, "user:u-1:count", "1", time.Minute))
	require.NoError(t, helper.SetString(ctx, "user:u-2:list", "y", time.Minute))

	require.NoError(t, helper.InvalidatePattern(ctx, "user:u-1:*"))

	_, err := helper.GetString(ctx, "user:u-1:list")
	assert.ErrorIs(t, err, ErrCacheNotFound)

	other, err := helper.GetString(ctx, "user:u-2:list")
	require.NoError(t, err)
	assert.Equal(t, "y", other)
}

func TestCacheHelperDegradesWithoutClient(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "fast:")

	assert.NoError(t, helper.Set(ctx, "k", "v", time.Minute))
	assert.ErrorIs(t, helper.Get(ctx, "k", new(string)), ErrCacheNotAvailable)
	assert.NoError(t, helper.Delete(ctx, "k"))
}

func TestCacheManagerHealthCheck(t *testing.T) {
	ctx := context.Background()

	manager := NewCacheManager(setupCacheTest(t))
	assert.NoError(t, manager.HealthCheck(ctx))

	degraded := NewCacheManager(nil)
	assert.ErrorIs(t, degraded.HealthCheck(ctx), ErrCacheNotAvailable)
}
