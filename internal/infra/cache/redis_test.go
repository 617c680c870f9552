package cache

import (
	"context"
	"testing"
	"time"

	"compliance-service/internal/config"
	"compliance-service/internal/rbac"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(&config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewRedisCache(client, time.Minute)
}

func TestRedisCacheSetGetDelete(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := c.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrCacheMiss)

	storeRole(t, c, userID, "QA_MANAGER")
	assert.Equal(t, "QA_MANAGER", mustGet(t, mr, BuildRoleKey(userID)))

	role, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, rbac.Role("QA_MANAGER"), role)

	require.NoError(t, c.Delete(ctx, userID))
	assert.False(t, mr.Exists(BuildRoleKey(userID)))
}

func TestRedisCacheTTL(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	storeRole(t, c, userID, rbac.NoRole)
	assert.Equal(t, time.Minute, mr.TTL(BuildRoleKey(userID)))

	role, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, rbac.NoRole, role)

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, userID)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCacheGenerationGuardsWrites(t *testing.T) {
	mr, c := setupTestRedis(t)
	ctx := context.Background()
	userID := uuid.New()

	gen, err := c.Generation(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, gen)

	storeRole(t, c, userID, "SUPER_ADMIN")
	require.NoError(t, c.Delete(ctx, userID))
	assert.False(t, mr.Exists(BuildRoleKey(userID)))
	assert.Equal(t, "1", mustGet(t, mr, BuildGenerationKey(userID)))
	assert.Equal(t, generationTTL, mr.TTL(BuildGenerationKey(userID)))

	stored, err := c.SetIfGeneration(ctx, userID, "SUPER_ADMIN", gen)
	require.NoError(t, err)
	assert.False(t, stored)
	assert.False(t, mr.Exists(BuildRoleKey(userID)))

	// Another replica invalidates the user.
	_, err = mr.Incr(BuildGenerationKey(userID), 1)
	require.NoError(t, err)
	stored, err = c.SetIfGeneration(ctx, userID, "VIEWER", 1)
	require.NoError(t, err)
	assert.False(t, stored)

	stored, err = c.SetIfGeneration(ctx, userID, "VIEWER", 2)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, "VIEWER", mustGet(t, mr, BuildRoleKey(userID)))
}

func TestRedisCacheBackendFailure(t *testing.T) {
	mr, c := setupTestRedis(t)
	mr.Close()

	_, err := c.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(&config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}

var (
	_ RoleCache = (*RedisCache)(nil)
	_ RoleCache = (*MemoryCache)(nil)
)
