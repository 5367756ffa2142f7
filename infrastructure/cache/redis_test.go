package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	c := NewRedisCache(NewRedisPool(RedisConfig{Address: s.Addr(), ConnectTimeout: time.Second}), zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	return s, c
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s, c := newTestRedis(t)

	_, found, err := c.Get(ctx, "photo:1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "photo:1", []byte(`{"id":"1"}`), 300*time.Second))

	data, found, err := c.Get(ctx, "photo:1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"id":"1"}`, string(data))
	assert.Equal(t, 300*time.Second, s.TTL("photo:1"))

	require.NoError(t, c.Delete(ctx, "photo:1"))
	assert.False(t, s.Exists("photo:1"))

	// deleting again is fine
	require.NoError(t, c.Delete(ctx, "photo:1"))
}

func TestRedisCache_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	s, c := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "photos:v1:page:1:limit:20", []byte(`[]`), 60*time.Second))
	s.FastForward(61 * time.Second)

	_, found, err := c.Get(ctx, "photos:v1:page:1:limit:20")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_SetWithoutTTLPersists(t *testing.T) {
	ctx := context.Background()
	s, c := newTestRedis(t)

	require.NoError(t, c.Set(ctx, "photos:version", []byte("3"), 0))
	assert.Equal(t, time.Duration(0), s.TTL("photos:version"))
}

func TestRedisCache_SetNXAndIncr(t *testing.T) {
	ctx := context.Background()
	s, c := newTestRedis(t)

	stored, err := c.SetNX(ctx, "photos:version", []byte("1"))
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = c.SetNX(ctx, "photos:version", []byte("1"))
	require.NoError(t, err)
	assert.False(t, stored)

	n, err := c.Incr(ctx, "photos:version")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	v, err := s.Get("photos:version")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestRedisCache_IncrMissingKeyStartsAtOne(t *testing.T) {
	_, c := newTestRedis(t)

	n, err := c.Incr(context.Background(), "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisCache_ErrorsWhenServerDown(t *testing.T) {
	ctx := context.Background()
	s, c := newTestRedis(t)
	s.Close()

	_, _, err := c.Get(ctx, "photo:1")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "photo:1", []byte("x"), time.Minute))
	assert.Error(t, c.Delete(ctx, "photo:1"))
	_, err = c.SetNX(ctx, "photos:version", []byte("1"))
	assert.Error(t, err)
	_, err = c.Incr(ctx, "photos:version")
	assert.Error(t, err)
}

func TestNewRedisPool_DialsLazily(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	pool := NewRedisPool(RedisConfig{Address: s.Addr()})
	defer pool.Close()
	assert.Equal(t, 0, pool.ActiveCount())

	c := NewRedisCache(pool, zap.NewNop())
	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, 1, pool.IdleCount())
}
