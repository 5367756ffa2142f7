package caching

import (
	"context"
	"sync"
	"testing"
	"time"

	"photoshare/infrastructure/cache"
	"photoshare/tests/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *countingMetrics) RecordCacheOutcome(_ context.Context, keyspace, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[keyspace+"/"+outcome]++
}

func (m *countingMetrics) get(k string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[k]
}

func newRedisScheme(t *testing.T) (*miniredis.Miniredis, *Scheme) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rc := cache.NewRedisCache(cache.NewRedisPool(cache.RedisConfig{Address: s.Addr(), ConnectTimeout: time.Second}), zap.NewNop())
	t.Cleanup(func() { _ = rc.Close() })
	return s, NewScheme(rc, zap.NewNop(), nil)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "photo:abc", PhotoKey("abc"))
	assert.Equal(t, "photos:v3:page:2:limit:20", PhotoListKey(3, 2, 20))
	assert.Equal(t, "photos:version", GenerationKey(CollectionPhotos))
}

func TestCurrentGeneration_InitializesToOne(t *testing.T) {
	ctx := context.Background()
	s, scheme := newRedisScheme(t)

	assert.Equal(t, int64(1), scheme.CurrentGeneration(ctx, CollectionPhotos))

	v, err := s.Get("photos:version")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	assert.Equal(t, time.Duration(0), s.TTL("photos:version"), "counter has no expiry")
}

func TestCurrentGeneration_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	_, scheme := newRedisScheme(t)

	first := scheme.CurrentGeneration(ctx, CollectionPhotos)
	second := scheme.CurrentGeneration(ctx, CollectionPhotos)
	assert.Equal(t, first, second)
}

func TestCurrentGeneration_ConcurrentFirstReadersAgree(t *testing.T) {
	ctx := context.Background()
	_, scheme := newRedisScheme(t)

	results := make([]int64, 20)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = scheme.CurrentGeneration(ctx, CollectionPhotos)
		}(i)
	}
	wg.Wait()

	for _, g := range results {
		assert.Equal(t, int64(1), g)
	}
}

func TestCurrentGeneration_UnparsableValueFallsBackToOne(t *testing.T) {
	ctx := context.Background()
	s, scheme := newRedisScheme(t)
	require.NoError(t, s.Set("photos:version", "not-a-number"))

	assert.Equal(t, int64(1), scheme.CurrentGeneration(ctx, CollectionPhotos))
}

func TestBumpGeneration_StrictlyIncreases(t *testing.T) {
	ctx := context.Background()
	_, scheme := newRedisScheme(t)

	prev := scheme.CurrentGeneration(ctx, CollectionPhotos)
	for i := 0; i < 5; i++ {
		scheme.BumpGeneration(ctx, CollectionPhotos)
		next := scheme.CurrentGeneration(ctx, CollectionPhotos)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestBumpGeneration_MissingCounterEndsAtTwo(t *testing.T) {
	ctx := context.Background()
	s, scheme := newRedisScheme(t)

	scheme.BumpGeneration(ctx, CollectionPhotos)

	v, err := s.Get("photos:version")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestBumpGeneration_ConcurrentBumpsAreNotLost(t *testing.T) {
	ctx := context.Background()
	_, scheme := newRedisScheme(t)
	start := scheme.CurrentGeneration(ctx, CollectionPhotos)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scheme.BumpGeneration(ctx, CollectionPhotos)
		}()
	}
	wg.Wait()

	assert.Equal(t, start+10, scheme.CurrentGeneration(ctx, CollectionPhotos))
}

func TestPointInvalidate_RemovesKey(t *testing.T) {
	ctx := context.Background()
	s, scheme := newRedisScheme(t)
	require.NoError(t, s.Set("photo:1", `{"id":"1"}`))

	scheme.PointInvalidate(ctx, PhotoKey("1"))

	assert.False(t, s.Exists("photo:1"))
}

func TestScheme_SwallowsOutage(t *testing.T) {
	ctx := context.Background()
	metrics := &countingMetrics{}
	fc := mocks.NewFlakyCache(cache.NewMemoryCache(cache.DefaultMemoryConfig()))
	fc.SetDown(true)
	scheme := NewScheme(fc, zap.NewNop(), metrics)

	assert.Equal(t, int64(1), scheme.CurrentGeneration(ctx, CollectionPhotos))
	assert.NotPanics(t, func() { scheme.BumpGeneration(ctx, CollectionPhotos) })
	assert.NotPanics(t, func() { scheme.PointInvalidate(ctx, PhotoKey("1")) })
	assert.Equal(t, 3, metrics.get("photos/degraded")+metrics.get("photo/degraded"))
}

func TestScheme_GenerationSurvivesRecovery(t *testing.T) {
	ctx := context.Background()
	fc := mocks.NewFlakyCache(cache.NewMemoryCache(cache.DefaultMemoryConfig()))
	scheme := NewScheme(fc, zap.NewNop(), nil)

	scheme.BumpGeneration(ctx, CollectionPhotos)
	scheme.BumpGeneration(ctx, CollectionPhotos)
	require.Equal(t, int64(3), scheme.CurrentGeneration(ctx, CollectionPhotos))

	fc.SetDown(true)
	assert.Equal(t, int64(1), scheme.CurrentGeneration(ctx, CollectionPhotos))

	fc.SetDown(false)
	assert.Equal(t, int64(3), scheme.CurrentGeneration(ctx, CollectionPhotos))
}
