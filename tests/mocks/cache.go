package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"photoshare/application/ports"
)

// ErrCacheDown is returned by FlakyCache while it is down
var ErrCacheDown = errors.New("cache: connection refused")

// FlakyCache wraps a cache and fails every call while it is down
type FlakyCache struct {
	Inner ports.Cache

	mu   sync.Mutex
	down bool
}

// NewFlakyCache wraps inner
func NewFlakyCache(inner ports.Cache) *FlakyCache {
	return &FlakyCache{Inner: inner}
}

// SetDown switches the simulated outage on or off
func (f *FlakyCache) SetDown(down bool) {
	f.mu.Lock()
	f.down = down
	f.mu.Unlock()
}

func (f *FlakyCache) isDown() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.down
}

func (f *FlakyCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.isDown() {
		return nil, false, ErrCacheDown
	}
	return f.Inner.Get(ctx, key)
}

func (f *FlakyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if f.isDown() {
		return ErrCacheDown
	}
	return f.Inner.Set(ctx, key, value, ttl)
}

func (f *FlakyCache) Delete(ctx context.Context, key string) error {
	if f.isDown() {
		return ErrCacheDown
	}
	return f.Inner.Delete(ctx, key)
}

func (f *FlakyCache) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	if f.isDown() {
		return false, ErrCacheDown
	}
	return f.Inner.SetNX(ctx, key, value)
}

func (f *FlakyCache) Incr(ctx context.Context, key string) (int64, error) {
	if f.isDown() {
		return 0, ErrCacheDown
	}
	return f.Inner.Incr(ctx, key)
}
