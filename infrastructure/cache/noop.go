package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotInteger is returned by Incr when the stored value is not a number
var ErrNotInteger = errors.New("cache value is not an integer")

// NoopCache never stores anything. Every read misses, so all requests are
// served from the store.
type NoopCache struct{}

// NewNoopCache creates a cache that is always empty
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (NoopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, string) error { return nil }
func (NoopCache) SetNX(context.Context, string, []byte) (bool, error) { return true, nil }
func (NoopCache) Incr(context.Context, string) (int64, error) { return 1, nil }
