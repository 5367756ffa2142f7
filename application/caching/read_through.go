package caching

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Loader fetches a value from the authoritative store
type Loader[T any] func(ctx context.Context) (T, error)

// ReadThrough returns the value cached under key, or loads it from the store
// and caches it for ttl. An entry that cannot be decoded counts as a miss.
// Loader errors are returned as-is and nothing is cached for them.
func ReadThrough[T any](ctx context.Context, s *Scheme, key string, ttl time.Duration, load Loader[T]) (T, error) {
	if data, outcome := s.lookup(ctx, key); outcome == OutcomeHit {
		var cached T
		err := json.Unmarshal(data, &cached)
		if err == nil {
			return cached, nil
		}
		s.logger.Warn("Discarding undecodable cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Value not cacheable", zap.String("key", key), zap.Error(err))
		return value, nil
	}
	s.store(ctx, key, data, ttl)

	return value, nil
}
