// Package caching implements the read-through cache in front of the photo
// store and the generation scheme that invalidates every cached listing page
// with a single counter increment.
//
// Cached listing pages are keyed by the generation they were built in. A write
// that changes listing membership bumps the generation, so later reads compute
// keys nobody has written yet and fall through to the store. Orphaned pages
// expire on their own TTL. Single photos are invalidated by deleting their key.
//
// The cache is an accelerator only: every failure is logged and treated as a
// miss, never returned to callers.
package caching

import (
	"context"
	"strconv"
	"strings"
	"time"

	"photoshare/application/ports"

	"go.uber.org/zap"
)

// Outcome classifies the result of a cache lookup
type Outcome string

const (
	OutcomeHit      Outcome = "hit"
	OutcomeMiss     Outcome = "miss"
	OutcomeDegraded Outcome = "degraded"
)

// Scheme wraps a Cache with the generation and invalidation rules
type Scheme struct {
	cache   ports.Cache
	logger  *zap.Logger
	metrics ports.CacheMetrics
}

// NewScheme creates a Scheme. metrics may be nil.
func NewScheme(cache ports.Cache, logger *zap.Logger, metrics ports.CacheMetrics) *Scheme {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheme{
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

// CurrentGeneration returns the generation listing keys are built with. An
// absent counter is initialized to 1 with set-if-absent, so concurrent first
// readers agree on the value. Never returns less than 1; returns 1 when the
// cache is unavailable.
func (s *Scheme) CurrentGeneration(ctx context.Context, collection string) int64 {
	key := GenerationKey(collection)

	gen, found, err := s.readGeneration(ctx, key)
	if err != nil {
		s.degraded(ctx, key, "read generation", err)
		return 1
	}
	if found {
		return gen
	}

	if _, err := s.cache.SetNX(ctx, key, []byte("1")); err != nil {
		s.degraded(ctx, key, "initialize generation", err)
		return 1
	}

	gen, found, err = s.readGeneration(ctx, key)
	if err != nil {
		s.degraded(ctx, key, "re-read generation", err)
		return 1
	}
	if !found {
		return 1
	}
	return gen
}

// BumpGeneration advances the collection generation so that listing pages
// cached under earlier generations are never read again. Failures are logged
// and swallowed; the stale pages then live until their TTL runs out.
func (s *Scheme) BumpGeneration(ctx context.Context, collection string) {
	key := GenerationKey(collection)

	// Initialize first so a missing counter ends at 2, strictly above the 1
	// that readers assume while it is absent.
	if _, err := s.cache.SetNX(ctx, key, []byte("1")); err != nil {
		s.degraded(ctx, key, "initialize generation before bump", err)
		return
	}

	gen, err := s.cache.Incr(ctx, key)
	if err != nil {
		s.degraded(ctx, key, "bump generation", err)
		return
	}

	s.logger.Debug("Cache generation bumped",
		zap.String("collection", collection),
		zap.Int64("generation", gen),
	)
}

// PointInvalidate removes a single cached entry, best effort
func (s *Scheme) PointInvalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.degraded(ctx, key, "invalidate", err)
	}
}

// lookup reads a key and classifies the outcome
func (s *Scheme) lookup(ctx context.Context, key string) ([]byte, Outcome) {
	data, found, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.degraded(ctx, key, "get", err)
		return nil, OutcomeDegraded
	case !found:
		s.record(ctx, key, OutcomeMiss)
		return nil, OutcomeMiss
	default:
		s.record(ctx, key, OutcomeHit)
		return data, OutcomeHit
	}
}

// store writes a key, best effort
func (s *Scheme) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.degraded(ctx, key, "set", err)
	}
}

func (s *Scheme) readGeneration(ctx context.Context, key string) (int64, bool, error) {
	data, found, err := s.cache.Get(ctx, key)
	if err != nil || !found {
		return 0, found, err
	}

	gen, perr := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if perr != nil {
		s.logger.Warn("Unparsable cache generation, using 1",
			zap.String("key", key),
			zap.ByteString("value", data),
		)
		return 1, true, nil
	}
	if gen < 1 {
		return 1, true, nil
	}
	return gen, true, nil
}

func (s *Scheme) degraded(ctx context.Context, key, op string, err error) {
	s.logger.Warn("Cache unavailable, continuing without it",
		zap.String("operation", op),
		zap.String("key", key),
		zap.Error(err),
	)
	s.record(ctx, key, OutcomeDegraded)
}

func (s *Scheme) record(ctx context.Context, key string, outcome Outcome) {
	if s.metrics != nil {
		s.metrics.RecordCacheOutcome(ctx, keyspace(key), string(outcome))
	}
}
