package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

// DistributedRateLimiter counts requests per fixed window in Redis so the
// limit holds across Lambda instances. Errors fail open: the request is
// allowed and the error returned for logging.
type DistributedRateLimiter struct {
	pool      *redis.Pool
	limit     int
	window    time.Duration
	keyPrefix string
	now       func() time.Time
}

// NewDistributedRateLimiter creates a limiter over pool
func NewDistributedRateLimiter(pool *redis.Pool, limit int, window time.Duration, keyPrefix string) *DistributedRateLimiter {
	return &DistributedRateLimiter{
		pool:      pool,
		limit:     limit,
		window:    window,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

func (r *DistributedRateLimiter) windowKey(key string) string {
	windowStart := r.now().Truncate(r.window)
	return fmt.Sprintf("ratelimit:%s:%s:%d", r.keyPrefix, key, windowStart.Unix())
}

// Allow increments the window counter and reports whether it is within the limit
func (r *DistributedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return true, fmt.Errorf("rate limiter error (failing open): %w", err)
	}
	defer conn.Close()

	k := r.windowKey(key)
	count, err := redis.Int(conn.Do("INCR", k))
	if err != nil {
		return true, fmt.Errorf("rate limiter error (failing open): %w", err)
	}
	if count == 1 {
		// the counter outlives its window by one window so late INCRs still expire
		if _, err := conn.Do("PEXPIRE", k, (2 * r.window).Milliseconds()); err != nil {
			return true, fmt.Errorf("rate limiter expiry error: %w", err)
		}
	}
	return count <= r.limit, nil
}

// Reset clears the counter of the current window
func (r *DistributedRateLimiter) Reset(ctx context.Context, key string) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Do("DEL", r.windowKey(key))
	return err
}
