package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
)

// RedisConfig configures the connection pool
type RedisConfig struct {
	Address        string
	Password       string
	UseTLS         bool
	ConnectTimeout time.Duration
	MaxIdle        int
	MaxActive      int
	IdleTimeout    time.Duration
}

// NewRedisPool builds a pool that dials lazily: no connection is attempted
// until the first command, and connections are reused afterwards.
func NewRedisPool(cfg RedisConfig) *redis.Pool {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = 10
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 240 * time.Second
	}

	opts := []redis.DialOption{
		redis.DialConnectTimeout(cfg.ConnectTimeout),
		redis.DialReadTimeout(cfg.ConnectTimeout),
		redis.DialWriteTimeout(cfg.ConnectTimeout),
	}
	if cfg.Password != "" {
		opts = append(opts, redis.DialPassword(cfg.Password))
	}
	if cfg.UseTLS {
		opts = append(opts, redis.DialUseTLS(true))
	}

	return &redis.Pool{
		MaxIdle:     cfg.MaxIdle,
		MaxActive:   cfg.MaxActive,
		IdleTimeout: cfg.IdleTimeout,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", cfg.Address, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

// RedisCache implements ports.Cache on a redigo connection pool
type RedisCache struct {
	pool   *redis.Pool
	logger *zap.Logger
}

// NewRedisCache creates a cache over an existing pool
func NewRedisCache(pool *redis.Pool, logger *zap.Logger) *RedisCache {
	return &RedisCache{pool: pool, logger: logger}
}

func (c *RedisCache) do(ctx context.Context, cmd string, args ...interface{}) (interface{}, error) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	defer conn.Close()

	reply, err := conn.Do(cmd, args...)
	if err != nil && !errors.Is(err, redis.ErrNil) {
		return reply, fmt.Errorf("redis %s: %w", cmd, err)
	}
	return reply, err
}

// Get returns the bytes stored under key
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := redis.Bytes(c.do(ctx, "GET", key))
	switch {
	case errors.Is(err, redis.ErrNil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return data, true, nil
}

// Set stores value, with an expiry when ttl is at least one second
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var err error
	if secs := int64(ttl / time.Second); secs > 0 {
		_, err = c.do(ctx, "SETEX", key, secs, value)
	} else {
		_, err = c.do(ctx, "SET", key, value)
	}
	return err
}

// Delete removes key
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	_, err := c.do(ctx, "DEL", key)
	return err
}

// SetNX stores value only when key is absent
func (c *RedisCache) SetNX(ctx context.Context, key string, value []byte) (bool, error) {
	_, err := redis.String(c.do(ctx, "SET", key, value, "NX"))
	switch {
	case errors.Is(err, redis.ErrNil):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Incr atomically increments the counter at key
func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return redis.Int64(c.do(ctx, "INCR", key))
}

// Ping checks that the server is reachable
func (c *RedisCache) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "PING")
	return err
}

// Close releases pooled connections
func (c *RedisCache) Close() error {
	return c.pool.Close()
}
