package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig configures the in-process cache
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	MaxTTL             time.Duration
	EvictionPercentage int
}

// DefaultMemoryConfig returns settings suitable for a single local process
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          64,
		MaxTTL:             time.Hour,
		EvictionPercentage: 10,
	}
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache implements ports.Cache inside the process. Entries with a ttl
// live in a sturdyc client; entries without one (generation counters) live in
// a plain map so they are never evicted.
type MemoryCache struct {
	mu         sync.Mutex
	client     *sturdyc.Client[memoryEntry]
	persistent map[string][]byte
	now        func() time.Time
}

// NewMemoryCache creates an in-process cache
func NewMemoryCache(cfg MemoryConfig) *MemoryCache {
	def := DefaultMemoryConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.NumShards <= 0 {
		cfg.NumShards = def.NumShards
	}
	if cfg.MaxTTL <= 0 {
		cfg.MaxTTL = def.MaxTTL
	}
	if cfg.EvictionPercentage <= 0 || cfg.EvictionPercentage > 100 {
		cfg.EvictionPercentage = def.EvictionPercentage
	}

	return &MemoryCache{
		client:     sturdyc.New[memoryEntry](cfg.Capacity, cfg.NumShards, cfg.MaxTTL, cfg.EvictionPercentage),
		persistent: make(map[string][]byte),
		now:        time.Now,
	}
}

// Get returns the bytes stored under key
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.getLocked(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (c *MemoryCache) getLocked(key string) ([]byte, bool) {
	if data, ok := c.persistent[key]; ok {
		return data, true
	}
	entry, ok := c.client.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.client.Delete(key)
		return nil, false
	}
	return entry.data, true
}

// Set stores value; a ttl of zero means no expiry
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setLocked(key, append([]byte(nil), value...), ttl)
	return nil
}

func (c *MemoryCache) setLocked(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		c.client.Delete(key)
		c.persistent[key] = value
		return
	}
	delete(c.persistent, key)
	c.client.Set(key, memoryEntry{data: value, expiresAt: c.now().Add(ttl)})
}

// Delete removes key
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.persistent, key)
	c.client.Delete(key)
	return nil
}

// SetNX stores value without expiry only if key is absent
func (c *MemoryCache) SetNX(_ context.Context, key string, value []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.getLocked(key); ok {
		return false, nil
	}
	c.setLocked(key, append([]byte(nil), value...), 0)
	return true, nil
}

// Incr increments the integer stored at key
func (c *MemoryCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var current int64
	if data, ok := c.getLocked(key); ok {
		n, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
		current = n
	}
	current++
	c.setLocked(key, []byte(strconv.FormatInt(current, 10)), 0)
	return current, nil
}
