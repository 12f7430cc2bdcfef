package engine

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Caches are 2-tier: L1 in-memory + optional L2 Redis shared across restarts.
// L1 is capacity-bounded with oldest-inserted-first eviction and no expiry;
// L2 entries carry a TTL because Redis is shared with other consumers.

// redisTTL controls how long L2 entries survive.
var redisTTL = 24 * time.Hour

// Cache metrics, atomic for thread-safe access.
var (
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
)

// l2 is the shared Redis client, nil when L2 is disabled.
var l2 *redis.Client

// InitCache connects the shared L2 tier. redisURL can be empty to disable it.
func InitCache(redisURL string) {
	if redisURL == "" {
		return
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		return
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
		return
	}
	l2 = rdb
	slog.Info("cache: L2 redis connected", slog.String("addr", opts.Addr))
}

// CacheKey builds a deterministic cache key from parts.
func CacheKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("study:%x", hash[:12])
}

// BoundedCache is a concurrency-safe string cache with a hard capacity.
// When full, the oldest-inserted entry is evicted. Each component owns its
// own instance (topic cache, transcript cache); the name namespaces L2 keys.
type BoundedCache struct {
	name string
	cap  int

	mu      sync.Mutex
	entries map[string]string
	order   []string // insertion order, oldest first
}

// NewBoundedCache creates a cache holding at most capacity entries.
func NewBoundedCache(name string, capacity int) *BoundedCache {
	if capacity <= 0 {
		capacity = 100
	}
	return &BoundedCache{
		name:    name,
		cap:     capacity,
		entries: make(map[string]string, capacity),
	}
}

// Get tries L1, then L2. On an L2 hit, L1 is repopulated.
func (c *BoundedCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	val, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		cacheHits.Add(1)
		return val, true
	}

	if l2 != nil {
		data, err := l2.Get(ctx, CacheKey(c.name, key)).Result()
		if err == nil {
			cacheHits.Add(1)
			c.store(key, data)
			return data, true
		}
	}

	cacheMisses.Add(1)
	return "", false
}

// Set stores value in both tiers.
func (c *BoundedCache) Set(ctx context.Context, key, value string) {
	c.store(key, value)

	if l2 != nil {
		if err := l2.Set(ctx, CacheKey(c.name, key), value, redisTTL).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.String("cache", c.name), slog.Any("error", err))
		}
	}
}

// Len returns the current L1 entry count.
func (c *BoundedCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// store inserts into L1, evicting the oldest entry when at capacity.
func (c *BoundedCache) store(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}

	for len(c.entries) >= c.cap && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = value
	c.order = append(c.order, key)
}

// CacheStats returns current cache hit/miss counters.
func CacheStats() (hits, misses int64) {
	return cacheHits.Load(), cacheMisses.Load()
}
