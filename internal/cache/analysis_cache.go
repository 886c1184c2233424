package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"btc-barometer/internal/domain"
)

// AnalysisCache stores completed analyses under a (period, time bucket) key
// so repeated requests within one TTL window share a result. Get returns
// (nil, nil) on a miss.
type AnalysisCache interface {
	Get(ctx context.Context, periodDays int) (*domain.AnalysisResult, error)
	Put(ctx context.Context, periodDays int, result *domain.AnalysisResult) error
}

// bucketKey folds the current time into TTL-sized buckets so entries written
// near the end of a window expire with it instead of straddling two windows.
func bucketKey(periodDays int, ttl time.Duration, now time.Time) string {
	bucket := now.Unix() / int64(ttl.Seconds())
	return fmt.Sprintf("analysis:%d:%d", periodDays, bucket)
}

// RedisAnalysisCache keeps results in Redis as JSON with a TTL backstop.
type RedisAnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisAnalysisCache(client *redis.Client, ttl time.Duration) *RedisAnalysisCache {
	return &RedisAnalysisCache{client: client, ttl: ttl, now: time.Now}
}

func (c *RedisAnalysisCache) Get(ctx context.Context, periodDays int) (*domain.AnalysisResult, error) {
	raw, err := c.client.Get(ctx, bucketKey(periodDays, c.ttl, c.now())).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &result, nil
}

func (c *RedisAnalysisCache) Put(ctx context.Context, periodDays int, result *domain.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, bucketKey(periodDays, c.ttl, c.now()), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// MemoryAnalysisCache is the single-process fallback when Redis is not
// configured.
type MemoryAnalysisCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	result    *domain.AnalysisResult
	expiresAt time.Time
}

func NewMemoryAnalysisCache(ttl time.Duration) *MemoryAnalysisCache {
	return &MemoryAnalysisCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryAnalysisCache) Get(_ context.Context, periodDays int) (*domain.AnalysisResult, error) {
	key := bucketKey(periodDays, c.ttl, c.now())

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.result, nil
}

func (c *MemoryAnalysisCache) Put(_ context.Context, periodDays int, result *domain.AnalysisResult) error {
	key := bucketKey(periodDays, c.ttl, c.now())

	c.mu.Lock()
	defer c.mu.Unlock()

	// Opportunistically drop expired entries so the map does not grow with
	// every bucket rollover.
	for k, e := range c.entries {
		if c.now().After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = memoryEntry{result: result, expiresAt: c.now().Add(c.ttl)}
	return nil
}
