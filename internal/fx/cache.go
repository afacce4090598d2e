package fx

import (
	"fmt"
	"sync"
)

// RateCache stores resolved exchange rates keyed by (date, from, to).
// Historical daily rates are immutable once published, so entries are
// never invalidated within a process lifetime. Implementations must be
// safe for concurrent use; racing writes for the same key are idempotent.
type RateCache interface {
	Get(key string) (float64, bool)
	Set(key string, rate float64)
}

// CacheKey builds the canonical cache key for a date and currency pair.
// Callers pass already-normalized currency codes.
func CacheKey(date, from, to string) string {
	return fmt.Sprintf("%s|%s|%s", date, from, to)
}

// memoryCache is the default in-process RateCache.
type memoryCache struct {
	mu    sync.RWMutex
	rates map[string]float64
}

// NewMemoryCache creates an empty in-memory rate cache.
func NewMemoryCache() RateCache {
	return &memoryCache{rates: make(map[string]float64)}
}

func (c *memoryCache) Get(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rate, ok := c.rates[key]
	return rate, ok
}

func (c *memoryCache) Set(key string, rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rates[key] = rate
}
