package ai

import (
	"sync"
	"time"

	"github.com/kapu/tia-transfer-bot-go/internal/domain"
)

type ParseCacheEntry struct {
	Result    *domain.ParseResult
	Metadata  *GenerateMetadata
	Timestamp time.Time
}

// ParseCache keeps sanitized remote results in memory. Entries are cloned on the
// way in and out so callers can mutate what they receive.
type ParseCache struct {
	mu      sync.RWMutex
	entries map[string]*ParseCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewParseCache(ttl time.Duration) *ParseCache {
	return &ParseCache{
		entries: make(map[string]*ParseCacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *ParseCache) Get(key string) (*ParseCacheEntry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().Sub(entry.Timestamp) >= c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return &ParseCacheEntry{
		Result:    entry.Result.Clone(),
		Metadata:  entry.Metadata,
		Timestamp: entry.Timestamp,
	}, true
}

func (c *ParseCache) Set(key string, result *domain.ParseResult, metadata *GenerateMetadata) {
	c.mu.Lock()
	c.entries[key] = &ParseCacheEntry{
		Result:    result.Clone(),
		Metadata:  metadata,
		Timestamp: c.now(),
	}
	c.mu.Unlock()
}

func (c *ParseCache) Clear(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *ParseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
