package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ananya/resumatch/internal/types"
)

// DefaultCacheSize bounds the in-memory result cache.
const DefaultCacheSize = 100

// ResultCache holds recent analysis reports keyed by an opaque analysis
// id. When full, the oldest entry is evicted. Safe for concurrent use.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]*types.AnalysisReport
	order   []string
	max     int
}

// NewResultCache creates a cache. A size of 0 or less uses
// DefaultCacheSize.
func NewResultCache(size int) *ResultCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &ResultCache{
		entries: make(map[string]*types.AnalysisReport, size),
		max:     size,
	}
}

// Put stores a report and returns its generated analysis id.
func (c *ResultCache) Put(report *types.AnalysisReport) string {
	id := uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[id] = report
	c.order = append(c.order, id)
	return id
}

// Get returns the report for an analysis id, or nil when unknown or
// already evicted.
func (c *ResultCache) Get(id string) *types.AnalysisReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

// Len reports the number of cached results.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
