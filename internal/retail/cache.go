// Package retail caches synthesized retail listings per wish item so
// each distinct item is looked up at most once per session.
package retail

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"santachat/internal/ai"
	"santachat/internal/domain"
)

// Cache is the session-local lookup cache. Concurrent EnsureLoaded
// calls for the same item share one in-flight request; failures are
// stored as an empty list and not retried.
type Cache struct {
	gw  ai.Gateway
	log *logrus.Logger

	mu      sync.RWMutex
	results map[string][]domain.RetailResult
	group   singleflight.Group
}

// NewCache builds an empty cache over the gateway.
func NewCache(gw ai.Gateway, log *logrus.Logger) *Cache {
	return &Cache{
		gw:      gw,
		log:     log,
		results: make(map[string][]domain.RetailResult),
	}
}

// EnsureLoaded returns the cached listings for item, fetching them once
// if absent. The caller always gets a usable (possibly empty) list.
func (c *Cache) EnsureLoaded(ctx context.Context, item string) []domain.RetailResult {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	cached, ok := c.results[item]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	v, _, _ := c.group.Do(item, func() (any, error) {
		// Re-check under the flight: a previous winner may have
		// populated the entry already.
		c.mu.RLock()
		existing, done := c.results[item]
		c.mu.RUnlock()
		if done {
			return existing, nil
		}

		listings, err := c.gw.SearchRetail(ctx, item)
		if err != nil {
			c.log.WithError(err).WithField("item", item).Debug("retail search failed, caching empty result")
			listings = nil
		}
		if listings == nil {
			listings = []domain.RetailResult{}
		}
		c.mu.Lock()
		c.results[item] = listings
		c.mu.Unlock()
		return listings, nil
	})
	return v.([]domain.RetailResult)
}

// Peek returns the cached listings without fetching.
func (c *Cache) Peek(item string) ([]domain.RetailResult, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[item]
	return r, ok
}
