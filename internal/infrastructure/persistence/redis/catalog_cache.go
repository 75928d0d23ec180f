// Package redis implements Redis caching for PrepNest.
package redis

import (
	"context"
	"time"

	"github.com/prepnest/prepnest/internal/domain/question"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG CACHE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CatalogCache implements question.CatalogCache on top of Cache.
// A miss and a Redis failure look the same to callers: both surface as
// an error, and the read path falls through to the store.
type CatalogCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewCatalogCache creates a new CatalogCache with the given TTL.
func NewCatalogCache(cache *Cache, ttl time.Duration) *CatalogCache {
	return &CatalogCache{cache: cache, ttl: ttl}
}

// GetDomains returns the cached domain list.
func (c *CatalogCache) GetDomains(ctx context.Context) ([]string, error) {
	var domains []string
	if err := c.cache.Get(ctx, CatalogKey("domains"), &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

// SetDomains caches the domain list.
func (c *CatalogCache) SetDomains(ctx context.Context, domains []string) error {
	return c.cache.Set(ctx, CatalogKey("domains"), domains, c.ttl)
}

// GetDomainStats returns the cached per-domain aggregates.
func (c *CatalogCache) GetDomainStats(ctx context.Context) ([]question.DomainAggregate, error) {
	var stats []question.DomainAggregate
	if err := c.cache.Get(ctx, CatalogKey("domain_stats"), &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// SetDomainStats caches the per-domain aggregates.
func (c *CatalogCache) SetDomainStats(ctx context.Context, stats []question.DomainAggregate) error {
	return c.cache.Set(ctx, CatalogKey("domain_stats"), stats, c.ttl)
}
