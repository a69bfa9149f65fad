package alerts

import (
	"context"
	"time"

	"github.com/safence/sentinelguard/internal/cache"
	"github.com/safence/sentinelguard/internal/metrics"
)

// CachedEnhancer wraps an Enhancer with content-based caching so the same
// condition is only sent for enhancement once per TTL.
type CachedEnhancer struct {
	inner  Enhancer
	hasher *ContentHasher
	store  *cache.Cache
	ttl    time.Duration
}

// NewCachedEnhancer wraps the enhancer with the given cache and TTL.
func NewCachedEnhancer(inner Enhancer, store *cache.Cache, ttl time.Duration) *CachedEnhancer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedEnhancer{
		inner:  inner,
		hasher: NewContentHasher(),
		store:  store,
		ttl:    ttl,
	}
}

// EnhanceAlert returns a cached enhancement when the alert's content hash is
// known, calling through otherwise.
func (c *CachedEnhancer) EnhanceAlert(ctx context.Context, alert Alert) (EnhancedAlert, error) {
	key := cache.EnhancedAlertKey(c.hasher.HashAlert(alert))

	var cached EnhancedAlert
	found, err := c.store.Get(key, &cached)
	if err == nil && found {
		metrics.CacheHits.WithLabelValues("enhanced_alert").Inc()
		cached.ID = alert.ID
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues("enhanced_alert").Inc()

	enhanced, err := c.inner.EnhanceAlert(ctx, alert)
	if err != nil {
		return EnhancedAlert{}, err
	}

	if err := c.store.Set(key, enhanced, c.ttl, "enhanced_alert"); err != nil {
		return enhanced, nil
	}
	return enhanced, nil
}

// HealthCheck delegates to the wrapped enhancer.
func (c *CachedEnhancer) HealthCheck(ctx context.Context) error {
	return c.inner.HealthCheck(ctx)
}
