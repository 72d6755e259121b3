package geolocation

import (
	"context"

	"go.uber.org/zap"

	"fraudgen/internal/metrics"
	"fraudgen/internal/models"
)

// LocationCache is the subset of the Redis cache service used for lookups.
type LocationCache interface {
	GetLocation(ctx context.Context, ip string) (*models.Location, error)
	CacheLocation(ctx context.Context, ip string, loc models.Location) error
	InvalidateLocation(ctx context.Context, ip string) error
}

// CachedResolver serves repeated addresses from the cache. Cache failures
// are logged and bypassed, and an entry that cannot be read is evicted so
// the fresh lookup replaces it. Failed lookups are not cached.
type CachedResolver struct {
	next    Resolver
	cache   LocationCache
	metrics metrics.MetricsCollector
}

func NewCachedResolver(next Resolver, cache LocationCache, m metrics.MetricsCollector) *CachedResolver {
	if m == nil {
		m = &metrics.NoopMetricsCollector{}
	}
	return &CachedResolver{next: next, cache: cache, metrics: m}
}

func (c *CachedResolver) Resolve(ctx context.Context, ip string) (models.Location, error) {
	cached, err := c.cache.GetLocation(ctx, ip)
	switch {
	case err != nil:
		c.metrics.RecordError("geo_cache", "get")
		zap.L().Debug("geo cache read failed", zap.String("ip", ip), zap.Error(err))
		if err := c.cache.InvalidateLocation(ctx, ip); err != nil {
			zap.L().Debug("geo cache evict failed", zap.String("ip", ip), zap.Error(err))
		}
	case cached != nil:
		c.metrics.RecordCacheHit("geo")
		return *cached, nil
	default:
		c.metrics.RecordCacheMiss("geo")
	}

	loc, err := c.next.Resolve(ctx, ip)
	if err != nil {
		return models.Location{}, err
	}

	if err := c.cache.CacheLocation(ctx, ip, loc); err != nil {
		c.metrics.RecordError("geo_cache", "set")
		zap.L().Debug("geo cache write failed", zap.String("ip", ip), zap.Error(err))
	}
	return loc, nil
}
