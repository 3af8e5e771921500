package ratings

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/couchcryptid/field-visit-etl/internal/domain"
	"github.com/couchcryptid/field-visit-etl/internal/observability"
)

// CachedResolver wraps a RatingModelResolver with an in-memory LRU cache keyed
// by location and measurement time.
type CachedResolver struct {
	inner   domain.RatingModelResolver
	cache   *lru.Cache[string, string]
	metrics *observability.Metrics
}

// NewCachedResolver creates a cache decorator around a resolver.
func NewCachedResolver(inner domain.RatingModelResolver, maxEntries int, metrics *observability.Metrics) (*CachedResolver, error) {
	cache, err := lru.New[string, string](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create rating model cache: %w", err)
	}
	return &CachedResolver{
		inner:   inner,
		cache:   cache,
		metrics: metrics,
	}, nil
}

func (c *CachedResolver) ResolveRatingModel(ctx context.Context, locationIdentifier string, at domain.Timestamp) (string, error) {
	key := cacheKey(locationIdentifier, at)
	if id, ok := c.cache.Get(key); ok {
		c.metrics.RatingLookupCache.WithLabelValues("hit").Inc()
		return id, nil
	}
	c.metrics.RatingLookupCache.WithLabelValues("miss").Inc()

	id, err := c.inner.ResolveRatingModel(ctx, locationIdentifier, at)
	if err != nil {
		return "", err
	}
	// Only cache found models so a location whose rating is published later
	// is looked up again.
	if id != "" {
		c.cache.Add(key, id)
	}
	return id, nil
}

// Len reports the number of cached entries.
func (c *CachedResolver) Len() int {
	return c.cache.Len()
}

func cacheKey(locationIdentifier string, at domain.Timestamp) string {
	return locationIdentifier + "|" + at.String()
}
