package multiplier

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/metrics"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// SeasonCache keeps the global season list for a short TTL so that every tick
// does not hit the store for state shared by all owners.
type SeasonCache struct {
	source repository.Multipliers
	lru    *expirable.LRU[string, []domain.SeasonState]
}

// NewSeasonCache creates a season cache. A non-positive ttl disables caching.
func NewSeasonCache(source repository.Multipliers, size int, ttl time.Duration) *SeasonCache {
	c := &SeasonCache{source: source}
	if ttl > 0 {
		c.lru = expirable.NewLRU[string, []domain.SeasonState](max(size, 1), nil, ttl)
	}
	return c
}

// Active returns the seasons active at the given instant. Cached entries are
// re-filtered so a season that expired inside the TTL window is dropped.
func (c *SeasonCache) Active(ctx context.Context, at time.Time) ([]domain.SeasonState, error) {
	if c.lru != nil {
		if seasons, ok := c.lru.Get(seasonCacheKey); ok {
			metrics.SeasonCacheLookups.WithLabelValues(metrics.ResultHit).Inc()
			return filterActive(seasons, at), nil
		}
		metrics.SeasonCacheLookups.WithLabelValues(metrics.ResultMiss).Inc()
	}

	seasons, err := c.source.GetActiveSeasons(ctx, at)
	if err != nil {
		return nil, err
	}
	if c.lru != nil {
		c.lru.Add(seasonCacheKey, seasons)
	}
	return filterActive(seasons, at), nil
}

// Invalidate drops the cached season list
func (c *SeasonCache) Invalidate() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

func filterActive(seasons []domain.SeasonState, at time.Time) []domain.SeasonState {
	active := make([]domain.SeasonState, 0, len(seasons))
	for _, s := range seasons {
		if s.IsActive(at) {
			active = append(active, s)
		}
	}
	return active
}
