package analysis

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	domain "marketlens/internal/domain/analysis"
	"marketlens/internal/domain/macro"
	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// CacheStore persists JSON-encoded values with a TTL.
// Get returns an error matching errors.ErrNotFound on a miss.
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CacheConfig contains configuration for report caching
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// DefaultCacheConfig returns default configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: true,
		TTL:     15 * time.Minute,
	}
}

// ReportCache memoizes reports per symbol and macro bucket.
// Concurrent requests for the same key share one underlying analysis.
type ReportCache struct {
	config CacheConfig
	source ReportSource
	store  CacheStore
	group  singleflight.Group
	log    *logger.Logger
}

// NewReportCache wraps source with a cache backed by store
func NewReportCache(config CacheConfig, source ReportSource, store CacheStore) *ReportCache {
	return &ReportCache{
		config: config,
		source: source,
		store:  store,
		log:    logger.Get().With("component", "report_cache"),
	}
}

// Analyze returns the cached report for (symbol, bucket) or computes and stores it.
// Store failures are logged and never fail the analysis.
func (c *ReportCache) Analyze(ctx context.Context, symbol string, regime *macro.Regime) (*domain.Report, error) {
	if !c.config.Enabled || c.store == nil {
		return c.source.Analyze(ctx, symbol, regime)
	}

	key := CacheKey(symbol, regime)

	var cached domain.Report
	err := c.store.Get(ctx, key, &cached)
	switch {
	case err == nil:
		metrics.RecordCacheRequest("hit")
		c.log.Debugw("Cache hit", "symbol", symbol, "key", key)
		return &cached, nil
	case errors.Is(err, errors.ErrNotFound):
		metrics.RecordCacheRequest("miss")
	default:
		metrics.RecordCacheRequest("error")
		c.log.Warnw("Cache read failed", "key", key, "error", err)
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		report, err := c.source.Analyze(ctx, symbol, regime)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(ctx, key, report, c.config.TTL); err != nil {
			c.log.Warnw("Cache write failed", "key", key, "error", err)
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debugw("Shared in-flight analysis", "symbol", symbol)
	}

	return v.(*domain.Report), nil
}

// CacheKey builds the cache key for a symbol under a macro snapshot
func CacheKey(symbol string, regime *macro.Regime) string {
	return fmt.Sprintf("report:%s:%s", symbol, regime.Bucket())
}
