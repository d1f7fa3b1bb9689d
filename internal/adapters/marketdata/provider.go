package marketdata

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"marketlens/internal/domain/market_data"
	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// Config holds the guard settings for one provider
type Config struct {
	Name            string
	RateLimit       float64 // requests per second, 0 disables
	RateBurst       int
	Breaker         BreakerConfig
	RetryInitial    time.Duration
	RetryMaxElapsed time.Duration // 0 disables retries
}

// GuardedProvider wraps a series provider with rate limiting, a circuit breaker,
// bounded exponential retries and call metrics
type GuardedProvider struct {
	next    market_data.SeriesProvider
	name    string
	limiter *Limiter
	breaker *gobreaker.CircuitBreaker
	cfg     Config
	log     *logger.Logger
}

// NewGuardedProvider decorates next
func NewGuardedProvider(next market_data.SeriesProvider, cfg Config) *GuardedProvider {
	if cfg.Name == "" {
		cfg.Name = "series"
	}
	log := logger.Get().With("component", "guarded_provider", "provider", cfg.Name)

	return &GuardedProvider{
		next:    next,
		name:    cfg.Name,
		limiter: NewLimiter(cfg.Name, cfg.RateLimit, cfg.RateBurst),
		breaker: newBreaker(cfg.Name, cfg.Breaker, log),
		cfg:     cfg,
		log:     log,
	}
}

// GetSeries implements market_data.SeriesProvider
func (g *GuardedProvider) GetSeries(ctx context.Context, symbol string, timeframe market_data.Timeframe) ([]market_data.PriceBar, error) {
	start := time.Now()
	attempts := 0

	var bars []market_data.PriceBar
	operation := func() error {
		attempts++
		if err := g.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		result, err := g.breaker.Execute(func() (interface{}, error) {
			return g.next.GetSeries(ctx, symbol, timeframe)
		})
		switch {
		case err == nil:
			bars, _ = result.([]market_data.PriceBar)
			return nil
		case isBreakerOpen(err):
			return backoff.Permanent(errors.Wrapf(errors.ErrProviderUnavailable, "%s: %v", g.name, err))
		case isPermanent(err):
			return backoff.Permanent(err)
		default:
			return err
		}
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(g.newBackOff(), ctx), func(err error, wait time.Duration) {
		g.log.Debugw("Retrying series fetch", "symbol", symbol, "timeframe", timeframe.String(), "wait", wait, "error", err)
	})

	metrics.RecordProviderCall(g.name, timeframe.String(), time.Since(start), callStatus(err))
	if err != nil && !isPermanent(err) {
		g.log.Warnw("Series fetch failed", "symbol", symbol, "timeframe", timeframe.String(), "attempts", attempts, "error", err)
	}
	return bars, err
}

// State returns the breaker state
func (g *GuardedProvider) State() gobreaker.State {
	return g.breaker.State()
}

func (g *GuardedProvider) newBackOff() backoff.BackOff {
	if g.cfg.RetryMaxElapsed <= 0 {
		return &backoff.StopBackOff{}
	}

	b := backoff.NewExponentialBackOff()
	if g.cfg.RetryInitial > 0 {
		b.InitialInterval = g.cfg.RetryInitial
	}
	b.MaxElapsedTime = g.cfg.RetryMaxElapsed
	return b
}

func callStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, errors.ErrNotFound):
		return "not_found"
	case errors.Is(err, errors.ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, errors.ErrRateLimitExceeded):
		return "rate_limited"
	default:
		return "error"
	}
}
