package marketdata

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// BreakerConfig controls when a provider is considered down
type BreakerConfig struct {
	ConsecutiveFailures uint32
	OpenFor             time.Duration
	HalfOpenRequests    uint32
}

func newBreaker(name string, cfg BreakerConfig, log *logger.Logger) *gobreaker.CircuitBreaker {
	failures := cfg.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}
	halfOpen := cfg.HalfOpenRequests
	if halfOpen == 0 {
		halfOpen = 1
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: halfOpen,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isPermanent(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerState(name, float64(to))
			log.Warnw("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// isPermanent reports errors that say nothing about provider health:
// the request itself was wrong or the caller gave up.
func isPermanent(err error) bool {
	return errors.Is(err, errors.ErrNotFound) ||
		errors.Is(err, errors.ErrInvalidInput) ||
		errors.Is(err, errors.ErrInsufficientData) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func isBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
