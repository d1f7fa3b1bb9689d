package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"marketlens/pkg/errors"
)

var _ errors.Tracker = (*Tracker)(nil)

// Tracker reports pipeline failures to Sentry
type Tracker struct {
	hub          *sentry.Hub
	flushTimeout time.Duration
}

// New creates a new Sentry tracker
func New(dsn, environment, release string) (*Tracker, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init sentry")
	}

	return &Tracker{
		hub:          sentry.CurrentHub(),
		flushTimeout: 2 * time.Second,
	}, nil
}

// CaptureError sends an error to Sentry, tagging it with symbol/component when present
func (t *Tracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	if err == nil {
		return nil
	}
	hub := t.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		var insufficient *errors.InsufficientDataError
		if errors.As(err, &insufficient) {
			scope.SetTag("symbol", insufficient.Symbol)
			scope.SetTag("timeframe", insufficient.Timeframe)
		}
	})
	hub.CaptureException(err)
	return nil
}

// Flush waits for pending events, bounded by the tracker timeout and ctx.
// sentry.Flush reports a timeout as false.
func (t *Tracker) Flush(ctx context.Context) error {
	timeout := t.flushTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}
	if !sentry.Flush(timeout) {
		return errors.Wrapf(errors.ErrInternal, "sentry flush timed out after %s", timeout)
	}
	return nil
}
