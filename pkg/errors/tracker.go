package errors

import "context"

// Tracker forwards errors to an external tracking service such as Sentry.
// Tags carry the component and, when known, the symbol being analyzed.
type Tracker interface {
	CaptureError(ctx context.Context, err error, tags map[string]string) error

	// Flush waits for pending events or until ctx is done
	Flush(ctx context.Context) error
}
