package noop

import (
	"context"

	"marketlens/pkg/errors"
)

var _ errors.Tracker = Tracker{}

// Tracker discards everything. Used when error tracking is disabled and in tests.
type Tracker struct{}

func New() Tracker { return Tracker{} }

func (Tracker) CaptureError(context.Context, error, map[string]string) error { return nil }

func (Tracker) Flush(context.Context) error { return nil }
