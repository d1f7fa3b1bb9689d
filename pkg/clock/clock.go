package clock

import "time"

// Clock supplies the current time. Pipeline code never calls time.Now directly,
// so a fixed clock makes an analysis fully reproducible.
type Clock interface {
	Now() time.Time
}

// System is the wall clock
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// NewFixed returns a clock frozen at t
func NewFixed(t time.Time) Fixed { return Fixed(t) }
