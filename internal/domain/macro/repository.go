package macro

import (
	"context"
)

// Provider resolves the current macro snapshot. nil with no error means
// no snapshot is available and analyses run pure-technical.
type Provider interface {
	Current(ctx context.Context) (*Regime, error)
}

// StaticProvider serves a fixed snapshot (configuration-driven deployments, tests)
type StaticProvider struct {
	Regime *Regime
}

// Current returns a copy of the configured snapshot
func (p StaticProvider) Current(ctx context.Context) (*Regime, error) {
	if p.Regime == nil {
		return nil, nil
	}
	snapshot := *p.Regime
	return &snapshot, nil
}
