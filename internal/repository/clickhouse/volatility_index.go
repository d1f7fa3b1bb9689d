package clickhouse

import (
	"context"

	"marketlens/internal/domain/market_data"
	"marketlens/pkg/errors"
)

// VolatilityIndexProvider reads the latest daily close of an index symbol
// (e.g. ^VIX) stored alongside regular price bars
type VolatilityIndexProvider struct {
	bars   *PriceBarRepository
	symbol string
}

// NewVolatilityIndexProvider creates a provider for the given index symbol
func NewVolatilityIndexProvider(bars *PriceBarRepository, symbol string) *VolatilityIndexProvider {
	return &VolatilityIndexProvider{bars: bars, symbol: symbol}
}

// Current returns the latest daily close of the index
func (p *VolatilityIndexProvider) Current(ctx context.Context) (float64, error) {
	value, err := p.bars.LatestClose(ctx, p.symbol, market_data.TimeframeDaily)
	if err != nil {
		return 0, errors.Wrap(err, "volatility index")
	}
	return value, nil
}
