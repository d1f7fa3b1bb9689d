package market_data

import (
	"context"
)

// SeriesProvider fetches price history for a symbol.
// Bars are returned oldest first. A short or empty result is a normal outcome,
// not an error: the caller validates length.
type SeriesProvider interface {
	GetSeries(ctx context.Context, symbol string, timeframe Timeframe) ([]PriceBar, error)
}
