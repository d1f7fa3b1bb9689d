package testsupport

import (
	"context"
	"sync"

	"marketlens/internal/domain/asset"
	"marketlens/internal/domain/market_data"
	"marketlens/pkg/errors"
)

// MockSeriesProvider serves predefined bars per symbol and timeframe
type MockSeriesProvider struct {
	mu     sync.Mutex
	series map[string]map[market_data.Timeframe][]market_data.PriceBar
	errs   map[string]map[market_data.Timeframe]error
	calls  map[string]int
}

// NewMockSeriesProvider creates an empty provider. Unknown series return ErrNotFound.
func NewMockSeriesProvider() *MockSeriesProvider {
	return &MockSeriesProvider{
		series: make(map[string]map[market_data.Timeframe][]market_data.PriceBar),
		errs:   make(map[string]map[market_data.Timeframe]error),
		calls:  make(map[string]int),
	}
}

// WithSeries registers bars for a symbol and timeframe
func (p *MockSeriesProvider) WithSeries(symbol string, timeframe market_data.Timeframe, bars []market_data.PriceBar) *MockSeriesProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.series[symbol]; !ok {
		p.series[symbol] = make(map[market_data.Timeframe][]market_data.PriceBar)
	}
	p.series[symbol][timeframe] = bars
	return p
}

// WithError makes a symbol and timeframe fail
func (p *MockSeriesProvider) WithError(symbol string, timeframe market_data.Timeframe, err error) *MockSeriesProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.errs[symbol]; !ok {
		p.errs[symbol] = make(map[market_data.Timeframe]error)
	}
	p.errs[symbol][timeframe] = err
	return p
}

// GetSeries implements market_data.SeriesProvider
func (p *MockSeriesProvider) GetSeries(ctx context.Context, symbol string, timeframe market_data.Timeframe) ([]market_data.PriceBar, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls[symbol+"/"+timeframe.String()]++

	if err := p.errs[symbol][timeframe]; err != nil {
		return nil, err
	}
	bars, ok := p.series[symbol][timeframe]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s %s", symbol, timeframe)
	}
	return bars, nil
}

// Calls returns how many times a series was requested
func (p *MockSeriesProvider) Calls(symbol string, timeframe market_data.Timeframe) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[symbol+"/"+timeframe.String()]
}

// MockMetadataRepository serves predefined symbol metadata
type MockMetadataRepository struct {
	metadata map[string]*asset.SymbolMetadata
	err      error
}

// NewMockMetadataRepository creates a repository from a symbol map
func NewMockMetadataRepository(metadata map[string]*asset.SymbolMetadata) *MockMetadataRepository {
	if metadata == nil {
		metadata = make(map[string]*asset.SymbolMetadata)
	}
	return &MockMetadataRepository{metadata: metadata}
}

// WithError makes every lookup fail
func (r *MockMetadataRepository) WithError(err error) *MockMetadataRepository {
	r.err = err
	return r
}

// Get implements asset.MetadataRepository
func (r *MockMetadataRepository) Get(ctx context.Context, symbol string) (*asset.SymbolMetadata, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.metadata[symbol], nil
}

// StaticVolatilityIndex returns a fixed volatility index reading
type StaticVolatilityIndex struct {
	Value float64
	Err   error
}

// Current returns the configured value
func (s StaticVolatilityIndex) Current(ctx context.Context) (float64, error) {
	return s.Value, s.Err
}
