package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/domain/analysis"
	"marketlens/internal/domain/market_data"
	"marketlens/internal/testsupport"
	"marketlens/internal/tools/indicators"
	"marketlens/pkg/errors"
)

func state(price, rsi, sma, support, resistance float64) hourlyState {
	return hourlyState{
		price:  price,
		rsi:    rsi,
		sma:    sma,
		levels: indicators.Levels{Support: support, Resistance: resistance},
	}
}

func TestDecide(t *testing.T) {
	r := NewRefiner(DefaultConfig())

	tests := []struct {
		name  string
		side  analysis.Side
		state hourlyState
		want  analysis.TimingSignal
		entry float64
	}{
		{"long on support oversold", analysis.SideLong, state(100, 35, 102, 99, 110), analysis.TimingOptimalEntry, 100},
		{"long under resistance", analysis.SideLong, state(100, 55, 98, 90, 101), analysis.TimingWaitRetracement, 100 - 10*0.382},
		{"long momentum validated", analysis.SideLong, state(100, 60, 98, 90, 110), analysis.TimingEntryValidated, 0},
		{"long overbought", analysis.SideLong, state(100, 75, 98, 90, 110), analysis.TimingWaitConsolidation, 0},
		{"long nothing", analysis.SideLong, state(100, 45, 102, 90, 110), analysis.TimingNeutral, 0},
		{"long support without oversold falls through", analysis.SideLong, state(100, 45, 102, 99, 110), analysis.TimingNeutral, 0},
		{"short on resistance overbought", analysis.SideShort, state(100, 65, 98, 90, 101), analysis.TimingOptimalEntry, 100},
		{"short above support", analysis.SideShort, state(100, 45, 102, 99, 110), analysis.TimingWaitRetracement, 100 + 10*0.382},
		{"short momentum validated", analysis.SideShort, state(100, 40, 102, 90, 110), analysis.TimingEntryValidated, 0},
		{"short oversold", analysis.SideShort, state(100, 25, 98, 90, 110), analysis.TimingWaitConsolidation, 0},
		{"short nothing", analysis.SideShort, state(100, 55, 98, 90, 110), analysis.TimingNeutral, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.decide(tt.side, tt.state)
			assert.Equal(t, tt.want, got.Signal)
			assert.InDelta(t, tt.entry, got.SuggestedEntry, 1e-9)
			assert.NotEmpty(t, got.Note)
		})
	}
}

func TestRefine_Series(t *testing.T) {
	r := NewRefiner(DefaultConfig())

	falling := testsupport.NewSeriesFixture("AAPL").
		WithTimeframe(market_data.TimeframeHourly).
		WithBars(100).
		WithDrift(-0.002).
		WithRange(0.002).
		Build()

	advice, err := r.Refine(analysis.SideLong, falling)
	require.NoError(t, err)
	require.NotNil(t, advice)
	assert.Equal(t, analysis.TimingOptimalEntry, advice.Signal)
	assert.Equal(t, falling.LastClose(), advice.SuggestedEntry)

	advice, err = r.Refine(analysis.SideShort, falling)
	require.NoError(t, err)
	assert.Equal(t, analysis.TimingWaitRetracement, advice.Signal)
	assert.Greater(t, advice.SuggestedEntry, falling.LastClose())
}

func TestRefine_NoSideNoAdvice(t *testing.T) {
	advice, err := NewRefiner(DefaultConfig()).Refine(analysis.SideNone, market_data.PriceSeries{})
	assert.NoError(t, err)
	assert.Nil(t, advice)
}

func TestRefine_InsufficientData(t *testing.T) {
	short := testsupport.NewSeriesFixture("AAPL").WithTimeframe(market_data.TimeframeHourly).WithBars(49).Build()

	_, err := NewRefiner(DefaultConfig()).Refine(analysis.SideLong, short)
	assert.True(t, errors.Is(err, errors.ErrInsufficientData))
}

func TestApplies(t *testing.T) {
	r := NewRefiner(DefaultConfig())
	assert.True(t, r.Applies(40))
	assert.True(t, r.Applies(-75))
	assert.False(t, r.Applies(39.9))
	assert.False(t, r.Applies(-10))
}
