package testsupport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/domain/market_data"
)

func TestSeriesFixture(t *testing.T) {
	series := NewSeriesFixture("AAPL").
		WithBars(30).
		WithDrift(0.01).
		Build()

	require.Equal(t, 30, series.Len())
	assert.True(t, series.IsOrdered())
	assert.Equal(t, market_data.TimeframeDaily, series.Timeframe)

	last, ok := series.Last()
	require.True(t, ok)
	assert.Equal(t, DefaultSeriesEnd, last.Date)
	assert.Greater(t, series.Bars[29].Close, series.Bars[0].Close)

	for _, bar := range series.Bars {
		assert.GreaterOrEqual(t, bar.High, bar.Close)
		assert.LessOrEqual(t, bar.Low, bar.Close)
	}
}

func TestSeriesFixture_HourlySpacing(t *testing.T) {
	bars := NewSeriesFixture("BTC-USD").
		WithTimeframe(market_data.TimeframeHourly).
		WithBars(3).
		Bars()

	assert.Equal(t, time.Hour, bars[1].Date.Sub(bars[0].Date))
}

func TestSeriesFixture_WithEnd(t *testing.T) {
	end := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	series := NewSeriesFixture("SPY").WithBars(5).WithEnd(end).Build()

	last, ok := series.Last()
	require.True(t, ok)
	assert.Equal(t, end, last.Date)
	assert.Equal(t, end.Add(-4*24*time.Hour), series.Bars[0].Date)
}
