package market_data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriceSeries_Accessors(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series := NewPriceSeries("AAPL", TimeframeDaily, []PriceBar{
		{Date: base, High: 11, Low: 9, Close: 10},
		{Date: base.Add(24 * time.Hour), High: 12, Low: 10, Close: 11},
	})

	assert.Equal(t, 2, series.Len())
	assert.Equal(t, 11.0, series.LastClose())
	assert.Equal(t, []float64{10, 11}, series.Closes())

	high, low, close := series.HLC()
	assert.Equal(t, []float64{11, 12}, high)
	assert.Equal(t, []float64{9, 10}, low)
	assert.Equal(t, []float64{10, 11}, close)
	assert.True(t, series.IsOrdered())
}

func TestPriceSeries_Empty(t *testing.T) {
	series := NewPriceSeries("AAPL", TimeframeDaily, nil)

	_, ok := series.Last()
	assert.False(t, ok)
	assert.Zero(t, series.LastClose())
}

func TestPriceSeries_IsOrdered_Duplicate(t *testing.T) {
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series := NewPriceSeries("AAPL", TimeframeDaily, []PriceBar{{Date: day}, {Date: day}})
	assert.False(t, series.IsOrdered())
}

func TestTimeframe_Valid(t *testing.T) {
	assert.True(t, TimeframeHourly.Valid())
	assert.False(t, Timeframe("1m").Valid())
}
