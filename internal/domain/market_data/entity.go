package market_data

import "time"

// PriceBar represents one OHLCV bar
type PriceBar struct {
	Date   time.Time `ch:"date" json:"date"`
	Open   float64   `ch:"open" json:"open"`
	High   float64   `ch:"high" json:"high"`
	Low    float64   `ch:"low" json:"low"`
	Close  float64   `ch:"close" json:"close"`
	Volume float64   `ch:"volume" json:"volume"`
}

// Timeframe defines the bar interval of a series
type Timeframe string

const (
	TimeframeDaily  Timeframe = "daily"
	TimeframeWeekly Timeframe = "weekly"
	TimeframeHourly Timeframe = "hourly"
)

// Valid checks if timeframe is valid
func (t Timeframe) Valid() bool {
	switch t {
	case TimeframeDaily, TimeframeWeekly, TimeframeHourly:
		return true
	}
	return false
}

// String returns string representation
func (t Timeframe) String() string {
	return string(t)
}

// PriceSeries is a date-ordered (oldest first) sequence of bars for one timeframe.
// A series is a read-only input: nothing in the pipeline modifies Bars.
type PriceSeries struct {
	Symbol    string
	Timeframe Timeframe
	Bars      []PriceBar
}

// NewPriceSeries wraps bars into a series
func NewPriceSeries(symbol string, timeframe Timeframe, bars []PriceBar) PriceSeries {
	return PriceSeries{Symbol: symbol, Timeframe: timeframe, Bars: bars}
}

// Len returns the number of bars
func (s PriceSeries) Len() int {
	return len(s.Bars)
}

// Last returns the most recent bar
func (s PriceSeries) Last() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// LastClose returns the close of the most recent bar, 0 for an empty series
func (s PriceSeries) LastClose() float64 {
	bar, ok := s.Last()
	if !ok {
		return 0
	}
	return bar.Close
}

// Closes extracts close prices in chronological order
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		closes[i] = bar.Close
	}
	return closes
}

// HLC extracts high, low and close slices in chronological order
func (s PriceSeries) HLC() (high, low, close []float64) {
	high = make([]float64, len(s.Bars))
	low = make([]float64, len(s.Bars))
	close = make([]float64, len(s.Bars))
	for i, bar := range s.Bars {
		high[i] = bar.High
		low[i] = bar.Low
		close[i] = bar.Close
	}
	return high, low, close
}

// IsOrdered reports whether bar dates are strictly increasing
func (s PriceSeries) IsOrdered() bool {
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Date.After(s.Bars[i-1].Date) {
			return false
		}
	}
	return true
}
