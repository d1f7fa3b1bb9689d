package testsupport

import (
	"math"
	"time"

	"marketlens/internal/domain/market_data"
)

// SeriesFixture provides builder pattern for synthetic price series.
// Close of bar i is startPrice * (1+drift)^i * (1 + amplitude*sin(2*pi*i/period)),
// high and low sit rangePct above and below the close, open is the previous close.
type SeriesFixture struct {
	symbol     string
	timeframe  market_data.Timeframe
	bars       int
	end        time.Time
	startPrice float64
	drift      float64
	amplitude  float64
	period     int
	rangePct   float64
	volume     float64
}

// DefaultSeriesEnd is the date of the last bar built by fixtures unless overridden
var DefaultSeriesEnd = time.Date(2026, time.October, 13, 0, 0, 0, 0, time.UTC)

// NewSeriesFixture creates a flat 260-bar daily series at 100 with a 1% bar range
func NewSeriesFixture(symbol string) *SeriesFixture {
	return &SeriesFixture{
		symbol:     symbol,
		timeframe:  market_data.TimeframeDaily,
		bars:       260,
		end:        DefaultSeriesEnd,
		startPrice: 100,
		period:     20,
		rangePct:   0.01,
		volume:     1_000_000,
	}
}

// WithTimeframe sets the timeframe and therefore the bar spacing
func (f *SeriesFixture) WithTimeframe(timeframe market_data.Timeframe) *SeriesFixture {
	f.timeframe = timeframe
	return f
}

// WithBars sets the number of bars
func (f *SeriesFixture) WithBars(n int) *SeriesFixture {
	f.bars = n
	return f
}

// WithEnd sets the date of the last bar
func (f *SeriesFixture) WithEnd(end time.Time) *SeriesFixture {
	f.end = end
	return f
}

// WithStartPrice sets the first close
func (f *SeriesFixture) WithStartPrice(price float64) *SeriesFixture {
	f.startPrice = price
	return f
}

// WithDrift sets the compounded per-bar change (0.003 = +0.3% per bar)
func (f *SeriesFixture) WithDrift(drift float64) *SeriesFixture {
	f.drift = drift
	return f
}

// WithOscillation adds a sine wave of relative amplitude and period in bars
func (f *SeriesFixture) WithOscillation(amplitude float64, period int) *SeriesFixture {
	f.amplitude = amplitude
	if period > 0 {
		f.period = period
	}
	return f
}

// WithRange sets the half-range of each bar relative to its close (0.01 = ±1%)
func (f *SeriesFixture) WithRange(rangePct float64) *SeriesFixture {
	f.rangePct = rangePct
	return f
}

// Bars builds the bars, oldest first
func (f *SeriesFixture) Bars() []market_data.PriceBar {
	step := barSpacing(f.timeframe)
	bars := make([]market_data.PriceBar, f.bars)

	prevClose := f.startPrice
	for i := 0; i < f.bars; i++ {
		trend := f.startPrice * math.Pow(1+f.drift, float64(i))
		wave := 1 + f.amplitude*math.Sin(2*math.Pi*float64(i)/float64(f.period))
		close := trend * wave

		open := prevClose
		high := math.Max(open, close) * (1 + f.rangePct)
		low := math.Min(open, close) * (1 - f.rangePct)

		bars[i] = market_data.PriceBar{
			Date:   f.end.Add(-time.Duration(f.bars-1-i) * step),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: f.volume,
		}
		prevClose = close
	}
	return bars
}

// Build returns the series
func (f *SeriesFixture) Build() market_data.PriceSeries {
	return market_data.NewPriceSeries(f.symbol, f.timeframe, f.Bars())
}

func barSpacing(timeframe market_data.Timeframe) time.Duration {
	switch timeframe {
	case market_data.TimeframeWeekly:
		return 7 * 24 * time.Hour
	case market_data.TimeframeHourly:
		return time.Hour
	default:
		return 24 * time.Hour
	}
}
