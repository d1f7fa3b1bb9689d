package timing

import (
	"fmt"

	"marketlens/internal/domain/analysis"
	"marketlens/internal/domain/market_data"
	"marketlens/internal/tools/indicators"
	"marketlens/pkg/errors"
)

// Config contains hourly refinement parameters
type Config struct {
	MinBars     int
	RSIPeriod   int
	SMAPeriod   int
	LevelWindow int     // bars for support/resistance
	NearPercent float64 // price within this % of a level is "near"
	Retracement float64 // fraction of the move to wait for
	MinScore    float64 // |score| that triggers refinement
}

// DefaultConfig returns the standard refiner configuration
func DefaultConfig() Config {
	return Config{
		MinBars:     50,
		RSIPeriod:   14,
		SMAPeriod:   20,
		LevelWindow: 48,
		NearPercent: 1.5,
		Retracement: 0.382,
		MinScore:    40,
	}
}

// Refiner reads the hourly series to time an entry on the daily signal
type Refiner struct {
	config Config
}

// NewRefiner creates a new timing refiner
func NewRefiner(config Config) *Refiner {
	return &Refiner{config: config}
}

// Applies reports whether a score is strong enough to be refined
func (r *Refiner) Applies(score float64) bool {
	return score >= r.config.MinScore || score <= -r.config.MinScore
}

// MinBars is the shortest hourly series Refine accepts
func (r *Refiner) MinBars() int {
	return r.config.MinBars
}

type hourlyState struct {
	price  float64
	rsi    float64
	sma    float64
	levels indicators.Levels
}

// Refine returns timing advice for side. SideNone yields no advice.
func (r *Refiner) Refine(side analysis.Side, hourly market_data.PriceSeries) (*analysis.TimingAdvice, error) {
	if side == analysis.SideNone {
		return nil, nil
	}
	if hourly.Len() < r.config.MinBars {
		return nil, errors.NewInsufficientData(hourly.Symbol, hourly.Timeframe.String(), hourly.Len(), r.config.MinBars)
	}

	high, low, closes := hourly.HLC()
	state := hourlyState{price: hourly.LastClose()}

	var err error
	if state.rsi, err = indicators.RSI(closes, r.config.RSIPeriod); err != nil {
		return nil, errors.Wrap(err, "hourly rsi")
	}
	if state.sma, err = indicators.SMA(closes, r.config.SMAPeriod); err != nil {
		return nil, errors.Wrap(err, "hourly sma")
	}
	if state.levels, err = indicators.SupportResistance(high, low, r.config.LevelWindow); err != nil {
		return nil, errors.Wrap(err, "hourly levels")
	}

	return r.decide(side, state), nil
}

func (r *Refiner) decide(side analysis.Side, s hourlyState) *analysis.TimingAdvice {
	advice := &analysis.TimingAdvice{
		Signal:      analysis.TimingNeutral,
		HourlyRSI:   s.rsi,
		HourlySMA20: s.sma,
		Support:     s.levels.Support,
		Resistance:  s.levels.Resistance,
		Note:        "no hourly edge, daily entry stands",
	}

	nearSupport := indicators.IsNear(s.price, s.levels.Support, r.config.NearPercent)
	nearResistance := indicators.IsNear(s.price, s.levels.Resistance, r.config.NearPercent)

	if side == analysis.SideLong {
		switch {
		case nearSupport && s.rsi < 40:
			advice.Signal = analysis.TimingOptimalEntry
			advice.SuggestedEntry = s.price
			advice.Note = fmt.Sprintf("price on hourly support %.2f with RSI %.1f", s.levels.Support, s.rsi)
		case nearResistance:
			advice.Signal = analysis.TimingWaitRetracement
			advice.SuggestedEntry = s.price - (s.price-s.levels.Support)*r.config.Retracement
			advice.Note = fmt.Sprintf("price under hourly resistance %.2f, wait for a pullback", s.levels.Resistance)
		case s.price > s.sma && s.rsi >= 50 && s.rsi <= 70:
			advice.Signal = analysis.TimingEntryValidated
			advice.Note = fmt.Sprintf("hourly momentum confirms, RSI %.1f above SMA20", s.rsi)
		case s.rsi > 70:
			advice.Signal = analysis.TimingWaitConsolidation
			advice.Note = fmt.Sprintf("hourly RSI %.1f overbought", s.rsi)
		}
		return advice
	}

	switch {
	case nearResistance && s.rsi > 60:
		advice.Signal = analysis.TimingOptimalEntry
		advice.SuggestedEntry = s.price
		advice.Note = fmt.Sprintf("price on hourly resistance %.2f with RSI %.1f", s.levels.Resistance, s.rsi)
	case nearSupport:
		advice.Signal = analysis.TimingWaitRetracement
		advice.SuggestedEntry = s.price + (s.levels.Resistance-s.price)*r.config.Retracement
		advice.Note = fmt.Sprintf("price above hourly support %.2f, wait for a bounce", s.levels.Support)
	case s.price < s.sma && s.rsi >= 30 && s.rsi <= 50:
		advice.Signal = analysis.TimingEntryValidated
		advice.Note = fmt.Sprintf("hourly momentum confirms, RSI %.1f below SMA20", s.rsi)
	case s.rsi < 30:
		advice.Signal = analysis.TimingWaitConsolidation
		advice.Note = fmt.Sprintf("hourly RSI %.1f oversold", s.rsi)
	}
	return advice
}
