package scoring

// Weights holds every magnitude used by the scorer. Theoretical maximum is about 120.
type Weights struct {
	// RSI
	RSITrendContinuation float64 `yaml:"rsi_trend_continuation"` // trending regime, RSI beyond 60/40
	RSIStrongReversion   float64 `yaml:"rsi_strong_reversion"`   // range/chop regime, RSI beyond 30/70
	RSIWeakReversion     float64 `yaml:"rsi_weak_reversion"`     // range/chop regime, RSI beyond 40/60

	// Trend
	TrendDaily      float64 `yaml:"trend_daily"`       // sign(SMA50 - SMA200)
	TrendWeekly     float64 `yaml:"trend_weekly"`      // sign(weekly close - weekly SMA20)
	TrendAlignment  float64 `yaml:"trend_alignment"`   // daily and weekly agree
	TrendRSIConfirm float64 `yaml:"trend_rsi_confirm"` // trending regime with RSI on the trend side of 50

	// MACD
	MACD             float64 `yaml:"macd"`              // sign(line - signal)
	MACDAcceleration float64 `yaml:"macd_acceleration"` // histogram expanding in its own direction

	// Bollinger
	BBContinuation float64 `yaml:"bb_continuation"` // trending regime, close outside the band in trend direction
	BBReversion    float64 `yaml:"bb_reversion"`    // range/chop regime, close outside the band with RSI extreme

	// ADX
	ADXTrendThreshold float64 `yaml:"adx_trend_threshold"`
	ADXTrendReward    float64 `yaml:"adx_trend_reward"`
	ADXRangeThreshold float64 `yaml:"adx_range_threshold"`
	ADXRangeReward    float64 `yaml:"adx_range_reward"`

	// ATR, penalties push the subtotal toward zero
	ATRExtremeRatio   float64 `yaml:"atr_extreme_ratio"` // ATR14 / ATR50 above this is extreme
	ATRExtremePenalty float64 `yaml:"atr_extreme_penalty"`
	ATRLowRatio       float64 `yaml:"atr_low_ratio"` // ATR14 / ATR50 below this is compressed
	ATRLowPenalty     float64 `yaml:"atr_low_penalty"`
}

// DefaultWeights returns the standard scorer weights
func DefaultWeights() Weights {
	return Weights{
		RSITrendContinuation: 10,
		RSIStrongReversion:   20,
		RSIWeakReversion:     10,

		TrendDaily:      20,
		TrendWeekly:     10,
		TrendAlignment:  10,
		TrendRSIConfirm: 5,

		MACD:             15,
		MACDAcceleration: 5,

		BBContinuation: 10,
		BBReversion:    15,

		ADXTrendThreshold: 25,
		ADXTrendReward:    10,
		ADXRangeThreshold: 20,
		ADXRangeReward:    5,

		ATRExtremeRatio:   1.8,
		ATRExtremePenalty: 10,
		ATRLowRatio:       0.6,
		ATRLowPenalty:     5,
	}
}
