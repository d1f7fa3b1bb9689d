package scoring

import (
	"marketlens/internal/domain/market_data"
	"marketlens/internal/tools/indicators"
	"marketlens/pkg/errors"
)

// Indicator periods
const (
	RSIPeriod       = 14
	SMAFastPeriod   = 50
	SMASlowPeriod   = 200
	WeeklySMAPeriod = 20
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	BollingerPeriod = 20
	BollingerStdDev = 2.0
	ADXPeriod       = 14
	ATRPeriod       = 14
	ATRLongPeriod   = 50
	MinDailyBars    = SMASlowPeriod
	MinWeeklyBars   = WeeklySMAPeriod
)

// Snapshot holds the indicator values the scorer reads. It is computed once per analysis.
type Snapshot struct {
	Price float64
	RSI   float64

	SMA50  float64
	SMA200 float64

	HasWeekly   bool
	WeeklyClose float64
	WeeklySMA20 float64

	MACD       float64
	MACDSignal float64
	Hist       float64
	PrevHist   float64

	BBUpper  float64
	BBMiddle float64
	BBLower  float64

	ADX        float64
	ATR        float64
	ATRLong    float64
	ATRPercent float64
}

// TrendDaily is sign(SMA50 - SMA200)
func (s Snapshot) TrendDaily() int {
	return sign(s.SMA50 - s.SMA200)
}

// TrendWeekly is sign(weekly close - weekly SMA20), 0 without weekly history
func (s Snapshot) TrendWeekly() int {
	if !s.HasWeekly {
		return 0
	}
	return sign(s.WeeklyClose - s.WeeklySMA20)
}

// BuildSnapshot computes indicators from the daily series and, when long enough, the weekly series
func BuildSnapshot(daily, weekly market_data.PriceSeries) (Snapshot, error) {
	if daily.Len() < MinDailyBars {
		return Snapshot{}, errors.NewInsufficientData(daily.Symbol, daily.Timeframe.String(), daily.Len(), MinDailyBars)
	}

	high, low, closes := daily.HLC()
	snap := Snapshot{Price: daily.LastClose()}

	var err error
	if snap.RSI, err = indicators.RSI(closes, RSIPeriod); err != nil {
		return Snapshot{}, errors.Wrap(err, "snapshot rsi")
	}
	if snap.SMA50, err = indicators.SMA(closes, SMAFastPeriod); err != nil {
		return Snapshot{}, errors.Wrap(err, "snapshot sma50")
	}
	if snap.SMA200, err = indicators.SMA(closes, SMASlowPeriod); err != nil {
		return Snapshot{}, errors.Wrap(err, "snapshot sma200")
	}

	macd, err := indicators.MACD(closes, MACDFast, MACDSlow, MACDSignal)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "snapshot macd")
	}
	snap.MACD, snap.MACDSignal = macd.Line, macd.Signal
	snap.Hist, snap.PrevHist = macd.Histogram, macd.PrevHistogram

	bands, err := indicators.Bollinger(closes, BollingerPeriod, BollingerStdDev)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "snapshot bollinger")
	}
	snap.BBUpper, snap.BBMiddle, snap.BBLower = bands.Upper, bands.Middle, bands.Lower

	if snap.ADX, err = indicators.ADX(high, low, closes, ADXPeriod); err != nil {
		return Snapshot{}, errors.Wrap(err, "snapshot adx")
	}
	if snap.ATR, err = indicators.ATR(high, low, closes, ATRPeriod); err != nil {
		return Snapshot{}, errors.Wrap(err, "snapshot atr")
	}
	if snap.ATRLong, err = indicators.ATR(high, low, closes, ATRLongPeriod); err != nil {
		return Snapshot{}, errors.Wrap(err, "snapshot atr50")
	}
	snap.ATRPercent = indicators.ATRPercent(snap.ATR, snap.Price)

	if weekly.Len() >= MinWeeklyBars {
		weeklyCloses := weekly.Closes()
		if snap.WeeklySMA20, err = indicators.SMA(weeklyCloses, WeeklySMAPeriod); err != nil {
			return Snapshot{}, errors.Wrap(err, "snapshot weekly sma20")
		}
		snap.WeeklyClose = weekly.LastClose()
		snap.HasWeekly = true
	}

	return snap, nil
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
