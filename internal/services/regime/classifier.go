package regimeservice

import (
	"marketlens/internal/domain/market_data"
	"marketlens/internal/domain/regime"
	"marketlens/internal/tools/indicators"
	"marketlens/pkg/errors"
)

// Thresholds configures the regime rules. Rules are evaluated in priority order:
// strong trend, weak trend, chop, range.
type Thresholds struct {
	StrongADX      float64 `yaml:"strong_adx"`
	StrongSlope    float64 `yaml:"strong_slope"` // absolute % slope of the SMA
	WeakADX        float64 `yaml:"weak_adx"`
	WeakSlope      float64 `yaml:"weak_slope"`
	ChopADX        float64 `yaml:"chop_adx"`         // ADX below this is chop
	ChopATRPercent float64 `yaml:"chop_atr_percent"` // ATR% above this is chop

	ADXPeriod     int `yaml:"adx_period"`
	ATRPeriod     int `yaml:"atr_period"`
	SMAPeriod     int `yaml:"sma_period"`
	SlopeLookback int `yaml:"slope_lookback"`
}

// DefaultThresholds returns the standard regime thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		StrongADX:      30,
		StrongSlope:    0.5,
		WeakADX:        20,
		WeakSlope:      0.2,
		ChopADX:        15,
		ChopATRPercent: 5,
		ADXPeriod:      14,
		ATRPeriod:      14,
		SMAPeriod:      50,
		SlopeLookback:  10,
	}
}

// Classifier labels a daily series with a regime tag
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a new classifier
func NewClassifier(thresholds Thresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// MinBars is the shortest series Classify accepts
func (c *Classifier) MinBars() int {
	return c.thresholds.SMAPeriod + c.thresholds.SlopeLookback + 1
}

// Classify computes ADX, ATR% and SMA slope on the series and applies the rules.
// Identical input always yields an identical classification.
func (c *Classifier) Classify(series market_data.PriceSeries) (regime.Classification, error) {
	if series.Len() < c.MinBars() {
		return regime.Classification{}, errors.NewInsufficientData(series.Symbol, series.Timeframe.String(), series.Len(), c.MinBars())
	}

	high, low, closes := series.HLC()

	adx, err := indicators.ADX(high, low, closes, c.thresholds.ADXPeriod)
	if err != nil {
		return regime.Classification{}, errors.Wrap(err, "regime adx")
	}
	atr, err := indicators.ATR(high, low, closes, c.thresholds.ATRPeriod)
	if err != nil {
		return regime.Classification{}, errors.Wrap(err, "regime atr")
	}
	slope, err := indicators.SMASlope(closes, c.thresholds.SMAPeriod, c.thresholds.SlopeLookback)
	if err != nil {
		return regime.Classification{}, errors.Wrap(err, "regime slope")
	}

	atrPct := indicators.ATRPercent(atr, series.LastClose())

	return regime.Classification{
		Tag:        c.ClassifyMetrics(adx, atrPct, slope),
		ADX:        adx,
		ATRPercent: atrPct,
		Slope:      slope,
	}, nil
}

// ClassifyMetrics applies the rules to precomputed metrics
func (c *Classifier) ClassifyMetrics(adx, atrPercent, slope float64) regime.Tag {
	t := c.thresholds
	absSlope := slope
	if absSlope < 0 {
		absSlope = -absSlope
	}

	switch {
	case adx > t.StrongADX && absSlope > t.StrongSlope:
		return regime.TagStrongTrend
	case adx > t.WeakADX && absSlope > t.WeakSlope:
		return regime.TagWeakTrend
	case adx < t.ChopADX || atrPercent > t.ChopATRPercent:
		return regime.TagChop
	default:
		return regime.TagRange
	}
}
