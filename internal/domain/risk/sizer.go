package risk

import (
	"github.com/shopspring/decimal"
)

// KellySizer calculates position size with fractional Kelly and a volatility dampener
type KellySizer struct {
	kellyScale  decimal.Decimal // share of theoretical Kelly to use (0.25 = quarter Kelly)
	minFraction decimal.Decimal // floor of equity at risk (0.01 = 1%)
	maxFraction decimal.Decimal // cap of equity at risk (0.05 = 5%)
	minDampener decimal.Decimal
	maxDampener decimal.Decimal
}

// SizingInput contains parameters for position sizing calculation
type SizingInput struct {
	AccountValue   float64 // account equity
	Price          float64 // reference price
	StopDistance   float64 // |entry - stop| in price units
	WinRate        float64 // 0-1
	RewardRisk     float64 // average win / average loss, the R:R tier
	MaxRiskPercent float64 // budget from the risk gate, fraction of equity
}

// Sizing is the computed position size
type Sizing struct {
	Method        string  `json:"method"`
	AccountValue  float64 `json:"account_value"`
	KellyRaw      float64 `json:"kelly_raw"`      // theoretical Kelly fraction
	KellyFraction float64 `json:"kelly_fraction"` // scaled and clamped
	Dampener      float64 `json:"dampener"`
	RiskPercent   float64 `json:"risk_percent"` // fraction of equity actually risked
	RiskAmount    float64 `json:"risk_amount"`
	Units         int64   `json:"units"`
	PositionValue float64 `json:"position_value"`
}

// NewKellySizer creates a new sizer
func NewKellySizer(kellyScale, minFraction, maxFraction float64) *KellySizer {
	return &KellySizer{
		kellyScale:  decimal.NewFromFloat(kellyScale),
		minFraction: decimal.NewFromFloat(minFraction),
		maxFraction: decimal.NewFromFloat(maxFraction),
		minDampener: decimal.NewFromFloat(0.5),
		maxDampener: decimal.NewFromInt(1),
	}
}

// Size computes the position. ok is false when the inputs cannot produce a position
// (no equity, no price or zero stop distance).
//
// Kelly formula: f = p - q/b where p = win rate, q = 1-p, b = reward/risk.
func (s *KellySizer) Size(input SizingInput) (*Sizing, bool) {
	if input.AccountValue <= 0 || input.Price <= 0 || input.StopDistance <= 0 || input.RewardRisk <= 0 {
		return nil, false
	}

	one := decimal.NewFromInt(1)
	account := decimal.NewFromFloat(input.AccountValue)
	price := decimal.NewFromFloat(input.Price)
	distance := decimal.NewFromFloat(input.StopDistance)
	p := decimal.NewFromFloat(input.WinRate)
	b := decimal.NewFromFloat(input.RewardRisk)

	kelly := p.Sub(one.Sub(p).Div(b))
	fraction := clamp(kelly.Mul(s.kellyScale), s.minFraction, s.maxFraction)

	// Wider stops relative to price shrink the bet
	dampener := clamp(one.Div(one.Add(distance.Div(price))), s.minDampener, s.maxDampener)

	riskPct := fraction.Mul(dampener)
	budget := decimal.NewFromFloat(input.MaxRiskPercent)
	if budget.LessThan(riskPct) {
		riskPct = budget
	}
	if riskPct.IsNegative() {
		riskPct = decimal.Zero
	}

	riskAmount := account.Mul(riskPct)
	units := riskAmount.Div(distance).Floor()

	return &Sizing{
		Method:        "fractional_kelly",
		AccountValue:  input.AccountValue,
		KellyRaw:      kelly.InexactFloat64(),
		KellyFraction: fraction.InexactFloat64(),
		Dampener:      dampener.InexactFloat64(),
		RiskPercent:   riskPct.InexactFloat64(),
		RiskAmount:    riskAmount.Round(2).InexactFloat64(),
		Units:         units.IntPart(),
		PositionValue: units.Mul(price).Round(2).InexactFloat64(),
	}, true
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
