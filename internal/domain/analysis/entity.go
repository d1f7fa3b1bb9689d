package analysis

import (
	"time"

	"github.com/google/uuid"

	"marketlens/internal/domain/asset"
	"marketlens/internal/domain/macro"
	"marketlens/internal/domain/regime"
	"marketlens/internal/domain/risk"
)

// Action is the discrete trade verdict derived from the final score
type Action string

const (
	ActionStrongBuy  Action = "STRONG_BUY"
	ActionBuy        Action = "BUY"
	ActionHold       Action = "HOLD"
	ActionSell       Action = "SELL"
	ActionStrongSell Action = "STRONG_SELL"
)

// Valid checks if action is valid
func (a Action) Valid() bool {
	switch a {
	case ActionStrongBuy, ActionBuy, ActionHold, ActionSell, ActionStrongSell:
		return true
	}
	return false
}

// Side returns the trade direction implied by the action
func (a Action) Side() Side {
	switch a {
	case ActionStrongBuy, ActionBuy:
		return SideLong
	case ActionStrongSell, ActionSell:
		return SideShort
	}
	return SideNone
}

// String returns string representation
func (a Action) String() string {
	return string(a)
}

// ActionFromScore maps a normalized score to an action
func ActionFromScore(score float64) Action {
	switch {
	case score >= 70:
		return ActionStrongBuy
	case score >= 40:
		return ActionBuy
	case score <= -70:
		return ActionStrongSell
	case score <= -40:
		return ActionSell
	default:
		return ActionHold
	}
}

// Side is the trade direction
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
	SideNone  Side = "NONE"
)

// String returns string representation
func (s Side) String() string {
	return string(s)
}

// Breakdown is the contribution of each technical sub-scorer
type Breakdown struct {
	RSI   float64 `json:"rsi"`
	Trend float64 `json:"trend"`
	MACD  float64 `json:"macd"`
	BB    float64 `json:"bb"`
	ADX   float64 `json:"adx"`
	ATR   float64 `json:"atr"`
}

// Total sums every contribution
func (b Breakdown) Total() float64 {
	return b.RSI + b.Trend + b.MACD + b.BB + b.ADX + b.ATR
}

// Details carries the scorer inputs that justify the score
type Details struct {
	Breakdown   Breakdown `json:"breakdown"`
	Price       float64   `json:"price"`
	RSI         float64   `json:"rsi"`
	ADX         float64   `json:"adx"`
	ATR         float64   `json:"atr"`
	ATRPercent  float64   `json:"atr_percent"`
	TrendDaily  int       `json:"trend_daily"`
	TrendWeekly int       `json:"trend_weekly"`
}

// HoldingPeriod is the estimated holding window in days
type HoldingPeriod struct {
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Target      int    `json:"target"`
	Description string `json:"description"`
}

// TimingSignal is the hourly entry-timing verdict
type TimingSignal string

const (
	TimingOptimalEntry      TimingSignal = "OPTIMAL_ENTRY"
	TimingWaitRetracement   TimingSignal = "WAIT_RETRACEMENT"
	TimingEntryValidated    TimingSignal = "ENTRY_VALIDATED"
	TimingWaitConsolidation TimingSignal = "WAIT_CONSOLIDATION"
	TimingNeutral           TimingSignal = "NEUTRAL"
)

// TimingAdvice is the hourly refinement attached to a recommendation
type TimingAdvice struct {
	Signal         TimingSignal `json:"signal"`
	SuggestedEntry float64      `json:"suggested_entry,omitempty"` // 0 when the daily entry stands
	HourlyRSI      float64      `json:"hourly_rsi"`
	HourlySMA20    float64      `json:"hourly_sma20"`
	Support        float64      `json:"support"`
	Resistance     float64      `json:"resistance"`
	Note           string       `json:"note"`
}

// Tier names for the reward/risk ladder
const (
	TierStandard = "standard"
	TierGood     = "good"
	TierPremium  = "premium"
)

// TradeRecommendation holds concrete position parameters
type TradeRecommendation struct {
	Side          Side          `json:"side"`
	Entry         float64       `json:"entry"`
	StopLoss      float64       `json:"stop_loss"`
	TakeProfit    float64       `json:"take_profit"`
	RiskReward    float64       `json:"risk_reward"` // 0 for HOLD
	Tier          string        `json:"tier,omitempty"`
	Sizing        *risk.Sizing  `json:"sizing,omitempty"`
	HoldingPeriod HoldingPeriod `json:"holding_period"`
	Timing        *TimingAdvice `json:"timing,omitempty"`
	Rationale     []string      `json:"rationale"`
}

// StopDistance returns |entry - stop|
func (r TradeRecommendation) StopDistance() float64 {
	d := r.Entry - r.StopLoss
	if d < 0 {
		return -d
	}
	return d
}

// Metrics are derived expectation estimates for the setup
type Metrics struct {
	WinRate    float64 `json:"win_rate"`
	Expectancy float64 `json:"expectancy"` // in R multiples
}

// Report is the immutable result of one analysis
type Report struct {
	ID             uuid.UUID             `json:"id"`
	Symbol         string                `json:"symbol"`
	Timestamp      time.Time             `json:"timestamp"`
	AssetClass     asset.Class           `json:"asset_class"`
	Regime         regime.Classification `json:"regime"`
	RawScore       float64               `json:"raw_score"`
	Score          float64               `json:"score"`
	Action         Action                `json:"action"`
	Confidence     float64               `json:"confidence"`
	RiskFlags      []string              `json:"risk_flags"`
	Details        Details               `json:"details"`
	Recommendation TradeRecommendation   `json:"recommendation"`
	Risk           risk.Assessment       `json:"risk"`
	Metrics        Metrics               `json:"metrics"`
	MacroContext   *macro.Regime         `json:"macro_context,omitempty"`
	Bias           *float64              `json:"bias,omitempty"`
}

// BatchResult is the settled outcome of one symbol in a batch. Exactly one of Report and Err is set.
type BatchResult struct {
	Symbol string
	Report *Report
	Err    error
}
