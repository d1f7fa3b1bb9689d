package riskservice

import (
	"math"
	"time"

	"marketlens/internal/domain/asset"
	"marketlens/internal/domain/macro"
	"marketlens/internal/domain/risk"
	macroservice "marketlens/internal/services/macro"
	"marketlens/pkg/clock"
)

// GateConfig contains the thresholds and multipliers of the risk gate
type GateConfig struct {
	BaseRiskPercent float64       `yaml:"base_risk_percent"` // fraction of equity, 0.02 = 2%
	MaxDataAge      time.Duration `yaml:"max_data_age"`      // older last bar rejects, e.g. "168h"

	VolatilityIndexThreshold  float64 `yaml:"volatility_index_threshold"`
	VolatilityIndexMultiplier float64 `yaml:"volatility_index_multiplier"`

	HighATRPercent    float64 `yaml:"high_atr_percent"`
	HighATRMultiplier float64 `yaml:"high_atr_multiplier"`

	CryptoLateCycleMultiplier float64 `yaml:"crypto_late_cycle_multiplier"`

	MinConfidence float64 `yaml:"min_confidence"` // |score| below this rejects
}

// DefaultGateConfig returns the standard gate configuration
func DefaultGateConfig() GateConfig {
	return GateConfig{
		BaseRiskPercent:           0.02,
		MaxDataAge:                7 * 24 * time.Hour,
		VolatilityIndexThreshold:  30,
		VolatilityIndexMultiplier: 0.5,
		HighATRPercent:            3,
		HighATRMultiplier:         0.7,
		CryptoLateCycleMultiplier: 0.4,
		MinConfidence:             40,
	}
}

// GateInput is everything the gate looks at for one analysis
type GateInput struct {
	Symbol          string
	AssetClass      asset.Class
	Score           float64 // normalized, after macro bias
	Price           float64
	ATR             float64
	Macro           *macro.Regime // optional
	LastBar         time.Time     // zero skips the freshness check
	VolatilityIndex *float64      // optional, e.g. VIX
}

// Gate approves or rejects a setup and scales the risk budget
type Gate struct {
	config GateConfig
	clock  clock.Clock
}

// NewGate creates a new risk gate
func NewGate(config GateConfig, clk clock.Clock) *Gate {
	if clk == nil {
		clk = clock.System{}
	}
	return &Gate{config: config, clock: clk}
}

// Evaluate runs every rule. Rules never short-circuit: all triggered flags are reported
// and every multiplier applies even when a veto already fired.
func (g *Gate) Evaluate(in GateInput) risk.Assessment {
	cfg := g.config
	approved := true
	multiplier := 1.0
	var flags []string

	// 1. Data freshness
	if !in.LastBar.IsZero() {
		age := g.clock.Now().Sub(in.LastBar)
		if age > cfg.MaxDataAge {
			approved = false
			flags = append(flags, risk.FormatFlag(risk.FlagStaleData, "%d days", int(age.Hours()/24)))
		}
	}

	// 2. Market-wide volatility index
	if in.VolatilityIndex != nil && *in.VolatilityIndex > cfg.VolatilityIndexThreshold {
		multiplier *= cfg.VolatilityIndexMultiplier
		flags = append(flags, risk.FormatFlag(risk.FlagVolatilityIndex, "%.1f", *in.VolatilityIndex))
	}

	// 3. Instrument volatility
	if in.Price > 0 {
		atrPct := in.ATR / in.Price * 100
		if atrPct > cfg.HighATRPercent {
			multiplier *= cfg.HighATRMultiplier
			flags = append(flags, risk.FormatFlag(risk.FlagHighVolatility, "ATR %.2f%%", atrPct))
		}
	}

	// 4. Gold against a strengthening dollar, independent of score
	if in.Macro != nil && in.Macro.DollarRegime == macro.DollarStrengthening && macroservice.IsGold(in.Symbol) {
		approved = false
		flags = append(flags, risk.FormatFlag(risk.FlagGoldDollarConflict, "dollar %s", in.Macro.DollarRegime))
	}

	// 5. Crypto late in the cycle
	if in.Macro != nil && in.AssetClass == asset.ClassCrypto && in.Macro.CycleStage == macro.CycleLate {
		multiplier *= cfg.CryptoLateCycleMultiplier
		flags = append(flags, risk.FormatFlag(risk.FlagCryptoLateCycle, "x%.2f", cfg.CryptoLateCycleMultiplier))
	}

	// 6. Conviction
	if math.Abs(in.Score) < cfg.MinConfidence {
		approved = false
		flags = append(flags, risk.FormatFlag(risk.FlagLowConfidence, "|score| %.1f < %.0f", math.Abs(in.Score), cfg.MinConfidence))
	}

	return risk.Assessment{
		Approved:            approved,
		Flags:               flags,
		AdjustedRiskPercent: cfg.BaseRiskPercent * multiplier,
	}
}
