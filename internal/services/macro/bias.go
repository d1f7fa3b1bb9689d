package macroservice

import (
	"time"

	"marketlens/internal/domain/asset"
	"marketlens/internal/domain/macro"
	"marketlens/pkg/clock"
)

// ClassTable maps an asset class to a score contribution. Missing classes contribute 0.
type ClassTable map[asset.Class]float64

// BiasTables holds every macro rule table
type BiasTables struct {
	LiquidityExpanding  ClassTable `yaml:"liquidity_expanding"`
	LateCycle           ClassTable `yaml:"late_cycle"`
	RiskOn              ClassTable `yaml:"risk_on"`
	RiskOff             ClassTable `yaml:"risk_off"`
	DollarWeak          ClassTable `yaml:"dollar_weak"`
	DollarStrengthening ClassTable `yaml:"dollar_strengthening"`

	// Gold override, added on top of the commodity dollar bias
	GoldDollarStrengthening float64 `yaml:"gold_dollar_strengthening"`
	GoldDollarWeak          float64 `yaml:"gold_dollar_weak"`

	CryptoSeasonalMonth time.Month `yaml:"crypto_seasonal_month"`
	CryptoSeasonalBonus float64    `yaml:"crypto_seasonal_bonus"`
}

// DefaultBiasTables returns the standard rule tables
func DefaultBiasTables() BiasTables {
	return BiasTables{
		LiquidityExpanding: ClassTable{
			asset.ClassEquities:    5,
			asset.ClassBonds:       2,
			asset.ClassCommodities: 3,
			asset.ClassCrypto:      10,
		},
		LateCycle: ClassTable{
			asset.ClassEquities:    -5,
			asset.ClassBonds:       5,
			asset.ClassCommodities: 5,
			asset.ClassCrypto:      -10,
		},
		RiskOn: ClassTable{
			asset.ClassEquities:    8,
			asset.ClassBonds:       -5,
			asset.ClassCommodities: 3,
			asset.ClassCrypto:      10,
		},
		RiskOff: ClassTable{
			asset.ClassEquities:    -8,
			asset.ClassBonds:       8,
			asset.ClassCommodities: -2,
			asset.ClassCrypto:      -12,
		},
		DollarWeak: ClassTable{
			asset.ClassEquities:    2,
			asset.ClassCommodities: 6,
			asset.ClassCrypto:      5,
		},
		DollarStrengthening: ClassTable{
			asset.ClassEquities:    -2,
			asset.ClassCommodities: -6,
			asset.ClassCrypto:      -5,
		},
		GoldDollarStrengthening: -15,
		GoldDollarWeak:          10,
		CryptoSeasonalMonth:     time.October,
		CryptoSeasonalBonus:     5,
	}
}

// Rule names used in bias contributions
const (
	RuleLiquidity = "liquidity"
	RuleLateCycle = "late_cycle"
	RulePhase     = "phase"
	RuleDollar    = "dollar"
	RuleGold      = "gold_override"
	RuleSeasonal  = "crypto_seasonal"
)

// Contribution is one fired rule
type Contribution struct {
	Rule  string
	Value float64
}

// Bias is the summed macro adjustment of a symbol
type Bias struct {
	Total         float64
	Contributions []Contribution
}

// BiasEngine sums independent macro rules for an asset class. No clamping happens here.
type BiasEngine struct {
	tables BiasTables
	clock  clock.Clock
}

// NewBiasEngine creates a new engine. The clock supplies the month for the seasonal rule.
func NewBiasEngine(tables BiasTables, clk clock.Clock) *BiasEngine {
	if clk == nil {
		clk = clock.System{}
	}
	return &BiasEngine{tables: tables, clock: clk}
}

// Compute returns the bias for a symbol. A nil regime yields exactly zero.
func (e *BiasEngine) Compute(symbol string, class asset.Class, regime *macro.Regime) Bias {
	if regime == nil {
		return Bias{}
	}

	var b Bias
	add := func(rule string, v float64) {
		if v == 0 {
			return
		}
		b.Contributions = append(b.Contributions, Contribution{Rule: rule, Value: v})
		b.Total += v
	}

	t := e.tables
	if regime.Liquidity == macro.LiquidityExpanding {
		add(RuleLiquidity, t.LiquidityExpanding[class])
	}
	if regime.CycleStage == macro.CycleLate {
		add(RuleLateCycle, t.LateCycle[class])
	}

	switch regime.Phase {
	case macro.PhaseRiskOn:
		add(RulePhase, t.RiskOn[class])
	case macro.PhaseRiskOff:
		add(RulePhase, t.RiskOff[class])
	}

	switch regime.DollarRegime {
	case macro.DollarWeak:
		add(RuleDollar, t.DollarWeak[class])
	case macro.DollarStrengthening:
		add(RuleDollar, t.DollarStrengthening[class])
	}

	if IsGold(symbol) {
		switch regime.DollarRegime {
		case macro.DollarWeak:
			add(RuleGold, t.GoldDollarWeak)
		case macro.DollarStrengthening:
			add(RuleGold, t.GoldDollarStrengthening)
		}
	}

	if class == asset.ClassCrypto && e.clock.Now().Month() == t.CryptoSeasonalMonth {
		add(RuleSeasonal, t.CryptoSeasonalBonus)
	}

	return b
}

// ApplyBias adds a bias to a raw score and clamps the result to [-100, 100]
func ApplyBias(rawScore, bias float64) float64 {
	score := rawScore + bias
	switch {
	case score > 100:
		return 100
	case score < -100:
		return -100
	}
	return score
}
