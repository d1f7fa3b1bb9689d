package macroservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"marketlens/internal/domain/asset"
	"marketlens/internal/domain/macro"
	"marketlens/pkg/clock"
)

var (
	june    = clock.NewFixed(time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC))
	october = clock.NewFixed(time.Date(2026, time.October, 14, 0, 0, 0, 0, time.UTC))
)

func neutralRegime() *macro.Regime {
	return &macro.Regime{
		Phase:        macro.PhaseTransition,
		CycleStage:   macro.CycleMid,
		FedPolicy:    macro.FedNeutral,
		DollarRegime: macro.DollarNeutral,
		Liquidity:    macro.LiquidityNeutral,
		Confidence:   0.6,
	}
}

func TestCompute_NilRegimeIsZero(t *testing.T) {
	e := NewBiasEngine(DefaultBiasTables(), october)

	b := e.Compute("BTC-USD", asset.ClassCrypto, nil)
	assert.Equal(t, 0.0, b.Total)
	assert.Empty(t, b.Contributions)
}

func TestCompute_NeutralRegimeIsZero(t *testing.T) {
	e := NewBiasEngine(DefaultBiasTables(), june)

	for _, class := range []asset.Class{asset.ClassEquities, asset.ClassBonds, asset.ClassCommodities, asset.ClassCrypto, asset.ClassForex} {
		assert.Equal(t, 0.0, e.Compute("X", class, neutralRegime()).Total, class.String())
	}
}

func TestCompute_RulesSumIndependently(t *testing.T) {
	e := NewBiasEngine(DefaultBiasTables(), june)

	r := neutralRegime()
	r.Phase = macro.PhaseRiskOn
	r.Liquidity = macro.LiquidityExpanding
	r.CycleStage = macro.CycleLate
	r.DollarRegime = macro.DollarWeak

	// equities: liquidity +5, late cycle -5, risk on +8, weak dollar +2
	b := e.Compute("SPY", asset.ClassEquities, r)
	assert.Equal(t, 10.0, b.Total)
	assert.Len(t, b.Contributions, 4)

	// crypto: +10 -10 +10 +5, no seasonal in June
	assert.Equal(t, 15.0, e.Compute("BTC-USD", asset.ClassCrypto, r).Total)

	// bonds: +2 +5 -5, no dollar rule
	assert.Equal(t, 2.0, e.Compute("TLT", asset.ClassBonds, r).Total)
}

func TestCompute_RiskOff(t *testing.T) {
	e := NewBiasEngine(DefaultBiasTables(), june)
	r := neutralRegime()
	r.Phase = macro.PhaseRiskOff

	assert.Equal(t, -8.0, e.Compute("SPY", asset.ClassEquities, r).Total)
	assert.Equal(t, 8.0, e.Compute("TLT", asset.ClassBonds, r).Total)
	assert.Equal(t, -12.0, e.Compute("ETH-USD", asset.ClassCrypto, r).Total)
}

func TestCompute_GoldOverrideStacks(t *testing.T) {
	e := NewBiasEngine(DefaultBiasTables(), june)

	strong := neutralRegime()
	strong.DollarRegime = macro.DollarStrengthening
	b := e.Compute("GLD", asset.ClassCommodities, strong)
	assert.Equal(t, -21.0, b.Total, "commodity dollar bias -6 plus gold override -15")
	assert.Equal(t, []Contribution{{RuleDollar, -6}, {RuleGold, -15}}, b.Contributions)

	weak := neutralRegime()
	weak.DollarRegime = macro.DollarWeak
	assert.Equal(t, 16.0, e.Compute("GLD", asset.ClassCommodities, weak).Total)

	// silver gets the commodity bias only
	assert.Equal(t, -6.0, e.Compute("SLV", asset.ClassCommodities, strong).Total)
}

func TestCompute_CryptoSeasonal(t *testing.T) {
	r := neutralRegime()

	assert.Equal(t, 5.0, NewBiasEngine(DefaultBiasTables(), october).Compute("BTC-USD", asset.ClassCrypto, r).Total)
	assert.Equal(t, 0.0, NewBiasEngine(DefaultBiasTables(), june).Compute("BTC-USD", asset.ClassCrypto, r).Total)
	assert.Equal(t, 0.0, NewBiasEngine(DefaultBiasTables(), october).Compute("SPY", asset.ClassEquities, r).Total)
}

func TestApplyBias(t *testing.T) {
	assert.Equal(t, 100.0, ApplyBias(95, 15))
	assert.Equal(t, -100.0, ApplyBias(-95, -21))
	assert.Equal(t, 50.0, ApplyBias(40, 10))
	assert.Equal(t, 40.0, ApplyBias(40, 0))
}
