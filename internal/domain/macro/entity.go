package macro

import (
	"strings"
	"time"
)

// Regime is an exogenous snapshot of the macroeconomic backdrop.
// One snapshot is shared read-only by every analysis of a batch.
type Regime struct {
	Phase        Phase        `db:"phase" json:"phase"`
	CycleStage   CycleStage   `db:"cycle_stage" json:"cycle_stage"`
	FedPolicy    FedPolicy    `db:"fed_policy" json:"fed_policy"`
	DollarRegime DollarRegime `db:"dollar_regime" json:"dollar_regime"`
	Liquidity    Liquidity    `db:"liquidity" json:"liquidity"`
	Confidence   float64      `db:"confidence" json:"confidence"` // 0-1
	AsOf         time.Time    `db:"as_of" json:"as_of"`
}

// Bucket returns the coarse key used to cache reports per macro backdrop.
// Confidence and AsOf are not part of the key.
func (r *Regime) Bucket() string {
	if r == nil {
		return "none"
	}
	return strings.Join([]string{
		r.Phase.String(),
		r.CycleStage.String(),
		r.FedPolicy.String(),
		r.DollarRegime.String(),
		r.Liquidity.String(),
	}, "|")
}

// Phase defines risk appetite
type Phase string

const (
	PhaseRiskOn     Phase = "RISK_ON"
	PhaseRiskOff    Phase = "RISK_OFF"
	PhaseTransition Phase = "TRANSITION"
)

// Valid checks if phase is valid
func (p Phase) Valid() bool {
	switch p {
	case PhaseRiskOn, PhaseRiskOff, PhaseTransition:
		return true
	}
	return false
}

func (p Phase) String() string { return string(p) }

// CycleStage defines the business-cycle stage
type CycleStage string

const (
	CycleEarly     CycleStage = "EARLY"
	CycleMid       CycleStage = "MID"
	CycleLate      CycleStage = "LATE_CYCLE"
	CycleRecession CycleStage = "RECESSION"
)

// Valid checks if cycle stage is valid
func (c CycleStage) Valid() bool {
	switch c {
	case CycleEarly, CycleMid, CycleLate, CycleRecession:
		return true
	}
	return false
}

func (c CycleStage) String() string { return string(c) }

// FedPolicy defines central-bank posture
type FedPolicy string

const (
	FedEasing     FedPolicy = "EASING"
	FedNeutral    FedPolicy = "NEUTRAL"
	FedTightening FedPolicy = "TIGHTENING"
)

// Valid checks if fed policy is valid
func (f FedPolicy) Valid() bool {
	switch f {
	case FedEasing, FedNeutral, FedTightening:
		return true
	}
	return false
}

func (f FedPolicy) String() string { return string(f) }

// DollarRegime defines the USD trend
type DollarRegime string

const (
	DollarWeak          DollarRegime = "WEAK"
	DollarNeutral       DollarRegime = "NEUTRAL"
	DollarStrengthening DollarRegime = "STRENGTHENING"
)

// Valid checks if dollar regime is valid
func (d DollarRegime) Valid() bool {
	switch d {
	case DollarWeak, DollarNeutral, DollarStrengthening:
		return true
	}
	return false
}

func (d DollarRegime) String() string { return string(d) }

// Liquidity defines the liquidity trend
type Liquidity string

const (
	LiquidityExpanding   Liquidity = "EXPANDING"
	LiquidityNeutral     Liquidity = "NEUTRAL"
	LiquidityContracting Liquidity = "CONTRACTING"
)

// Valid checks if liquidity is valid
func (l Liquidity) Valid() bool {
	switch l {
	case LiquidityExpanding, LiquidityNeutral, LiquidityContracting:
		return true
	}
	return false
}

func (l Liquidity) String() string { return string(l) }
