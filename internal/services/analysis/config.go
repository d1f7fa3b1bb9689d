package analysis

import (
	macroservice "marketlens/internal/services/macro"
	"marketlens/internal/services/recommendation"
	regimeservice "marketlens/internal/services/regime"
	riskservice "marketlens/internal/services/risk"
	"marketlens/internal/services/scoring"
	"marketlens/internal/services/timing"
)

// Config is the immutable configuration of the analysis pipeline.
// Every stage receives its section at construction time.
type Config struct {
	Regime         regimeservice.Thresholds
	Weights        scoring.Weights
	Bias           macroservice.BiasTables
	Gate           riskservice.GateConfig
	Recommendation recommendation.Config
	Timing         timing.Config

	MinBarsCrypto         int // daily bars required for crypto
	MinBarsEquity         int // standard daily bars required for everything else
	MinBarsEquityFallback int // reduced minimum accepted with a rationale note
	MaxBars               int // longest daily window analyzed, older bars are ignored

	BatchConcurrency int
}

// DefaultConfig returns the standard pipeline configuration
func DefaultConfig() Config {
	return Config{
		Regime:                regimeservice.DefaultThresholds(),
		Weights:               scoring.DefaultWeights(),
		Bias:                  macroservice.DefaultBiasTables(),
		Gate:                  riskservice.DefaultGateConfig(),
		Recommendation:        recommendation.DefaultConfig(),
		Timing:                timing.DefaultConfig(),
		MinBarsCrypto:         200,
		MinBarsEquity:         250,
		MinBarsEquityFallback: 200,
		MaxBars:               500,
		BatchConcurrency:      5,
	}
}
