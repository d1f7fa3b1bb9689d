package recommendation

import (
	"math"

	"marketlens/internal/domain/analysis"
)

// Tier returns the reward/risk multiple and tier name for a conviction level
func Tier(absScore float64) (float64, string) {
	switch {
	case absScore >= 70:
		return 3.0, analysis.TierPremium
	case absScore >= 40:
		return 2.0, analysis.TierGood
	default:
		return 1.5, analysis.TierStandard
	}
}

// WinRate estimates the hit rate of a setup from its conviction
func WinRate(absScore float64) float64 {
	return clamp(0.42+absScore/220, 0.45, 0.68)
}

// ComputeMetrics returns win rate and expectancy in R for a score
func ComputeMetrics(score float64) analysis.Metrics {
	abs := math.Abs(score)
	tier, _ := Tier(abs)
	p := WinRate(abs)
	return analysis.Metrics{
		WinRate:    p,
		Expectancy: p*(tier*0.85) - (1 - p),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
