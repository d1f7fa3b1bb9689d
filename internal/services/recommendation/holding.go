package recommendation

import (
	"fmt"
	"math"

	"marketlens/internal/domain/analysis"
	"marketlens/internal/domain/regime"
)

type holdingBase struct {
	min, max, target float64
}

var holdingBases = map[regime.Tag]holdingBase{
	regime.TagStrongTrend: {15, 60, 30},
	regime.TagWeakTrend:   {10, 40, 20},
	regime.TagRange:       {3, 15, 7},
	regime.TagChop:        {2, 10, 5},
}

// VolatilityLevel buckets ATR%
func VolatilityLevel(atrPercent float64) regime.VolLevel {
	switch {
	case atrPercent > 3:
		return regime.VolHigh
	case atrPercent < 1:
		return regime.VolLow
	default:
		return regime.VolNormal
	}
}

// HoldingPeriod estimates the holding window in days from regime, volatility and conviction.
// The result always satisfies 1 <= Min <= Target <= Max and Max >= 2.
func HoldingPeriod(tag regime.Tag, atrPercent, absScore float64) analysis.HoldingPeriod {
	base, ok := holdingBases[tag]
	if !ok {
		base = holdingBases[regime.TagRange]
	}

	vol := VolatilityLevel(atrPercent)
	factor := volatilityFactor(vol) * qualityFactor(absScore)

	minDays := max(1, int(math.Round(base.min*factor)))
	maxDays := max(2, minDays, int(math.Round(base.max*factor)))
	target := min(maxDays, max(minDays, int(math.Round(base.target*factor))))

	return analysis.HoldingPeriod{
		Min:         minDays,
		Max:         maxDays,
		Target:      target,
		Description: fmt.Sprintf("%d-%d days, target %d (%s, %s volatility)", minDays, maxDays, target, tag, vol),
	}
}

func volatilityFactor(vol regime.VolLevel) float64 {
	switch vol {
	case regime.VolHigh:
		return 0.6
	case regime.VolLow:
		return 1.3
	}
	return 1
}

func qualityFactor(absScore float64) float64 {
	switch {
	case absScore >= 70:
		return 1.4
	case absScore < 40:
		return 0.7
	}
	return 1
}
