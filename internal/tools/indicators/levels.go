package indicators

import (
	"github.com/markcheno/go-talib"
)

// Levels are the rolling support and resistance of a window
type Levels struct {
	Support    float64 // lowest low
	Resistance float64 // highest high
}

// SupportResistance returns the lowest low and the highest high of the last window bars
func SupportResistance(high, low []float64, window int) (Levels, error) {
	if err := validatePeriod(window, "support/resistance"); err != nil {
		return Levels{}, err
	}
	if err := ValidateMinLength(low, window, "support/resistance"); err != nil {
		return Levels{}, err
	}
	if err := ValidateMinLength(high, window, "support/resistance"); err != nil {
		return Levels{}, err
	}

	support, err := GetLastValue(talib.Min(low, window))
	if err != nil {
		return Levels{}, err
	}
	resistance, err := GetLastValue(talib.Max(high, window))
	if err != nil {
		return Levels{}, err
	}
	return Levels{Support: support, Resistance: resistance}, nil
}

// IsNear reports whether level lies within tolerancePct percent of price
func IsNear(price, level, tolerancePct float64) bool {
	if price <= 0 {
		return false
	}
	diff := price - level
	if diff < 0 {
		diff = -diff
	}
	return diff/price*100 <= tolerancePct
}
