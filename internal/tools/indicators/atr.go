package indicators

import (
	"github.com/markcheno/go-talib"
)

// ATR returns the latest Wilder Average True Range
func ATR(high, low, close []float64, period int) (float64, error) {
	if err := validatePeriod(period, "atr"); err != nil {
		return 0, err
	}
	if err := validateHLC(high, low, close, "atr"); err != nil {
		return 0, err
	}
	if err := ValidateMinLength(close, period+1, "atr"); err != nil {
		return 0, err
	}
	return GetLastValue(talib.Atr(high, low, close, period))
}

// ATRPercent expresses an ATR value as a percentage of price
func ATRPercent(atr, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return atr / price * 100
}
