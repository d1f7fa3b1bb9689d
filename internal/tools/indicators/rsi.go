package indicators

import (
	"github.com/markcheno/go-talib"
)

// RSI returns the latest Wilder RSI of closes
func RSI(closes []float64, period int) (float64, error) {
	if err := validatePeriod(period, "rsi"); err != nil {
		return 0, err
	}
	if err := ValidateMinLength(closes, period+1, "rsi"); err != nil {
		return 0, err
	}
	return GetLastValue(talib.Rsi(closes, period))
}
