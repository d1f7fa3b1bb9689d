package indicators

import (
	"github.com/markcheno/go-talib"
)

// ADX returns the latest Average Directional Index
func ADX(high, low, close []float64, period int) (float64, error) {
	if err := validatePeriod(period, "adx"); err != nil {
		return 0, err
	}
	if err := validateHLC(high, low, close, "adx"); err != nil {
		return 0, err
	}
	// ta-lib lookback is 2*period-1
	if err := ValidateMinLength(close, 2*period, "adx"); err != nil {
		return 0, err
	}
	return GetLastValue(talib.Adx(high, low, close, period))
}
