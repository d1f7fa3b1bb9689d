package indicators

import (
	"github.com/markcheno/go-talib"
)

// BollingerBands holds the latest band values
type BollingerBands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// Bollinger computes SMA-based Bollinger bands with a symmetric deviation multiplier
func Bollinger(closes []float64, period int, stdDev float64) (BollingerBands, error) {
	if err := validatePeriod(period, "bollinger"); err != nil {
		return BollingerBands{}, err
	}
	if err := ValidateMinLength(closes, period, "bollinger"); err != nil {
		return BollingerBands{}, err
	}

	upper, middle, lower := talib.BBands(closes, period, stdDev, stdDev, talib.SMA)
	n := len(closes)
	return BollingerBands{
		Upper:  upper[n-1],
		Middle: middle[n-1],
		Lower:  lower[n-1],
	}, nil
}
