package indicators

import (
	"github.com/markcheno/go-talib"

	"marketlens/pkg/errors"
)

// SMA returns the latest simple moving average of values
func SMA(values []float64, period int) (float64, error) {
	if err := validatePeriod(period, "sma"); err != nil {
		return 0, err
	}
	if err := ValidateMinLength(values, period, "sma"); err != nil {
		return 0, err
	}
	return GetLastValue(talib.Sma(values, period))
}

// SMASlope returns the percentage change of SMA(period) over the last lookback bars:
// (sma[t] - sma[t-lookback]) / sma[t-lookback] * 100
func SMASlope(values []float64, period, lookback int) (float64, error) {
	if err := validatePeriod(period, "sma slope"); err != nil {
		return 0, err
	}
	if lookback < 1 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "sma slope: lookback must be positive, got %d", lookback)
	}
	if err := ValidateMinLength(values, period+lookback, "sma slope"); err != nil {
		return 0, err
	}

	sma := talib.Sma(values, period)
	last := sma[len(sma)-1]
	prior := sma[len(sma)-1-lookback]
	if prior == 0 {
		return 0, nil
	}
	return (last - prior) / prior * 100, nil
}
