package indicators

import (
	"marketlens/pkg/errors"
)

// GetLastValue returns the most recent value from ta-lib output
func GetLastValue(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.Wrapf(errors.ErrInternal, "no values returned from indicator")
	}
	return values[len(values)-1], nil
}

// ValidateMinLength checks if we have enough data for indicator calculation
func ValidateMinLength(values []float64, minLength int, indicatorName string) error {
	if len(values) < minLength {
		return errors.Wrapf(errors.ErrInsufficientData,
			"%s requires at least %d values, got %d",
			indicatorName, minLength, len(values))
	}
	return nil
}

func validatePeriod(period int, indicatorName string) error {
	if period < 1 {
		return errors.Wrapf(errors.ErrInvalidInput, "%s: period must be positive, got %d", indicatorName, period)
	}
	return nil
}

func validateHLC(high, low, close []float64, indicatorName string) error {
	if len(high) != len(close) || len(low) != len(close) {
		return errors.Wrapf(errors.ErrInvalidInput, "%s: high/low/close length mismatch", indicatorName)
	}
	return nil
}
