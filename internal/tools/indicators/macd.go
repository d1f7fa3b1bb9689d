package indicators

import (
	"github.com/markcheno/go-talib"

	"marketlens/pkg/errors"
)

// MACDResult holds the latest MACD values and the previous histogram bar
type MACDResult struct {
	Line          float64
	Signal        float64
	Histogram     float64
	PrevHistogram float64
}

// MACD computes MACD(fast, slow, signal) on closes
func MACD(closes []float64, fast, slow, signal int) (MACDResult, error) {
	if fast < 1 || slow <= fast || signal < 1 {
		return MACDResult{}, errors.Wrapf(errors.ErrInvalidInput, "macd: invalid periods %d/%d/%d", fast, slow, signal)
	}
	// lookback is slow+signal-2, one more bar for the previous histogram
	if err := ValidateMinLength(closes, slow+signal, "macd"); err != nil {
		return MACDResult{}, err
	}

	line, sig, hist := talib.Macd(closes, fast, slow, signal)
	n := len(closes)
	return MACDResult{
		Line:          line[n-1],
		Signal:        sig[n-1],
		Histogram:     hist[n-1],
		PrevHistogram: hist[n-2],
	}, nil
}
