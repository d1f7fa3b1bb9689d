package risk

import (
	"fmt"
	"strings"
)

// Assessment is the risk gate verdict for one analysis
type Assessment struct {
	Approved            bool     `json:"approved"`
	Flags               []string `json:"flags"`
	AdjustedRiskPercent float64  `json:"adjusted_risk_percent"` // fraction of equity, 0.02 = 2%
}

// HasFlag reports whether a flag with the given code was raised
func (a Assessment) HasFlag(code string) bool {
	return HasFlag(a.Flags, code)
}

// Flag codes. A raised flag is "CODE" or "CODE: measured value".
const (
	// Technical scorer
	FlagExtremeVolatility = "VOLATILITE_EXTREME"
	FlagLowVolatility     = "FAIBLE_VOLATILITE"
	FlagWeeklyUnavailable = "HEBDO_INDISPONIBLE"

	// Risk gate
	FlagStaleData          = "DONNEES_OBSOLETES"
	FlagVolatilityIndex    = "INDICE_VOLATILITE_ELEVE"
	FlagHighVolatility     = "VOLATILITE_ELEVEE"
	FlagGoldDollarConflict = "CONFLIT_OR_DOLLAR"
	FlagCryptoLateCycle    = "CRYPTO_FIN_DE_CYCLE"
	FlagLowConfidence      = "CONFIANCE_INSUFFISANTE"
)

// FormatFlag renders a flag with its measured value
func FormatFlag(code string, format string, args ...interface{}) string {
	return code + ": " + fmt.Sprintf(format, args...)
}

// HasFlag reports whether flags contains the given code
func HasFlag(flags []string, code string) bool {
	for _, f := range flags {
		if f == code || strings.HasPrefix(f, code+":") {
			return true
		}
	}
	return false
}
