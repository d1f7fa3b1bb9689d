package macroservice

import (
	"strings"

	"marketlens/internal/domain/asset"
)

// ClassificationStrategy resolves the asset class of a symbol, ok is false when it cannot decide
type ClassificationStrategy interface {
	Classify(symbol string, meta *asset.SymbolMetadata) (asset.Class, bool)
}

// AssetClassifier evaluates strategies in order until one succeeds, defaulting to equities
type AssetClassifier struct {
	strategies []ClassificationStrategy
}

// NewAssetClassifier creates a classifier from an ordered strategy list
func NewAssetClassifier(strategies ...ClassificationStrategy) *AssetClassifier {
	return &AssetClassifier{strategies: strategies}
}

// DefaultAssetClassifier tries metadata first, then ticker patterns
func DefaultAssetClassifier() *AssetClassifier {
	return NewAssetClassifier(MetadataStrategy{}, PatternStrategy{})
}

// Classify returns the asset class of symbol
func (c *AssetClassifier) Classify(symbol string, meta *asset.SymbolMetadata) asset.Class {
	symbol = normalize(symbol)
	for _, s := range c.strategies {
		if class, ok := s.Classify(symbol, meta); ok {
			return class
		}
	}
	return asset.ClassEquities
}

var (
	cryptoTypes = map[string]bool{
		"crypto":         true,
		"cryptocurrency": true,
	}

	cryptoSymbols = map[string]bool{
		"BTC": true, "ETH": true, "SOL": true, "XRP": true, "ADA": true, "DOGE": true,
		"BNB": true, "DOT": true, "AVAX": true, "LTC": true, "LINK": true, "MATIC": true,
		"TRX": true, "ATOM": true, "XLM": true, "BCH": true,
	}

	bondETFs = map[string]bool{
		"TLT": true, "IEF": true, "SHY": true, "BND": true, "AGG": true, "LQD": true,
		"HYG": true, "TIP": true, "GOVT": true, "IEI": true, "VGLT": true, "VGIT": true,
		"BIL": true, "MUB": true, "EMB": true, "JNK": true, "ZROZ": true, "EDV": true,
	}

	commodityETFs = map[string]bool{
		"GLD": true, "IAU": true, "SGOL": true, "PHYS": true, "SLV": true, "PSLV": true,
		"USO": true, "UNG": true, "DBC": true, "DBA": true, "PDBC": true, "GSG": true,
		"CPER": true, "PPLT": true, "GDX": true, "GDXJ": true,
	}

	goldSymbols = map[string]bool{
		"GLD": true, "IAU": true, "SGOL": true, "PHYS": true,
		"GC=F": true, "XAU": true, "XAUUSD": true,
	}

	currencies = map[string]bool{
		"USD": true, "EUR": true, "GBP": true, "JPY": true, "CHF": true,
		"AUD": true, "CAD": true, "NZD": true, "SEK": true, "NOK": true,
	}

	bondKeywords      = []string{"bond", "treasury"}
	commodityKeywords = []string{"gold", "silver", "precious metal", "mining"}
)

// IsGold reports whether symbol tracks gold
func IsGold(symbol string) bool {
	return goldSymbols[normalize(symbol)]
}

// MetadataStrategy classifies from descriptive metadata
type MetadataStrategy struct{}

// Classify implements ClassificationStrategy
func (MetadataStrategy) Classify(symbol string, meta *asset.SymbolMetadata) (asset.Class, bool) {
	if meta == nil {
		return "", false
	}

	typ := strings.ToLower(strings.TrimSpace(meta.Type))
	if cryptoTypes[typ] {
		return asset.ClassCrypto, true
	}
	if typ == "etf" {
		if bondETFs[symbol] {
			return asset.ClassBonds, true
		}
		if commodityETFs[symbol] {
			return asset.ClassCommodities, true
		}
	}

	text := strings.ToLower(meta.Sector + " " + meta.Industry)
	if containsAny(text, bondKeywords) {
		return asset.ClassBonds, true
	}
	if containsAny(text, commodityKeywords) {
		return asset.ClassCommodities, true
	}
	return "", false
}

// PatternStrategy classifies from curated ticker lists and symbol shapes
type PatternStrategy struct{}

// Classify implements ClassificationStrategy
func (PatternStrategy) Classify(symbol string, _ *asset.SymbolMetadata) (asset.Class, bool) {
	switch {
	case isCryptoSymbol(symbol):
		return asset.ClassCrypto, true
	case bondETFs[symbol]:
		return asset.ClassBonds, true
	case commodityETFs[symbol], goldSymbols[symbol], strings.HasSuffix(symbol, "=F"):
		return asset.ClassCommodities, true
	case isForexSymbol(symbol):
		return asset.ClassForex, true
	}
	return "", false
}

func isCryptoSymbol(symbol string) bool {
	if cryptoSymbols[symbol] {
		return true
	}
	for _, quote := range []string{"-USDT", "/USDT", "USDT", "-USD", "/USD"} {
		if base, ok := strings.CutSuffix(symbol, quote); ok && cryptoSymbols[base] {
			return true
		}
	}
	// any pair quoted in tether is crypto
	return strings.HasSuffix(symbol, "USDT") && len(symbol) > 4
}

func isForexSymbol(symbol string) bool {
	if strings.HasSuffix(symbol, "=X") {
		return true
	}
	s := strings.ReplaceAll(symbol, "/", "")
	return len(s) == 6 && currencies[s[:3]] && currencies[s[3:]]
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
