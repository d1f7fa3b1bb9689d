package asset

// Class is the asset classification used by macro bias and risk rules
type Class string

const (
	ClassEquities    Class = "equities"
	ClassBonds       Class = "bonds"
	ClassCommodities Class = "commodities"
	ClassCrypto      Class = "crypto"
	ClassForex       Class = "forex"
)

// Valid checks if asset class is valid
func (c Class) Valid() bool {
	switch c {
	case ClassEquities, ClassBonds, ClassCommodities, ClassCrypto, ClassForex:
		return true
	}
	return false
}

// String returns string representation
func (c Class) String() string {
	return string(c)
}

// SymbolMetadata is optional descriptive data for a symbol
type SymbolMetadata struct {
	Symbol   string `db:"symbol" json:"symbol"`
	Type     string `db:"type" json:"type"`         // e.g. "EQUITY", "ETF", "CRYPTOCURRENCY"
	Sector   string `db:"sector" json:"sector"`     // e.g. "Technology", "Basic Materials"
	Industry string `db:"industry" json:"industry"` // e.g. "Gold", "Other Precious Metals & Mining"
}
