package regime

// Tag is the categorical label for current price behavior
type Tag string

const (
	TagStrongTrend Tag = "STRONG_TREND"
	TagWeakTrend   Tag = "WEAK_TREND"
	TagRange       Tag = "RANGE"
	TagChop        Tag = "CHOP"
)

// Valid checks if regime tag is valid
func (t Tag) Valid() bool {
	switch t {
	case TagStrongTrend, TagWeakTrend, TagRange, TagChop:
		return true
	}
	return false
}

// IsTrending reports whether the regime is one of the trend tags
func (t Tag) IsTrending() bool {
	return t == TagStrongTrend || t == TagWeakTrend
}

// String returns string representation
func (t Tag) String() string {
	return string(t)
}

// Classification holds the tag and the metrics it was derived from
type Classification struct {
	Tag        Tag     `json:"tag"`
	ADX        float64 `json:"adx"`
	ATRPercent float64 `json:"atr_percent"`
	Slope      float64 `json:"slope"` // 10-bar % slope of SMA50
}

// VolLevel defines volatility levels used by the holding-period estimate
type VolLevel string

const (
	VolLow    VolLevel = "LOW"
	VolNormal VolLevel = "NORMAL"
	VolHigh   VolLevel = "HIGH"
)

// Valid checks if volatility level is valid
func (v VolLevel) Valid() bool {
	switch v {
	case VolLow, VolNormal, VolHigh:
		return true
	}
	return false
}

// String returns string representation
func (v VolLevel) String() string {
	return string(v)
}
