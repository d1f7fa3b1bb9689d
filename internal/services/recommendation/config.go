package recommendation

// Config contains recommendation builder parameters
type Config struct {
	LongStopATR  float64 // stop distance in ATR multiples for longs
	ShortStopATR float64 // stop distance in ATR multiples for shorts
	Sizing       SizingConfig
}

// SizingConfig controls the optional position sizing stage
type SizingConfig struct {
	Enabled      bool
	AccountValue float64
	KellyScale   float64 // 0.25 = quarter Kelly
	MinFraction  float64
	MaxFraction  float64
}

// DefaultConfig returns the standard builder configuration with sizing disabled
func DefaultConfig() Config {
	return Config{
		LongStopATR:  1.8,
		ShortStopATR: 1.5,
		Sizing: SizingConfig{
			KellyScale:  0.25,
			MinFraction: 0.01,
			MaxFraction: 0.05,
		},
	}
}
