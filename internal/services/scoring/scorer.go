package scoring

import (
	"marketlens/internal/domain/analysis"
	"marketlens/internal/domain/regime"
	"marketlens/internal/domain/risk"
)

// Result is the technical score of one snapshot
type Result struct {
	RawScore  float64
	Breakdown analysis.Breakdown
	Details   analysis.Details
	Flags     []string
}

// Scorer turns an indicator snapshot into a regime-conditional composite score
type Scorer struct {
	weights Weights
}

// NewScorer creates a new scorer
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Evaluate scores the snapshot. It is pure: each sub-score is computed once
// and the same values feed both the sum and the breakdown.
func (s *Scorer) Evaluate(snap Snapshot, tag regime.Tag) Result {
	trending := tag.IsTrending()
	trendDaily := snap.TrendDaily()
	trendWeekly := snap.TrendWeekly()

	var flags []string
	if !snap.HasWeekly {
		flags = append(flags, risk.FlagWeeklyUnavailable)
	}

	b := analysis.Breakdown{
		RSI:   s.rsiScore(snap.RSI, trending),
		Trend: s.trendScore(trendDaily, trendWeekly, snap.RSI, trending),
		MACD:  s.macdScore(snap),
		BB:    s.bollingerScore(snap, trendDaily, trending),
	}
	b.ADX = s.adxScore(snap.ADX, tag, trendDaily, b.RSI+b.BB)

	var atrFlag string
	b.ATR, atrFlag = s.atrScore(snap.ATR, snap.ATRLong, b.RSI+b.Trend+b.MACD+b.BB+b.ADX)
	if atrFlag != "" {
		flags = append(flags, atrFlag)
	}

	return Result{
		RawScore:  b.Total(),
		Breakdown: b,
		Details: analysis.Details{
			Breakdown:   b,
			Price:       snap.Price,
			RSI:         snap.RSI,
			ADX:         snap.ADX,
			ATR:         snap.ATR,
			ATRPercent:  snap.ATRPercent,
			TrendDaily:  trendDaily,
			TrendWeekly: trendWeekly,
		},
		Flags: flags,
	}
}

func (s *Scorer) rsiScore(rsi float64, trending bool) float64 {
	w := s.weights
	if trending {
		switch {
		case rsi > 60:
			return w.RSITrendContinuation
		case rsi < 40:
			return -w.RSITrendContinuation
		}
		return 0
	}

	switch {
	case rsi < 30:
		return w.RSIStrongReversion
	case rsi > 70:
		return -w.RSIStrongReversion
	case rsi < 40:
		return w.RSIWeakReversion
	case rsi > 60:
		return -w.RSIWeakReversion
	}
	return 0
}

func (s *Scorer) trendScore(trendDaily, trendWeekly int, rsi float64, trending bool) float64 {
	w := s.weights
	td := float64(trendDaily)

	score := td*w.TrendDaily + float64(trendWeekly)*w.TrendWeekly
	if trendDaily != 0 && trendDaily == trendWeekly {
		score += td * w.TrendAlignment
	}
	if trending && ((trendDaily > 0 && rsi > 50) || (trendDaily < 0 && rsi < 50)) {
		score += td * w.TrendRSIConfirm
	}
	return score
}

func (s *Scorer) macdScore(snap Snapshot) float64 {
	w := s.weights
	score := float64(sign(snap.MACD-snap.MACDSignal)) * w.MACD

	switch {
	case snap.Hist > 0 && snap.Hist > snap.PrevHist:
		score += w.MACDAcceleration
	case snap.Hist < 0 && snap.Hist < snap.PrevHist:
		score -= w.MACDAcceleration
	}
	return score
}

func (s *Scorer) bollingerScore(snap Snapshot, trendDaily int, trending bool) float64 {
	w := s.weights
	if trending {
		switch {
		case snap.Price > snap.BBUpper && trendDaily > 0:
			return w.BBContinuation
		case snap.Price < snap.BBLower && trendDaily < 0:
			return -w.BBContinuation
		}
		return 0
	}

	switch {
	case snap.Price < snap.BBLower && snap.RSI < 30:
		return w.BBReversion
	case snap.Price > snap.BBUpper && snap.RSI > 70:
		return -w.BBReversion
	}
	return 0
}

// adxScore rewards a confirmed trend, or in a quiet range confirms the mean-reversion setup
func (s *Scorer) adxScore(adx float64, tag regime.Tag, trendDaily int, reversion float64) float64 {
	w := s.weights
	switch {
	case tag.IsTrending() && adx > w.ADXTrendThreshold:
		return float64(trendDaily) * w.ADXTrendReward
	case tag == regime.TagRange && adx < w.ADXRangeThreshold:
		return float64(sign(reversion)) * w.ADXRangeReward
	}
	return 0
}

// atrScore dampens the subtotal when short-term volatility departs from its long-term norm
func (s *Scorer) atrScore(atr, atrLong, subtotal float64) (float64, string) {
	w := s.weights
	if atrLong <= 0 {
		return 0, ""
	}

	ratio := atr / atrLong
	switch {
	case ratio > w.ATRExtremeRatio:
		return -float64(sign(subtotal)) * w.ATRExtremePenalty,
			risk.FormatFlag(risk.FlagExtremeVolatility, "ATR14/ATR50 %.2f", ratio)
	case ratio < w.ATRLowRatio:
		return -float64(sign(subtotal)) * w.ATRLowPenalty,
			risk.FormatFlag(risk.FlagLowVolatility, "ATR14/ATR50 %.2f", ratio)
	}
	return 0, ""
}
