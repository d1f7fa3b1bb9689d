package recommendation

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"marketlens/internal/domain/analysis"
	"marketlens/internal/domain/regime"
	"marketlens/internal/domain/risk"
)

// Input is everything the builder needs for one recommendation
type Input struct {
	Score      float64 // normalized, after macro bias
	Price      float64
	ATR        float64
	ATRPercent float64
	Regime     regime.Tag
	Risk       risk.Assessment
	Timing     *analysis.TimingAdvice // optional hourly refinement
}

// Builder derives entry, stop, target, size and holding period from a score
type Builder struct {
	config Config
	sizer  *risk.KellySizer
}

// NewBuilder creates a new recommendation builder
func NewBuilder(config Config) *Builder {
	return &Builder{
		config: config,
		sizer:  risk.NewKellySizer(config.Sizing.KellyScale, config.Sizing.MinFraction, config.Sizing.MaxFraction),
	}
}

// Build returns the recommendation and its derived metrics.
// A rejected risk assessment withholds sizing only: stop and target are always computed.
func (b *Builder) Build(in Input) (analysis.TradeRecommendation, analysis.Metrics) {
	action := analysis.ActionFromScore(in.Score)
	side := action.Side()
	absScore := math.Abs(in.Score)
	metrics := ComputeMetrics(in.Score)

	rec := analysis.TradeRecommendation{
		Side:          side,
		Entry:         in.Price,
		StopLoss:      in.Price,
		TakeProfit:    in.Price,
		HoldingPeriod: HoldingPeriod(in.Regime, in.ATRPercent, absScore),
		Timing:        in.Timing,
	}

	if side == analysis.SideNone {
		rec.Rationale = append(rec.Rationale,
			fmt.Sprintf("Score %.1f is inside the ±40 neutral band, no trade", in.Score))
		return rec, metrics
	}

	if in.ATR <= 0 || in.Price <= 0 {
		rec.Side = analysis.SideNone
		rec.Rationale = append(rec.Rationale, fmt.Sprintf("%s signal without a usable ATR, no trade levels", action))
		return rec, metrics
	}

	rr, tier := Tier(absScore)
	rec.RiskReward = rr
	rec.Tier = tier

	var distance float64
	if side == analysis.SideLong {
		distance = in.ATR * b.config.LongStopATR
		rec.StopLoss = in.Price - distance
		rec.TakeProfit = in.Price + distance*rr
		rec.Rationale = append(rec.Rationale,
			fmt.Sprintf("%s in %s regime, score %.1f", action, in.Regime, in.Score),
			fmt.Sprintf("Stop %.2f is %.1fx ATR below entry", rec.StopLoss, b.config.LongStopATR),
		)
	} else {
		distance = in.ATR * b.config.ShortStopATR
		rec.StopLoss = in.Price + distance
		rec.TakeProfit = in.Price - distance*rr
		rec.Rationale = append(rec.Rationale,
			fmt.Sprintf("%s in %s regime, score %.1f", action, in.Regime, in.Score),
			fmt.Sprintf("Stop %.2f is %.1fx ATR above entry", rec.StopLoss, b.config.ShortStopATR),
		)
	}
	rec.Rationale = append(rec.Rationale, fmt.Sprintf("Target %.2f at %.1fR (%s tier)", rec.TakeProfit, rr, tier))

	b.applyTiming(&rec, in.Timing)
	b.applySizing(&rec, in, distance, metrics.WinRate)

	return rec, metrics
}

// applyTiming moves only the entry. Stop and target stay anchored to the ATR levels,
// and an entry that would put the stop on the wrong side is ignored.
func (b *Builder) applyTiming(rec *analysis.TradeRecommendation, timing *analysis.TimingAdvice) {
	if timing == nil {
		return
	}
	rec.Rationale = append(rec.Rationale, fmt.Sprintf("Hourly timing %s: %s", timing.Signal, timing.Note))

	entry := timing.SuggestedEntry
	if entry <= 0 || entry == rec.Entry {
		return
	}

	valid := (rec.Side == analysis.SideLong && rec.StopLoss < entry) ||
		(rec.Side == analysis.SideShort && rec.StopLoss > entry)
	if !valid {
		rec.Rationale = append(rec.Rationale, fmt.Sprintf("Refined entry %.2f discarded, stop would not protect it", entry))
		return
	}

	rec.Entry = entry
	rec.Rationale = append(rec.Rationale, fmt.Sprintf("Entry refined to %.2f on hourly levels", entry))
}

// applySizing sizes from the ATR stop distance and the reference price,
// so a refined entry never changes the position.
func (b *Builder) applySizing(rec *analysis.TradeRecommendation, in Input, distance, winRate float64) {
	cfg := b.config.Sizing
	switch {
	case !cfg.Enabled:
		rec.Rationale = append(rec.Rationale, "Position sizing disabled")
		return
	case cfg.AccountValue <= 0:
		rec.Rationale = append(rec.Rationale, "Position sizing skipped, no account value configured")
		return
	case !in.Risk.Approved:
		rec.Rationale = append(rec.Rationale,
			fmt.Sprintf("Position sizing withheld by risk gate: %s", strings.Join(in.Risk.Flags, ", ")))
		return
	}

	sizing, ok := b.sizer.Size(risk.SizingInput{
		AccountValue:   cfg.AccountValue,
		Price:          in.Price,
		StopDistance:   distance,
		WinRate:        winRate,
		RewardRisk:     rec.RiskReward,
		MaxRiskPercent: in.Risk.AdjustedRiskPercent,
	})
	if !ok {
		rec.Rationale = append(rec.Rationale, "Position sizing unavailable, zero stop distance")
		return
	}

	rec.Sizing = sizing
	rec.Rationale = append(rec.Rationale, fmt.Sprintf("Risking %s (%.2f%% of equity) for %s units",
		humanize.CommafWithDigits(sizing.RiskAmount, 2), sizing.RiskPercent*100, humanize.Comma(sizing.Units)))
}
