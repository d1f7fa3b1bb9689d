package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "marketlens/internal/domain/analysis"
	"marketlens/internal/domain/asset"
	"marketlens/internal/domain/macro"
	"marketlens/internal/domain/market_data"
	"marketlens/internal/metrics"
	macroservice "marketlens/internal/services/macro"
	"marketlens/internal/services/recommendation"
	regimeservice "marketlens/internal/services/regime"
	riskservice "marketlens/internal/services/risk"
	"marketlens/internal/services/scoring"
	"marketlens/internal/services/timing"
	"marketlens/pkg/clock"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// VolatilityIndexProvider returns the current market-wide volatility index (e.g. VIX)
type VolatilityIndexProvider interface {
	Current(ctx context.Context) (float64, error)
}

// Deps groups the collaborators of the analyzer. Only Series is required.
type Deps struct {
	Series          market_data.SeriesProvider
	Metadata        asset.MetadataRepository
	VolatilityIndex VolatilityIndexProvider
	Clock           clock.Clock
}

// reportNamespace seeds deterministic report IDs
var reportNamespace = uuid.MustParse("6f1c1f4e-3b1a-4e55-9c57-1d1e0b7a2f10")

// Analyzer runs the full decision pipeline for one symbol.
// It holds no mutable state, so one instance serves concurrent analyses.
type Analyzer struct {
	config Config
	deps   Deps

	assets     *macroservice.AssetClassifier
	classifier *regimeservice.Classifier
	scorer     *scoring.Scorer
	bias       *macroservice.BiasEngine
	gate       *riskservice.Gate
	builder    *recommendation.Builder
	refiner    *timing.Refiner

	log *logger.Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(config Config, deps Deps) *Analyzer {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}

	return &Analyzer{
		config:     config,
		deps:       deps,
		assets:     macroservice.DefaultAssetClassifier(),
		classifier: regimeservice.NewClassifier(config.Regime),
		scorer:     scoring.NewScorer(config.Weights),
		bias:       macroservice.NewBiasEngine(config.Bias, deps.Clock),
		gate:       riskservice.NewGate(config.Gate, deps.Clock),
		builder:    recommendation.NewBuilder(config.Recommendation),
		refiner:    timing.NewRefiner(config.Timing),
		log:        logger.Get().With("component", "analyzer"),
	}
}

// Analyze builds the report for symbol. regime may be nil, in which case the
// result is purely technical. Only missing or too short daily history fails the call;
// every other degradation ends up as a flag or an omitted field.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, regime *macro.Regime) (*domain.Report, error) {
	start := time.Now()

	meta := a.lookupMetadata(ctx, symbol)
	class := a.assets.Classify(symbol, meta)

	report, err := a.analyze(ctx, symbol, class, regime)

	status := "success"
	action, score := "", 0.0
	switch {
	case errors.Is(err, errors.ErrInsufficientData):
		status = "insufficient_data"
	case err != nil:
		status = "error"
	default:
		action, score = report.Action.String(), report.Score
	}
	metrics.RecordAnalysis(symbol, class.String(), action, score, time.Since(start), status)

	return report, err
}

func (a *Analyzer) analyze(ctx context.Context, symbol string, class asset.Class, regime *macro.Regime) (*domain.Report, error) {
	daily, weekly, err := a.fetchDailyWeekly(ctx, symbol, class)
	if err != nil {
		return nil, err
	}

	var notes []string
	daily, note, err := a.checkHistory(symbol, class, daily)
	if err != nil {
		return nil, err
	}
	if note != "" {
		notes = append(notes, note)
	}

	classification, err := a.classifier.Classify(daily)
	if err != nil {
		return nil, errors.Wrapf(err, "classify regime for %s", symbol)
	}

	snap, err := scoring.BuildSnapshot(daily, weekly)
	if err != nil {
		return nil, errors.Wrapf(err, "indicator snapshot for %s", symbol)
	}
	technical := a.scorer.Evaluate(snap, classification.Tag)

	bias := a.bias.Compute(symbol, class, regime)
	score := macroservice.ApplyBias(technical.RawScore, bias.Total)
	action := domain.ActionFromScore(score)

	lastBar, _ := daily.Last()
	assessment := a.gate.Evaluate(riskservice.GateInput{
		Symbol:          symbol,
		AssetClass:      class,
		Score:           score,
		Price:           snap.Price,
		ATR:             snap.ATR,
		Macro:           regime,
		LastBar:         lastBar.Date,
		VolatilityIndex: a.volatilityIndex(ctx),
	})
	metrics.RecordGateDecision(assessment.Approved, flagCodes(assessment.Flags))

	rec, derived := a.builder.Build(recommendation.Input{
		Score:      score,
		Price:      snap.Price,
		ATR:        snap.ATR,
		ATRPercent: snap.ATRPercent,
		Regime:     classification.Tag,
		Risk:       assessment,
		Timing:     a.refineTiming(ctx, symbol, action.Side(), score),
	})
	rec.Rationale = append(rec.Rationale, notes...)

	report := &domain.Report{
		Symbol:         symbol,
		Timestamp:      a.deps.Clock.Now(),
		AssetClass:     class,
		Regime:         classification,
		RawScore:       technical.RawScore,
		Score:          score,
		Action:         action,
		Confidence:     math.Abs(score) / 100,
		RiskFlags:      append(append([]string{}, technical.Flags...), assessment.Flags...),
		Details:        technical.Details,
		Recommendation: rec,
		Risk:           assessment,
		Metrics:        derived,
	}
	if regime != nil {
		snapshot := *regime
		total := bias.Total
		report.MacroContext = &snapshot
		report.Bias = &total
		for _, c := range bias.Contributions {
			report.Recommendation.Rationale = append(report.Recommendation.Rationale,
				fmt.Sprintf("Macro %s %+.0f", c.Rule, c.Value))
		}
	}
	report.ID = reportID(symbol, regime, lastBar.Date)

	a.log.Debugw("Analysis complete",
		"symbol", symbol,
		"asset_class", class,
		"regime", classification.Tag,
		"raw_score", technical.RawScore,
		"score", score,
		"action", action,
		"approved", assessment.Approved,
	)

	return report, nil
}

// fetchDailyWeekly issues both requests concurrently. A daily failure is fatal,
// a weekly failure or an unordered weekly series degrades to an empty weekly series.
func (a *Analyzer) fetchDailyWeekly(ctx context.Context, symbol string, class asset.Class) (market_data.PriceSeries, market_data.PriceSeries, error) {
	var (
		wg                  sync.WaitGroup
		dailyBars, weekBars []market_data.PriceBar
		dailyErr, weekErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		dailyBars, dailyErr = a.deps.Series.GetSeries(ctx, symbol, market_data.TimeframeDaily)
	}()
	go func() {
		defer wg.Done()
		weekBars, weekErr = a.deps.Series.GetSeries(ctx, symbol, market_data.TimeframeWeekly)
	}()
	wg.Wait()

	daily := market_data.NewPriceSeries(symbol, market_data.TimeframeDaily, dailyBars)
	weekly := market_data.NewPriceSeries(symbol, market_data.TimeframeWeekly, weekBars)

	if dailyErr != nil {
		if errors.Is(dailyErr, errors.ErrNotFound) {
			return daily, weekly, errors.NewInsufficientData(symbol, market_data.TimeframeDaily.String(), 0, a.minBars(class))
		}
		return daily, weekly, errors.Wrapf(errors.ErrProviderUnavailable, "daily series for %s: %v", symbol, dailyErr)
	}
	switch {
	case weekErr != nil:
		a.log.Warnw("Weekly series unavailable, weekly trend neutral", "symbol", symbol, "error", weekErr)
		weekly.Bars = nil
	case !weekly.IsOrdered():
		a.log.Warnw("Weekly series not date-ordered, weekly trend neutral", "symbol", symbol)
		weekly.Bars = nil
	}

	return daily, weekly, nil
}

func (a *Analyzer) minBars(class asset.Class) int {
	if class == asset.ClassCrypto {
		return a.config.MinBarsCrypto
	}
	return a.config.MinBarsEquity
}

// checkHistory enforces the per-class minimum and trims the series to the analysis window
func (a *Analyzer) checkHistory(symbol string, class asset.Class, daily market_data.PriceSeries) (market_data.PriceSeries, string, error) {
	if !daily.IsOrdered() {
		return daily, "", errors.Wrapf(errors.ErrInvalidInput, "daily series for %s is not strictly date-ordered", symbol)
	}

	n := daily.Len()
	var note string

	if class == asset.ClassCrypto {
		if n < a.config.MinBarsCrypto {
			return daily, "", errors.NewInsufficientData(symbol, daily.Timeframe.String(), n, a.config.MinBarsCrypto)
		}
	} else if n < a.config.MinBarsEquity {
		if n < a.config.MinBarsEquityFallback {
			return daily, "", errors.NewInsufficientData(symbol, daily.Timeframe.String(), n, a.config.MinBarsEquityFallback)
		}
		note = fmt.Sprintf("Reduced history: %d daily bars, standard minimum is %d", n, a.config.MinBarsEquity)
		a.log.Warnw("Using reduced history minimum", "symbol", symbol, "bars", n, "standard", a.config.MinBarsEquity)
	}

	if a.config.MaxBars > 0 && n > a.config.MaxBars {
		daily.Bars = daily.Bars[n-a.config.MaxBars:]
	}
	return daily, note, nil
}

func (a *Analyzer) lookupMetadata(ctx context.Context, symbol string) *asset.SymbolMetadata {
	if a.deps.Metadata == nil {
		return nil
	}
	meta, err := a.deps.Metadata.Get(ctx, symbol)
	if err != nil {
		a.log.Warnw("Symbol metadata lookup failed, classifying by ticker", "symbol", symbol, "error", err)
		return nil
	}
	return meta
}

func (a *Analyzer) volatilityIndex(ctx context.Context) *float64 {
	if a.deps.VolatilityIndex == nil {
		return nil
	}
	value, err := a.deps.VolatilityIndex.Current(ctx)
	if err != nil {
		a.log.Warnw("Volatility index unavailable", "error", err)
		return nil
	}
	if value <= 0 {
		return nil
	}
	return &value
}

// refineTiming fetches the hourly series only when the signal is strong enough
func (a *Analyzer) refineTiming(ctx context.Context, symbol string, side domain.Side, score float64) *domain.TimingAdvice {
	if side == domain.SideNone || !a.refiner.Applies(score) {
		return nil
	}

	bars, err := a.deps.Series.GetSeries(ctx, symbol, market_data.TimeframeHourly)
	if err != nil {
		a.log.Warnw("Hourly series unavailable, skipping timing", "symbol", symbol, "error", err)
		return nil
	}
	if len(bars) < a.refiner.MinBars() {
		a.log.Debugw("Hourly history too short for timing", "symbol", symbol, "bars", len(bars))
		return nil
	}

	advice, err := a.refiner.Refine(side, market_data.NewPriceSeries(symbol, market_data.TimeframeHourly, bars))
	if err != nil {
		a.log.Warnw("Hourly timing failed", "symbol", symbol, "error", err)
		return nil
	}
	return advice
}

// reportID is stable for identical inputs: same symbol, macro bucket and last bar
func reportID(symbol string, regime *macro.Regime, lastBar time.Time) uuid.UUID {
	key := fmt.Sprintf("%s|%s|%s", symbol, regime.Bucket(), lastBar.UTC().Format(time.RFC3339))
	return uuid.NewSHA1(reportNamespace, []byte(key))
}

func flagCodes(flags []string) []string {
	codes := make([]string, 0, len(flags))
	for _, f := range flags {
		code, _, _ := strings.Cut(f, ":")
		codes = append(codes, code)
	}
	return codes
}
