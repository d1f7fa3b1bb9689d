package analysis

import (
	"context"
	"sync"

	domain "marketlens/internal/domain/analysis"
	"marketlens/internal/domain/macro"
	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
)

// ReportSource produces a report for one symbol. Analyzer and ReportCache both satisfy it.
type ReportSource interface {
	Analyze(ctx context.Context, symbol string, regime *macro.Regime) (*domain.Report, error)
}

// BatchRunner analyzes many symbols concurrently under one macro snapshot
type BatchRunner struct {
	source         ReportSource
	maxConcurrency int
}

// NewBatchRunner creates a new batch runner
func NewBatchRunner(source ReportSource, maxConcurrency int) *BatchRunner {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &BatchRunner{source: source, maxConcurrency: maxConcurrency}
}

// Run settles every symbol: one failure never cancels the others.
// Results keep the order of symbols. The snapshot is shared read-only.
func (b *BatchRunner) Run(ctx context.Context, symbols []string, regime *macro.Regime) []domain.BatchResult {
	results := make([]domain.BatchResult, len(symbols))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, b.maxConcurrency)

	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[i] = b.analyzeOne(ctx, symbol, regime)
			metrics.RecordBatchSymbol(results[i].Err)
		}(i, symbol)
	}

	wg.Wait()
	return results
}

func (b *BatchRunner) analyzeOne(ctx context.Context, symbol string, regime *macro.Regime) (result domain.BatchResult) {
	result.Symbol = symbol

	defer func() {
		if r := recover(); r != nil {
			result.Report = nil
			result.Err = errors.Wrapf(errors.ErrInternal, "analysis of %s panicked: %v", symbol, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	report, err := b.source.Analyze(ctx, symbol, regime)
	if err != nil {
		result.Err = err
		return result
	}
	result.Report = report
	return result
}

// AnalyzeBatch resolves the macro snapshot once and runs the batch under it.
// A failing macro provider degrades the whole batch to pure-technical analysis.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, symbols []string, provider macro.Provider) []domain.BatchResult {
	var regime *macro.Regime
	if provider != nil {
		snapshot, err := provider.Current(ctx)
		if err != nil {
			a.log.Warnw("Macro snapshot unavailable, running technical-only batch", "error", err)
		} else {
			regime = snapshot
		}
	}

	return NewBatchRunner(a, a.config.BatchConcurrency).Run(ctx, symbols, regime)
}

// Summary counts the outcomes of a settled batch
type Summary struct {
	Total        int `json:"total"`
	Succeeded    int `json:"succeeded"`
	Insufficient int `json:"insufficient"`
	Failed       int `json:"failed"`
	Approved     int `json:"approved"`
}

// Summarize tallies batch results
func Summarize(results []domain.BatchResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err == nil:
			s.Succeeded++
			if r.Report != nil && r.Report.Risk.Approved {
				s.Approved++
			}
		case errors.Is(r.Err, errors.ErrInsufficientData):
			s.Insufficient++
		default:
			s.Failed++
		}
	}
	return s
}
