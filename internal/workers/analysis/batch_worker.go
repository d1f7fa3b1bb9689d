package analysis

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"marketlens/internal/adapters/kafka"
	domain "marketlens/internal/domain/analysis"
	"marketlens/internal/domain/macro"
	analysisservice "marketlens/internal/services/analysis"
	"marketlens/internal/workers"
	"marketlens/pkg/errors"
)

const (
	lockKey = "batch:analysis"

	eventReport  = "analysis_report"
	eventSummary = "batch_summary"
)

// Locker guards against two instances running the same batch
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// Publisher sends encoded events to a topic
type Publisher interface {
	PublishBatch(ctx context.Context, topic string, messages []kafka.Message) error
}

// Runner analyzes a symbol list against one macro snapshot
type Runner interface {
	Run(ctx context.Context, symbols []string, regime *macro.Regime) []domain.BatchResult
}

// BatchSummary is published once per completed batch
type BatchSummary struct {
	BatchID     uuid.UUID               `json:"batch_id"`
	StartedAt   time.Time               `json:"started_at"`
	Duration    time.Duration           `json:"duration"`
	MacroBucket string                  `json:"macro_bucket"`
	Counts      analysisservice.Summary `json:"counts"`
	Failures    map[string]string       `json:"failures,omitempty"`
}

// Config for the batch worker. Empty topics fall back to the kafka package defaults.
type Config struct {
	Symbols      []string
	Interval     time.Duration
	Timeout      time.Duration
	Enabled      bool
	ReportsTopic string
	SummaryTopic string
}

// BatchWorker periodically analyzes the configured symbols and publishes the reports
type BatchWorker struct {
	*workers.BaseWorker
	runner    Runner
	macro     macro.Provider
	locker    Locker
	publisher Publisher
	symbols   []string
	timeout   time.Duration

	reportsTopic string
	summaryTopic string
}

// NewBatchWorker creates the worker. macro, locker and publisher may be nil.
func NewBatchWorker(cfg Config, runner Runner, macroProvider macro.Provider, locker Locker, publisher Publisher) *BatchWorker {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	w := &BatchWorker{
		BaseWorker:   workers.NewBaseWorker("analysis_batch", cfg.Interval, cfg.Enabled),
		runner:       runner,
		macro:        macroProvider,
		locker:       locker,
		publisher:    publisher,
		symbols:      cfg.Symbols,
		timeout:      timeout,
		reportsTopic: cfg.ReportsTopic,
		summaryTopic: cfg.SummaryTopic,
	}
	if w.reportsTopic == "" {
		w.reportsTopic = kafka.TopicReports
	}
	if w.summaryTopic == "" {
		w.summaryTopic = kafka.TopicBatchSummaries
	}
	return w
}

// Run executes one batch
func (w *BatchWorker) Run(ctx context.Context) error {
	if len(w.symbols) == 0 {
		w.Log().Debug("No symbols configured")
		return nil
	}

	if w.locker != nil {
		acquired, err := w.locker.AcquireLock(ctx, lockKey, w.timeout)
		if err != nil {
			return errors.Wrap(err, "acquire batch lock")
		}
		if !acquired {
			w.Log().Infow("Batch already running elsewhere, skipping")
			return nil
		}
		defer func() {
			// the batch context may be gone by now
			if err := w.locker.ReleaseLock(context.Background(), lockKey); err != nil {
				w.Log().Warnw("Failed to release batch lock", "error", err)
			}
		}()
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	started := time.Now()
	regime := w.currentRegime(ctx)
	results := w.runner.Run(ctx, w.symbols, regime)

	summary := BatchSummary{
		BatchID:     uuid.New(),
		StartedAt:   started.UTC(),
		Duration:    time.Since(started),
		MacroBucket: regime.Bucket(),
		Counts:      analysisservice.Summarize(results),
		Failures:    failures(results),
	}

	var exposure float64
	for _, r := range results {
		if r.Report != nil && r.Report.Risk.Approved && r.Report.Recommendation.Sizing != nil {
			exposure += r.Report.Recommendation.Sizing.PositionValue
		}
	}

	w.Log().Infow("Batch complete",
		"batch_id", summary.BatchID,
		"symbols", summary.Counts.Total,
		"succeeded", summary.Counts.Succeeded,
		"approved", summary.Counts.Approved,
		"insufficient", summary.Counts.Insufficient,
		"failed", summary.Counts.Failed,
		"macro", summary.MacroBucket,
		"exposure", humanize.CommafWithDigits(exposure, 2),
		"started", humanize.Time(started),
		"duration", summary.Duration,
	)

	w.reportFailures(ctx, summary.BatchID, results)

	if err := w.publish(ctx, summary, results); err != nil {
		return err
	}

	if summary.Counts.Total > 0 && summary.Counts.Failed == summary.Counts.Total {
		return errors.Wrapf(errors.ErrProviderUnavailable, "all %d symbols failed", summary.Counts.Total)
	}
	return nil
}

func (w *BatchWorker) currentRegime(ctx context.Context) *macro.Regime {
	if w.macro == nil {
		return nil
	}
	regime, err := w.macro.Current(ctx)
	if err != nil {
		w.Log().Warnw("Macro snapshot unavailable, running technical-only", "error", err)
		return nil
	}
	return regime
}

func (w *BatchWorker) publish(ctx context.Context, summary BatchSummary, results []domain.BatchResult) error {
	if w.publisher == nil {
		return nil
	}

	batchID := summary.BatchID.String()
	messages := make([]kafka.Message, 0, len(results))
	for _, r := range results {
		if r.Report == nil {
			continue
		}
		messages = append(messages, kafka.Message{
			Key:     r.Symbol,
			Value:   r.Report,
			Headers: map[string]string{kafka.HeaderEventType: eventReport, kafka.HeaderBatchID: batchID},
		})
	}

	if err := w.publisher.PublishBatch(ctx, w.reportsTopic, messages); err != nil {
		return errors.Wrap(err, "publish reports")
	}

	err := w.publisher.PublishBatch(ctx, w.summaryTopic, []kafka.Message{{
		Key:     batchID,
		Value:   summary,
		Headers: map[string]string{kafka.HeaderEventType: eventSummary, kafka.HeaderBatchID: batchID},
	}})
	return errors.Wrap(err, "publish batch summary")
}

// reportFailures sends unexpected symbol failures to the error tracker.
// Short history is routine and only counted.
func (w *BatchWorker) reportFailures(ctx context.Context, batchID uuid.UUID, results []domain.BatchResult) {
	for _, r := range results {
		if r.Err == nil || errors.Is(r.Err, errors.ErrInsufficientData) {
			continue
		}
		w.Log().ErrorWithContext(ctx, r.Err, map[string]string{
			"symbol":   r.Symbol,
			"batch_id": batchID.String(),
		})
	}
}

func failures(results []domain.BatchResult) map[string]string {
	var out map[string]string
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[r.Symbol] = r.Err.Error()
	}
	return out
}
