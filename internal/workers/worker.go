package workers

import (
	"context"
	"sync"
	"time"

	"marketlens/pkg/logger"
)

// Worker is one periodic job driven by the Scheduler. Run does a single pass and returns.
type Worker interface {
	Name() string
	Run(ctx context.Context) error
	Interval() time.Duration
	Enabled() bool
}

// HealthReporter exposes run statistics, the ops health endpoint lists them per worker
type HealthReporter interface {
	Health() WorkerHealth
}

// WorkerHealth is the run history of one worker as served on /health
type WorkerHealth struct {
	Name              string        `json:"name"`
	Enabled           bool          `json:"enabled"`
	LastRun           time.Time     `json:"last_run"`
	LastSuccess       time.Time     `json:"last_success,omitempty"`
	LastError         string        `json:"last_error,omitempty"`
	RunCount          int64         `json:"run_count"`
	ErrorCount        int64         `json:"error_count"`
	ConsecutiveErrors int64         `json:"consecutive_errors"`
	AvgDuration       time.Duration `json:"avg_duration"`
}

// runStats accumulates outcomes reported by the scheduler
type runStats struct {
	mu sync.RWMutex

	lastRun     time.Time
	lastSuccess time.Time
	lastErr     error
	runs        int64
	failures    int64
	streak      int64 // failures since the last success
	elapsed     time.Duration
}

func (s *runStats) record(at time.Time, duration time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastRun = at
	s.runs++
	s.elapsed += duration
	s.lastErr = err

	if err != nil {
		s.failures++
		s.streak++
		return
	}
	s.lastSuccess = at
	s.streak = 0
}

func (s *runStats) snapshot(name string, enabled bool) WorkerHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := WorkerHealth{
		Name:              name,
		Enabled:           enabled,
		LastRun:           s.lastRun,
		LastSuccess:       s.lastSuccess,
		RunCount:          s.runs,
		ErrorCount:        s.failures,
		ConsecutiveErrors: s.streak,
	}
	if s.runs > 0 {
		h.AvgDuration = s.elapsed / time.Duration(s.runs)
	}
	if s.lastErr != nil {
		h.LastError = s.lastErr.Error()
	}
	return h
}

// BaseWorker carries the name, schedule, logger and run statistics shared by workers.
// Embed it and implement Run.
type BaseWorker struct {
	name     string
	interval time.Duration
	enabled  bool
	log      *logger.Logger
	stats    runStats
}

// NewBaseWorker creates a base worker. The enabled state is fixed for its lifetime.
func NewBaseWorker(name string, interval time.Duration, enabled bool) *BaseWorker {
	return &BaseWorker{
		name:     name,
		interval: interval,
		enabled:  enabled,
		log:      logger.Get().With("worker", name),
	}
}

func (w *BaseWorker) Name() string            { return w.name }
func (w *BaseWorker) Interval() time.Duration { return w.interval }
func (w *BaseWorker) Enabled() bool           { return w.enabled }
func (w *BaseWorker) Log() *logger.Logger     { return w.log }

// Health implements HealthReporter
func (w *BaseWorker) Health() WorkerHealth {
	return w.stats.snapshot(w.name, w.enabled)
}

// RecordRun is called by the scheduler after a successful pass
func (w *BaseWorker) RecordRun(duration time.Duration) {
	w.stats.record(time.Now(), duration, nil)
}

// RecordError is called by the scheduler after a failed or panicking pass
func (w *BaseWorker) RecordError(err error, duration time.Duration) {
	w.stats.record(time.Now(), duration, err)
}
