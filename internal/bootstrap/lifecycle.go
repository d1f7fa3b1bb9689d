package bootstrap

import (
	"context"
	"sync"
	"time"

	chclient "marketlens/internal/adapters/clickhouse"
	"marketlens/internal/adapters/kafka"
	pgclient "marketlens/internal/adapters/postgres"
	redisclient "marketlens/internal/adapters/redis"
	"marketlens/internal/api"
	"marketlens/internal/workers"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// Lifecycle manages graceful shutdown of components
type Lifecycle struct {
	shutdownTimeout time.Duration
}

// NewLifecycle creates a new lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownTimeout: 6 * time.Minute, // longest batch plus cleanup
	}
}

// ShutdownTargets lists what Shutdown closes. Nil entries are skipped.
type ShutdownTargets struct {
	HTTPServer      *api.Server
	WorkerScheduler *workers.Scheduler
	KafkaProducer   *kafka.Producer
	Postgres        *pgclient.Client
	ClickHouse      *chclient.Client
	Redis           *redisclient.Client
	ErrorTracker    errors.Tracker
}

// Shutdown performs coordinated cleanup in order:
// stop accepting requests, let the running batch finish, flush Kafka,
// flush errors and logs, close the stores last.
func (l *Lifecycle) Shutdown(wg *sync.WaitGroup, t ShutdownTargets, log *logger.Logger) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer shutdownCancel()

	log.Info("[1/6] Stopping HTTP server...")
	if t.HTTPServer != nil {
		httpCtx, httpCancel := context.WithTimeout(shutdownCtx, 5*time.Second)
		if err := t.HTTPServer.Shutdown(httpCtx); err != nil {
			log.Errorw("HTTP server shutdown failed", "error", err)
		}
		httpCancel()
	}

	log.Info("[2/6] Stopping background workers...")
	if t.WorkerScheduler != nil && t.WorkerScheduler.IsRunning() {
		if err := t.WorkerScheduler.Stop(); err != nil {
			log.Errorw("Workers shutdown failed", "error", err)
		}
	}
	l.waitForGoroutines(wg, 5*time.Second, log)

	log.Info("[3/6] Closing Kafka producer...")
	if t.KafkaProducer != nil {
		if err := t.KafkaProducer.Close(); err != nil {
			log.Errorw("Kafka producer close failed", "error", err)
		}
	}

	log.Info("[4/6] Flushing error tracker...")
	l.flushErrorTracker(t.ErrorTracker, shutdownCtx, log)

	log.Info("[5/6] Syncing logs...")
	_ = logger.Sync()

	// LAST, other components may need them during shutdown
	log.Info("[6/6] Closing database connections...")
	l.closeDatabases(t.Postgres, t.ClickHouse, t.Redis, log)

	log.Info("Graceful shutdown complete")
}

// waitForGoroutines waits for all goroutines with a timeout
func (l *Lifecycle) waitForGoroutines(wg *sync.WaitGroup, timeout time.Duration, log *logger.Logger) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		log.Warnw("Some goroutines did not finish within timeout", "timeout", timeout)
	}
}

// flushErrorTracker flushes the error tracker (Sentry, etc.)
func (l *Lifecycle) flushErrorTracker(tracker errors.Tracker, ctx context.Context, log *logger.Logger) {
	if tracker == nil {
		return
	}

	flushCtx, flushCancel := context.WithTimeout(ctx, 3*time.Second)
	defer flushCancel()

	if err := tracker.Flush(flushCtx); err != nil {
		log.Errorw("Error tracker flush failed", "error", err)
	}
}

// closeDatabases closes all database connections
func (l *Lifecycle) closeDatabases(
	pgClient *pgclient.Client,
	chClient *chclient.Client,
	redisClient *redisclient.Client,
	log *logger.Logger,
) {
	var dbErrors errors.MultiError

	if pgClient != nil {
		dbErrors.Add(errors.Wrap(pgClient.Close(), "postgres"))
	}
	if chClient != nil {
		dbErrors.Add(errors.Wrap(chClient.Close(), "clickhouse"))
	}
	if redisClient != nil {
		dbErrors.Add(errors.Wrap(redisClient.Close(), "redis"))
	}

	if dbErrors.HasErrors() {
		log.Errorw("Database close errors", "errors", dbErrors.Errors)
	} else {
		log.Info("Database connections closed")
	}
}
