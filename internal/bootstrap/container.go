package bootstrap

import (
	"context"
	"sync"

	chclient "marketlens/internal/adapters/clickhouse"
	"marketlens/internal/adapters/config"
	"marketlens/internal/adapters/kafka"
	"marketlens/internal/adapters/marketdata"
	pgclient "marketlens/internal/adapters/postgres"
	redisclient "marketlens/internal/adapters/redis"
	"marketlens/internal/api"
	"marketlens/internal/api/health"
	chrepo "marketlens/internal/repository/clickhouse"
	pgrepo "marketlens/internal/repository/postgres"
	"marketlens/internal/services/analysis"
	"marketlens/internal/workers"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// Container holds all application dependencies and their lifecycle.
// Components are organized in initialization order.
type Container struct {
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Data stores
	PG    *pgclient.Client
	CH    *chclient.Client
	Redis *redisclient.Client

	Repos       *Repositories
	Adapters    *Adapters
	Services    *Services
	Application *Application
	Background  *Background

	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Repositories groups the store-backed collaborators of the analyzer
type Repositories struct {
	PriceBars       *chrepo.PriceBarRepository
	VolatilityIndex *chrepo.VolatilityIndexProvider
	SymbolMetadata  *pgrepo.SymbolMetadataRepository
	MacroRegime     *pgrepo.MacroRegimeRepository
}

// Adapters groups external adapters
type Adapters struct {
	KafkaProducer *kafka.Producer // nil when Kafka is disabled
	Series        *marketdata.GuardedProvider
}

// Services groups the analysis pipeline
type Services struct {
	Analyzer *analysis.Analyzer
	Reports  *analysis.ReportCache
	Batch    *analysis.BatchRunner
}

// Application groups the HTTP surface
type Application struct {
	HTTPServer    *api.Server
	HealthHandler *health.Handler
}

// Background groups background processing components
type Background struct {
	WorkerScheduler *workers.Scheduler
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Repos:       &Repositories{},
		Adapters:    &Adapters{},
		Services:    &Services{},
		Application: &Application{},
		Background:  &Background{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
	}
}

// MustInitCore initializes everything a one-shot analysis needs.
// Panics on any initialization error (fail-fast at startup).
func (c *Container) MustInitCore() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitRepositories()
	c.MustInitAdapters()
	c.MustInitServices()
}

// MustInit initializes the full service: core, HTTP surface and workers
func (c *Container) MustInit() {
	c.MustInitCore()
	c.MustInitApplication()
	c.MustInitBackground()
}

// Start starts the HTTP server and the worker scheduler
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorw("HTTP server failed", "error", err)
			c.Cancel() // fatal HTTP error triggers shutdown
		}
	}()

	if err := c.Background.WorkerScheduler.Start(c.Context); err != nil {
		return errors.Wrap(err, "failed to start workers")
	}

	c.Log.Info("All systems operational")
	return nil
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")
	c.Cancel()

	c.Lifecycle.Shutdown(c.WG, ShutdownTargets{
		HTTPServer:      c.Application.HTTPServer,
		WorkerScheduler: c.Background.WorkerScheduler,
		KafkaProducer:   c.Adapters.KafkaProducer,
		Postgres:        c.PG,
		ClickHouse:      c.CH,
		Redis:           c.Redis,
		ErrorTracker:    c.ErrorTracker,
	}, c.Log)
}

// Close releases the stores after a one-shot run
func (c *Container) Close() {
	c.Cancel()
	c.Lifecycle.closeDatabases(c.PG, c.CH, c.Redis, c.Log)
	c.Lifecycle.flushErrorTracker(c.ErrorTracker, context.Background(), c.Log)
	_ = logger.Sync()
}
