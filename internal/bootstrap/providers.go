package bootstrap

import (
	chclient "marketlens/internal/adapters/clickhouse"
	"marketlens/internal/adapters/config"
	noopTracker "marketlens/internal/adapters/errors/noop"
	sentryTracker "marketlens/internal/adapters/errors/sentry"
	"marketlens/internal/adapters/kafka"
	"marketlens/internal/adapters/marketdata"
	pgclient "marketlens/internal/adapters/postgres"
	redisclient "marketlens/internal/adapters/redis"
	"marketlens/internal/api"
	"marketlens/internal/api/health"
	"marketlens/internal/domain/market_data"
	"marketlens/internal/metrics"
	chrepo "marketlens/internal/repository/clickhouse"
	pgrepo "marketlens/internal/repository/postgres"
	"marketlens/internal/services/analysis"
	"marketlens/pkg/clock"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s %s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure connects the data stores (Postgres, ClickHouse, Redis)
func (c *Container) MustInitInfrastructure() {
	var err error

	c.Log.Info("Connecting to PostgreSQL...")
	c.PG, err = pgclient.NewClient(c.Config.Postgres)
	if err != nil {
		c.Log.Fatalf("failed to connect postgres: %v", err)
	}
	if err := c.PG.Migrate(c.Context); err != nil {
		c.Log.Fatalf("failed to migrate postgres: %v", err)
	}

	c.Log.Info("Connecting to ClickHouse...")
	c.CH, err = chclient.NewClient(c.Config.ClickHouse)
	if err != nil {
		c.Log.Fatalf("failed to connect clickhouse: %v", err)
	}

	c.Log.Info("Connecting to Redis...")
	c.Redis, err = redisclient.NewClient(c.Config.Redis)
	if err != nil {
		c.Log.Fatalf("failed to connect redis: %v", err)
	}

	c.Log.Info("Data stores connected")
}

// ========================================
// Phase 3: Repositories
// ========================================

// MustInitRepositories initializes the store-backed providers
func (c *Container) MustInitRepositories() {
	p := c.Config.Provider
	c.Repos.PriceBars = chrepo.NewPriceBarRepository(c.CH, chrepo.Lookback{
		market_data.TimeframeDaily:  p.DailyLookback,
		market_data.TimeframeWeekly: p.WeeklyLookback,
		market_data.TimeframeHourly: p.HourlyLookback,
	})
	if err := c.Repos.PriceBars.Migrate(c.Context); err != nil {
		c.Log.Fatalf("failed to migrate clickhouse: %v", err)
	}

	c.Repos.VolatilityIndex = chrepo.NewVolatilityIndexProvider(c.Repos.PriceBars, c.Config.Engine.VolatilityIndexSymbol)
	c.Repos.SymbolMetadata = pgrepo.NewSymbolMetadataRepository(c.PG.DB())
	c.Repos.MacroRegime = pgrepo.NewMacroRegimeRepository(c.PG.DB(), c.Config.Engine.MaxDataAge, clock.System{})

	c.Log.Info("Repositories initialized")
}

// ========================================
// Phase 4: External Adapters
// ========================================

// MustInitAdapters initializes Kafka and the guarded series provider
func (c *Container) MustInitAdapters() {
	c.Adapters.KafkaProducer = provideKafkaProducer(c.Config, c.Log)
	c.Adapters.Series = marketdata.NewGuardedProvider(c.Repos.PriceBars, provideGuardConfig(c.Config.Provider))
	c.Log.Info("Adapters initialized")
}

// ========================================
// Phase 5: Services
// ========================================

// MustInitServices builds the analysis pipeline
func (c *Container) MustInitServices() {
	engineCfg, err := provideAnalysisConfig(c.Config)
	if err != nil {
		c.Log.Fatalf("failed to build engine config: %v", err)
	}

	c.Services.Analyzer = analysis.NewAnalyzer(engineCfg, analysis.Deps{
		Series:          c.Adapters.Series,
		Metadata:        c.Repos.SymbolMetadata,
		VolatilityIndex: c.Repos.VolatilityIndex,
		Clock:           clock.System{},
	})
	c.Services.Reports = analysis.NewReportCache(analysis.CacheConfig{
		Enabled: c.Config.Cache.Enabled,
		TTL:     c.Config.Cache.TTL,
	}, c.Services.Analyzer, c.Redis)
	c.Services.Batch = analysis.NewBatchRunner(c.Services.Reports, engineCfg.BatchConcurrency)

	c.Log.Infow("Analysis pipeline initialized",
		"base_risk", engineCfg.Gate.BaseRiskPercent,
		"min_confidence", engineCfg.Gate.MinConfidence,
		"sizing", engineCfg.Recommendation.Sizing.Enabled,
		"cache", c.Config.Cache.Enabled,
	)
}

// ========================================
// Phase 6: Application Layer
// ========================================

// MustInitApplication builds the HTTP server with probes and metrics
func (c *Container) MustInitApplication() {
	metrics.Init()
	metrics.RegisterCustomCollector(metrics.NewCustomCollector(c.Log, c.PG.DB(), c.CH.Conn(), c.Redis.Client()))

	c.Application.HealthHandler = health.New(c.Log, c.Config.App.Name, c.Config.App.Version).
		WithCheck("postgres", c.PG.Health).
		WithCheck("clickhouse", c.CH.Health).
		WithCheck("redis", c.Redis.Health)

	c.Application.HTTPServer = api.NewServer(api.ServerConfig{
		Port:        c.Config.HTTP.Port,
		ServiceName: c.Config.App.Name,
		Version:     c.Config.App.Version,
	}, c.Application.HealthHandler, c.Log)
}

// ========================================
// Provider helpers
// ========================================

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noopTracker.New()
	}

	tracker, err := sentryTracker.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnw("Failed to init Sentry, falling back to noop tracker", "error", err)
		return noopTracker.New()
	}

	log.Info("Sentry error tracking enabled")
	return tracker
}

func provideKafkaProducer(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	if !cfg.Kafka.Enabled {
		log.Info("Kafka disabled, reports will not be published")
		return nil
	}
	return kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
}

func provideGuardConfig(p config.ProviderConfig) marketdata.Config {
	return marketdata.Config{
		Name:      "clickhouse",
		RateLimit: p.RateLimit,
		RateBurst: p.RateBurst,
		Breaker: marketdata.BreakerConfig{
			ConsecutiveFailures: p.BreakerFailures,
			OpenFor:             p.BreakerOpenFor,
		},
		RetryInitial:    p.RetryInitial,
		RetryMaxElapsed: p.RetryMaxElapsed,
	}
}

// provideAnalysisConfig maps environment settings onto the pipeline defaults,
// then applies the optional rules file
func provideAnalysisConfig(cfg *config.Config) (analysis.Config, error) {
	engine := analysis.DefaultConfig()

	e := cfg.Engine
	engine.Gate.BaseRiskPercent = e.BaseRiskPercent
	engine.Gate.MinConfidence = e.MinConfidence
	engine.Gate.MaxDataAge = e.MaxDataAge
	engine.Gate.VolatilityIndexThreshold = e.VolatilityIndexThreshold
	engine.Recommendation.Sizing.Enabled = e.SizingEnabled
	engine.Recommendation.Sizing.AccountValue = e.AccountValue
	engine.BatchConcurrency = cfg.Batch.Concurrency

	if e.RulesFile != "" {
		if err := analysis.LoadRules(e.RulesFile, &engine); err != nil {
			return analysis.Config{}, errors.Wrapf(err, "load rules %s", e.RulesFile)
		}
	}
	return engine, nil
}
