package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"marketlens/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	ErrorTracking ErrorTrackingConfig
	Engine        EngineConfig
	Batch         BatchConfig
	Provider      ProviderConfig
	Cache         CacheConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"marketlens"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type HTTPConfig struct {
	Port int `envconfig:"HTTP_PORT" default:"8080"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST" required:"true"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"marketlens"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" required:"true"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaConfig struct {
	Enabled      bool     `envconfig:"KAFKA_ENABLED" default:"true"`
	Brokers      []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	ReportsTopic string   `envconfig:"KAFKA_REPORTS_TOPIC" default:"analysis.reports"`
	SummaryTopic string   `envconfig:"KAFKA_SUMMARY_TOPIC" default:"analysis.batches"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// EngineConfig overrides the tunable parts of the analysis pipeline
type EngineConfig struct {
	BaseRiskPercent          float64       `envconfig:"ENGINE_BASE_RISK_PERCENT" default:"0.02"` // fraction of equity
	MinConfidence            float64       `envconfig:"ENGINE_MIN_CONFIDENCE" default:"40"`
	MaxDataAge               time.Duration `envconfig:"ENGINE_MAX_DATA_AGE" default:"168h"`
	VolatilityIndexThreshold float64       `envconfig:"ENGINE_VOLATILITY_INDEX_THRESHOLD" default:"30"`
	VolatilityIndexSymbol    string        `envconfig:"ENGINE_VOLATILITY_INDEX_SYMBOL" default:"^VIX"`
	SizingEnabled            bool          `envconfig:"ENGINE_SIZING_ENABLED" default:"false"`
	AccountValue             float64       `envconfig:"ENGINE_ACCOUNT_VALUE" default:"0"`
	RulesFile                string        `envconfig:"ENGINE_RULES_FILE"` // optional YAML overrides of weights and bias tables
}

type BatchConfig struct {
	Symbols     []string      `envconfig:"BATCH_SYMBOLS" default:"SPY,QQQ,AAPL,MSFT,GLD,TLT,BTC-USD,ETH-USD"`
	Interval    time.Duration `envconfig:"BATCH_INTERVAL" default:"1h"`
	Concurrency int           `envconfig:"BATCH_CONCURRENCY" default:"5"`
	Timeout     time.Duration `envconfig:"BATCH_TIMEOUT" default:"5m"`
}

// ProviderConfig controls the decorators around the price series source
type ProviderConfig struct {
	RateLimit       float64       `envconfig:"PROVIDER_RATE_LIMIT" default:"20"` // requests per second
	RateBurst       int           `envconfig:"PROVIDER_RATE_BURST" default:"5"`
	BreakerFailures uint32        `envconfig:"PROVIDER_BREAKER_FAILURES" default:"5"`
	BreakerOpenFor  time.Duration `envconfig:"PROVIDER_BREAKER_OPEN_FOR" default:"30s"`
	RetryMaxElapsed time.Duration `envconfig:"PROVIDER_RETRY_MAX_ELAPSED" default:"10s"`
	RetryInitial    time.Duration `envconfig:"PROVIDER_RETRY_INITIAL" default:"200ms"`
	DailyLookback   time.Duration `envconfig:"PROVIDER_DAILY_LOOKBACK" default:"17520h"`  // two years
	WeeklyLookback  time.Duration `envconfig:"PROVIDER_WEEKLY_LOOKBACK" default:"26280h"` // three years
	HourlyLookback  time.Duration `envconfig:"PROVIDER_HOURLY_LOOKBACK" default:"720h"`
}

type CacheConfig struct {
	Enabled bool          `envconfig:"CACHE_ENABLED" default:"true"`
	TTL     time.Duration `envconfig:"CACHE_TTL" default:"15m"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	switch {
	case c.Engine.BaseRiskPercent <= 0 || c.Engine.BaseRiskPercent > 0.1:
		return errors.Wrapf(errors.ErrInvalidInput, "ENGINE_BASE_RISK_PERCENT %.4f outside (0, 0.1]", c.Engine.BaseRiskPercent)
	case c.Engine.MinConfidence < 0 || c.Engine.MinConfidence > 100:
		return errors.Wrapf(errors.ErrInvalidInput, "ENGINE_MIN_CONFIDENCE %.1f outside [0, 100]", c.Engine.MinConfidence)
	case c.Engine.SizingEnabled && c.Engine.AccountValue <= 0:
		return errors.Wrap(errors.ErrInvalidInput, "ENGINE_SIZING_ENABLED requires a positive ENGINE_ACCOUNT_VALUE")
	case c.Batch.Concurrency <= 0:
		return errors.Wrapf(errors.ErrInvalidInput, "BATCH_CONCURRENCY must be positive, got %d", c.Batch.Concurrency)
	case len(c.Batch.Symbols) == 0:
		return errors.Wrap(errors.ErrInvalidInput, "BATCH_SYMBOLS is empty")
	}
	return nil
}
