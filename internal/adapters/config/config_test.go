package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/pkg/errors"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_USER", "marketlens")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "marketlens")
	t.Setenv("CLICKHOUSE_HOST", "localhost")
	t.Setenv("REDIS_HOST", "localhost")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "marketlens", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 0.02, cfg.Engine.BaseRiskPercent)
	assert.Equal(t, 40.0, cfg.Engine.MinConfidence)
	assert.Equal(t, 168*time.Hour, cfg.Engine.MaxDataAge)
	assert.Equal(t, "^VIX", cfg.Engine.VolatilityIndexSymbol)
	assert.Equal(t, []string{"SPY", "QQQ", "AAPL", "MSFT", "GLD", "TLT", "BTC-USD", "ETH-USD"}, cfg.Batch.Symbols)
	assert.Equal(t, uint32(5), cfg.Provider.BreakerFailures)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Contains(t, cfg.Postgres.DSN(), "dbname=marketlens")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENGINE_BASE_RISK_PERCENT", "0.01")
	t.Setenv("ENGINE_SIZING_ENABLED", "true")
	t.Setenv("ENGINE_ACCOUNT_VALUE", "100000")
	t.Setenv("BATCH_SYMBOLS", "AAPL,BTC-USD")
	t.Setenv("BATCH_INTERVAL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.01, cfg.Engine.BaseRiskPercent)
	assert.True(t, cfg.Engine.SizingEnabled)
	assert.Equal(t, 100000.0, cfg.Engine.AccountValue)
	assert.Equal(t, []string{"AAPL", "BTC-USD"}, cfg.Batch.Symbols)
	assert.Equal(t, 30*time.Minute, cfg.Batch.Interval)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("CLICKHOUSE_HOST", "")
	require.NoError(t, os.Unsetenv("CLICKHOUSE_HOST"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Engine: EngineConfig{BaseRiskPercent: 0.02, MinConfidence: 40},
			Batch:  BatchConfig{Symbols: []string{"AAPL"}, Concurrency: 5},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero risk", func(c *Config) { c.Engine.BaseRiskPercent = 0 }, "ENGINE_BASE_RISK_PERCENT"},
		{"risk too high", func(c *Config) { c.Engine.BaseRiskPercent = 0.2 }, "ENGINE_BASE_RISK_PERCENT"},
		{"confidence above 100", func(c *Config) { c.Engine.MinConfidence = 120 }, "ENGINE_MIN_CONFIDENCE"},
		{"sizing without account", func(c *Config) { c.Engine.SizingEnabled = true }, "ENGINE_ACCOUNT_VALUE"},
		{"no concurrency", func(c *Config) { c.Batch.Concurrency = 0 }, "BATCH_CONCURRENCY"},
		{"no symbols", func(c *Config) { c.Batch.Symbols = nil }, "BATCH_SYMBOLS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
