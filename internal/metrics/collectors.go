package metrics

import (
	"context"
	"time"

	"marketlens/pkg/logger"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// CustomCollector collects data freshness metrics from the stores on every scrape
type CustomCollector struct {
	log        *logger.Logger
	postgres   *sqlx.DB
	clickhouse driver.Conn
	redis      *redis.Client

	// Descriptors
	symbolMetadata   *prometheus.Desc
	macroSnapshotAge *prometheus.Desc
	freshSymbols     *prometheus.Desc
	cachedKeys       *prometheus.Desc
}

// NewCustomCollector creates a new custom metrics collector. Any store may be nil.
func NewCustomCollector(log *logger.Logger, postgres *sqlx.DB, clickhouse driver.Conn, redis *redis.Client) *CustomCollector {
	return &CustomCollector{
		log:        log,
		postgres:   postgres,
		clickhouse: clickhouse,
		redis:      redis,

		symbolMetadata: prometheus.NewDesc(
			"marketlens_symbol_metadata_total",
			"Number of symbols with stored metadata",
			nil, nil,
		),
		macroSnapshotAge: prometheus.NewDesc(
			"marketlens_macro_snapshot_age_seconds",
			"Age of the latest macro regime snapshot",
			nil, nil,
		),
		freshSymbols: prometheus.NewDesc(
			"marketlens_fresh_symbols",
			"Symbols with a bar in the last 7 days by timeframe",
			[]string{"timeframe"}, nil,
		),
		cachedKeys: prometheus.NewDesc(
			"marketlens_redis_keys",
			"Number of keys in the report cache database",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.symbolMetadata
	ch <- c.macroSnapshotAge
	ch <- c.freshSymbols
	ch <- c.cachedKeys
}

// Collect implements prometheus.Collector
func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if c.postgres != nil {
		c.collectSymbolMetadata(ctx, ch)
		c.collectMacroSnapshotAge(ctx, ch)
	}
	if c.clickhouse != nil {
		c.collectFreshSymbols(ctx, ch)
	}
	if c.redis != nil {
		c.collectCachedKeys(ctx, ch)
	}
}

func (c *CustomCollector) collectSymbolMetadata(ctx context.Context, ch chan<- prometheus.Metric) {
	var count int
	err := c.postgres.GetContext(ctx, &count, "SELECT COUNT(*) FROM symbol_metadata")
	if err != nil {
		c.log.Errorw("Failed to collect symbol metadata count", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(
		c.symbolMetadata,
		prometheus.GaugeValue,
		float64(count),
	)
}

func (c *CustomCollector) collectMacroSnapshotAge(ctx context.Context, ch chan<- prometheus.Metric) {
	var asOf time.Time
	err := c.postgres.GetContext(ctx, &asOf, "SELECT MAX(as_of) FROM macro_regimes")
	if err != nil {
		c.log.Debugw("No macro snapshot age available", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(
		c.macroSnapshotAge,
		prometheus.GaugeValue,
		time.Since(asOf).Seconds(),
	)
}

func (c *CustomCollector) collectFreshSymbols(ctx context.Context, ch chan<- prometheus.Metric) {
	rows, err := c.clickhouse.Query(ctx, `
		SELECT timeframe, uniqExact(symbol) AS symbols
		FROM price_bars
		WHERE date > now() - INTERVAL 7 DAY
		GROUP BY timeframe
	`)
	if err != nil {
		c.log.Errorw("Failed to collect fresh symbols", "error", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var (
			timeframe string
			symbols   uint64
		)
		if err := rows.Scan(&timeframe, &symbols); err != nil {
			c.log.Errorw("Failed to scan fresh symbols", "error", err)
			return
		}
		ch <- prometheus.MustNewConstMetric(
			c.freshSymbols,
			prometheus.GaugeValue,
			float64(symbols),
			timeframe,
		)
	}
}

func (c *CustomCollector) collectCachedKeys(ctx context.Context, ch chan<- prometheus.Metric) {
	size, err := c.redis.DBSize(ctx).Result()
	if err != nil {
		c.log.Errorw("Failed to collect redis key count", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(
		c.cachedKeys,
		prometheus.GaugeValue,
		float64(size),
	)
}

// RegisterCustomCollector registers the custom collector
func RegisterCustomCollector(collector *CustomCollector) {
	prometheus.MustRegister(collector)
}
