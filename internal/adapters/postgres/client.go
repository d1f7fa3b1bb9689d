package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"marketlens/internal/adapters/config"
	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
)

// Client wraps sqlx.DB for PostgreSQL operations
type Client struct {
	db *sqlx.DB
}

// NewClient creates a new PostgreSQL client with connection pooling
func NewClient(cfg config.PostgresConfig) (*Client, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(max(1, cfg.MaxConns/2))
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	// Verify connection
	if err := db.PingContext(context.Background()); err != nil {
		return nil, errors.Wrap(err, "failed to ping postgres")
	}

	return &Client{db: db}, nil
}

// DB returns the underlying sqlx.DB instance
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Health checks database connectivity
func (c *Client) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Migrate creates the tables read by the repositories when they do not exist
func (c *Client) Migrate(ctx context.Context) error {
	start := time.Now()
	_, err := c.db.ExecContext(ctx, Schema)
	metrics.RecordDBQuery("postgres", "migrate", time.Since(start), err)
	return errors.Wrap(err, "apply postgres schema")
}

// Schema is the relational schema: symbol descriptions and macro regime snapshots
const Schema = `
CREATE TABLE IF NOT EXISTS symbol_metadata (
    symbol     TEXT PRIMARY KEY,
    type       TEXT NOT NULL DEFAULT '',
    sector     TEXT NOT NULL DEFAULT '',
    industry   TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS macro_regimes (
    id            BIGSERIAL PRIMARY KEY,
    phase         TEXT NOT NULL,
    cycle_stage   TEXT NOT NULL,
    fed_policy    TEXT NOT NULL,
    dollar_regime TEXT NOT NULL,
    liquidity     TEXT NOT NULL,
    confidence    DOUBLE PRECISION NOT NULL DEFAULT 0,
    as_of         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_macro_regimes_as_of ON macro_regimes (as_of DESC);
`
