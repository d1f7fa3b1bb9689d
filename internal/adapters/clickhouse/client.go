package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"marketlens/internal/adapters/config"
	"marketlens/internal/metrics"
	"marketlens/pkg/errors"
)

// Client wraps a ClickHouse connection and records query metrics
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client
func NewClient(cfg config.ClickHouseConfig) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 30,
		},
		DialTimeout:  5 * time.Second,
		MaxOpenConns: 10,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to clickhouse")
	}

	// Verify connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, errors.Wrap(err, "failed to ping clickhouse")
	}

	return &Client{conn: conn}, nil
}

// Conn returns the underlying ClickHouse connection
func (c *Client) Conn() driver.Conn {
	return c.conn
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Health checks ClickHouse connectivity
func (c *Client) Health(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Exec executes a statement without returning rows
func (c *Client) Exec(ctx context.Context, query string, args ...interface{}) error {
	start := time.Now()
	err := c.conn.Exec(ctx, query, args...)
	metrics.RecordDBQuery("clickhouse", "exec", time.Since(start), err)
	return err
}

// Select scans the result rows into dest (a pointer to a slice of structs with ch tags).
// operation labels the query in metrics.
func (c *Client) Select(ctx context.Context, operation string, dest interface{}, query string, args ...interface{}) error {
	start := time.Now()
	err := c.conn.Select(ctx, dest, query, args...)
	metrics.RecordDBQuery("clickhouse", operation, time.Since(start), err)
	return err
}

// InsertBatch appends every struct in rows to one batch and sends it
func (c *Client) InsertBatch(ctx context.Context, query string, rows ...interface{}) error {
	start := time.Now()
	err := c.insertBatch(ctx, query, rows)
	metrics.RecordDBQuery("clickhouse", "insert", time.Since(start), err)
	return err
}

func (c *Client) insertBatch(ctx context.Context, query string, rows []interface{}) error {
	batch, err := c.conn.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := batch.AppendStruct(row); err != nil {
			_ = batch.Abort()
			return err
		}
	}
	return batch.Send()
}
