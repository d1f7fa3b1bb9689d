package clickhouse

import (
	"context"
	"fmt"
	"time"

	"marketlens/internal/domain/market_data"
	"marketlens/pkg/clock"
	"marketlens/pkg/errors"
)

// Compile-time check
var _ market_data.SeriesProvider = (*PriceBarRepository)(nil)

// Querier is the subset of the ClickHouse client used by the repositories
type Querier interface {
	Exec(ctx context.Context, query string, args ...interface{}) error
	Select(ctx context.Context, operation string, dest interface{}, query string, args ...interface{}) error
	InsertBatch(ctx context.Context, query string, rows ...interface{}) error
}

// PriceBarsSchema creates the OHLCV table. The %s placeholder is the table name.
const PriceBarsSchema = `
	CREATE TABLE IF NOT EXISTS %s (
		symbol    LowCardinality(String),
		timeframe LowCardinality(String),
		date      DateTime64(3, 'UTC'),
		open      Float64,
		high      Float64,
		low       Float64,
		close     Float64,
		volume    Float64
	)
	ENGINE = ReplacingMergeTree()
	ORDER BY (symbol, timeframe, date)
`

// priceBarRow is the stored form of a bar
type priceBarRow struct {
	Symbol    string    `ch:"symbol"`
	Timeframe string    `ch:"timeframe"`
	Date      time.Time `ch:"date"`
	Open      float64   `ch:"open"`
	High      float64   `ch:"high"`
	Low       float64   `ch:"low"`
	Close     float64   `ch:"close"`
	Volume    float64   `ch:"volume"`
}

// Lookback caps how far back each timeframe is read. Zero reads the whole history.
type Lookback map[market_data.Timeframe]time.Duration

// PriceBarRepository serves price series from the price_bars table
type PriceBarRepository struct {
	db       Querier
	table    string
	lookback Lookback
	clock    clock.Clock
}

// NewPriceBarRepository creates a new price bar repository
func NewPriceBarRepository(db Querier, lookback Lookback) *PriceBarRepository {
	return &PriceBarRepository{
		db:       db,
		table:    "price_bars",
		lookback: lookback,
		clock:    clock.System{},
	}
}

// WithTable points the repository at another table (integration tests)
func (r *PriceBarRepository) WithTable(table string) *PriceBarRepository {
	r.table = table
	return r
}

// WithClock sets the clock used to compute the lookback window
func (r *PriceBarRepository) WithClock(clk clock.Clock) *PriceBarRepository {
	r.clock = clk
	return r
}

// Migrate creates the table if it does not exist
func (r *PriceBarRepository) Migrate(ctx context.Context) error {
	return errors.Wrap(r.db.Exec(ctx, fmt.Sprintf(PriceBarsSchema, r.table)), "create price bars table")
}

// GetSeries implements market_data.SeriesProvider. Bars come back oldest first.
// FINAL collapses rows rewritten by repeated backfills.
func (r *PriceBarRepository) GetSeries(ctx context.Context, symbol string, timeframe market_data.Timeframe) ([]market_data.PriceBar, error) {
	if !timeframe.Valid() {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "timeframe %q", timeframe)
	}

	query := fmt.Sprintf(`
		SELECT symbol, timeframe, date, open, high, low, close, volume
		FROM %s FINAL
		WHERE symbol = ? AND timeframe = ? AND date >= ?
		ORDER BY date ASC`, r.table)

	var rows []priceBarRow
	if err := r.db.Select(ctx, "select_series", &rows, query, symbol, timeframe.String(), r.since(timeframe)); err != nil {
		return nil, errors.Wrapf(err, "select %s %s bars", symbol, timeframe)
	}

	bars := make([]market_data.PriceBar, len(rows))
	for i, row := range rows {
		bars[i] = market_data.PriceBar{
			Date:   row.Date.UTC(),
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		}
	}
	return bars, nil
}

// LatestClose returns the most recent close of a series
func (r *PriceBarRepository) LatestClose(ctx context.Context, symbol string, timeframe market_data.Timeframe) (float64, error) {
	query := fmt.Sprintf(`
		SELECT symbol, timeframe, date, open, high, low, close, volume
		FROM %s FINAL
		WHERE symbol = ? AND timeframe = ?
		ORDER BY date DESC
		LIMIT 1`, r.table)

	var rows []priceBarRow
	if err := r.db.Select(ctx, "select_latest", &rows, query, symbol, timeframe.String()); err != nil {
		return 0, errors.Wrapf(err, "select latest %s %s bar", symbol, timeframe)
	}
	if len(rows) == 0 {
		return 0, errors.Wrapf(errors.ErrNotFound, "no %s bars for %s", timeframe, symbol)
	}
	return rows[0].Close, nil
}

// InsertBars stores bars for a symbol and timeframe in one batch
func (r *PriceBarRepository) InsertBars(ctx context.Context, symbol string, timeframe market_data.Timeframe, bars []market_data.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	rows := make([]interface{}, len(bars))
	for i, bar := range bars {
		rows[i] = &priceBarRow{
			Symbol:    symbol,
			Timeframe: timeframe.String(),
			Date:      bar.Date.UTC(),
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.Volume,
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (symbol, timeframe, date, open, high, low, close, volume)", r.table)
	return errors.Wrapf(r.db.InsertBatch(ctx, query, rows...), "insert %d %s %s bars", len(bars), symbol, timeframe)
}

func (r *PriceBarRepository) since(timeframe market_data.Timeframe) time.Time {
	window, ok := r.lookback[timeframe]
	if !ok || window <= 0 {
		return time.Unix(0, 0).UTC()
	}
	return r.clock.Now().Add(-window)
}
