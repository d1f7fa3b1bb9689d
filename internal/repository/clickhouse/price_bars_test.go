package clickhouse

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/domain/market_data"
	"marketlens/internal/testsupport"
	"marketlens/pkg/clock"
	"marketlens/pkg/errors"
)

// fakeQuerier records queries and fills Select destinations with canned rows
type fakeQuerier struct {
	rows     []priceBarRow
	err      error
	queries  []string
	args     [][]interface{}
	inserted []interface{}
}

func (f *fakeQuerier) Exec(ctx context.Context, query string, args ...interface{}) error {
	f.queries = append(f.queries, query)
	return f.err
}

func (f *fakeQuerier) Select(ctx context.Context, operation string, dest interface{}, query string, args ...interface{}) error {
	f.queries = append(f.queries, query)
	f.args = append(f.args, args)
	if f.err != nil {
		return f.err
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(f.rows))
	return nil
}

func (f *fakeQuerier) InsertBatch(ctx context.Context, query string, rows ...interface{}) error {
	f.queries = append(f.queries, query)
	f.inserted = append(f.inserted, rows...)
	return f.err
}

var now = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func TestPriceBarRepository_GetSeries(t *testing.T) {
	day := time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)
	db := &fakeQuerier{rows: []priceBarRow{
		{Symbol: "AAPL", Timeframe: "daily", Date: day, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Symbol: "AAPL", Timeframe: "daily", Date: day.Add(24 * time.Hour), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 200},
	}}

	repo := NewPriceBarRepository(db, Lookback{market_data.TimeframeDaily: 48 * time.Hour}).
		WithClock(clock.NewFixed(now))

	bars, err := repo.GetSeries(context.Background(), "AAPL", market_data.TimeframeDaily)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, market_data.PriceBar{Date: day, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100}, bars[0])
	assert.Equal(t, 2.0, bars[1].Close)

	require.Len(t, db.args, 1)
	assert.Equal(t, []interface{}{"AAPL", "daily", now.Add(-48 * time.Hour)}, db.args[0])
	assert.Contains(t, db.queries[0], "FROM price_bars FINAL")
	assert.Contains(t, db.queries[0], "ORDER BY date ASC")
}

func TestPriceBarRepository_NoLookbackReadsAll(t *testing.T) {
	db := &fakeQuerier{}
	repo := NewPriceBarRepository(db, nil)

	bars, err := repo.GetSeries(context.Background(), "BTC-USD", market_data.TimeframeWeekly)
	require.NoError(t, err)
	assert.Empty(t, bars, "a short or empty series is not an error")
	assert.Equal(t, time.Unix(0, 0).UTC(), db.args[0][2])
}

func TestPriceBarRepository_Errors(t *testing.T) {
	repo := NewPriceBarRepository(&fakeQuerier{err: errors.New("code: 60, table does not exist")}, nil)

	_, err := repo.GetSeries(context.Background(), "AAPL", market_data.TimeframeDaily)
	assert.ErrorContains(t, err, "select AAPL daily bars")

	_, err = repo.GetSeries(context.Background(), "AAPL", market_data.Timeframe("monthly"))
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestPriceBarRepository_InsertBars(t *testing.T) {
	db := &fakeQuerier{}
	repo := NewPriceBarRepository(db, nil).WithTable("bars_test")

	bars := testsupport.NewSeriesFixture("ETH-USD").WithBars(3).Bars()
	require.NoError(t, repo.InsertBars(context.Background(), "ETH-USD", market_data.TimeframeDaily, bars))

	require.Len(t, db.inserted, 3)
	row := db.inserted[2].(*priceBarRow)
	assert.Equal(t, "ETH-USD", row.Symbol)
	assert.Equal(t, "daily", row.Timeframe)
	assert.Equal(t, bars[2].Close, row.Close)
	assert.Contains(t, db.queries[0], "INSERT INTO bars_test")

	require.NoError(t, repo.InsertBars(context.Background(), "ETH-USD", market_data.TimeframeDaily, nil))
	assert.Len(t, db.queries, 1, "empty input issues no query")
}

func TestVolatilityIndexProvider(t *testing.T) {
	db := &fakeQuerier{rows: []priceBarRow{{Symbol: "^VIX", Timeframe: "daily", Date: now, Close: 23.4}}}
	vix := NewVolatilityIndexProvider(NewPriceBarRepository(db, nil), "^VIX")

	value, err := vix.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 23.4, value)
	assert.Equal(t, []interface{}{"^VIX", "daily"}, db.args[0])

	empty := NewVolatilityIndexProvider(NewPriceBarRepository(&fakeQuerier{}, nil), "^VIX")
	_, err = empty.Current(context.Background())
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestPriceBarRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	helper := testsupport.NewTestClickHouse(t)
	table := helper.CreateTempTable(t, PriceBarsSchema)
	repo := NewPriceBarRepository(helper.Client(), nil).WithTable(table)
	ctx := context.Background()

	bars := testsupport.NewSeriesFixture("SPY").WithBars(30).WithDrift(0.001).Bars()
	require.NoError(t, repo.InsertBars(ctx, "SPY", market_data.TimeframeDaily, bars))

	got, err := repo.GetSeries(ctx, "SPY", market_data.TimeframeDaily)
	require.NoError(t, err)
	require.Len(t, got, 30)
	assert.True(t, market_data.NewPriceSeries("SPY", market_data.TimeframeDaily, got).IsOrdered())
	assert.InDelta(t, bars[29].Close, got[29].Close, 1e-9)

	last, err := repo.LatestClose(ctx, "SPY", market_data.TimeframeDaily)
	require.NoError(t, err)
	assert.InDelta(t, bars[29].Close, last, 1e-9)
}
