package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/pkg/errors"
)

type payload struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

func TestClient_SetGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := Wrap(db)

	mock.ExpectSet("marketlens:report:AAPL:none", []byte(`{"symbol":"AAPL","score":72.5}`), time.Minute).SetVal("OK")
	require.NoError(t, client.Set(context.Background(), "report:AAPL:none", payload{Symbol: "AAPL", Score: 72.5}, time.Minute))

	mock.ExpectGet("marketlens:report:AAPL:none").SetVal(`{"symbol":"AAPL","score":72.5}`)
	var got payload
	require.NoError(t, client.Get(context.Background(), "report:AAPL:none", &got))
	assert.Equal(t, payload{Symbol: "AAPL", Score: 72.5}, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_GetMissIsNotFound(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := Wrap(db)

	mock.ExpectGet("marketlens:missing").RedisNil()

	var got payload
	err := client.Get(context.Background(), "missing", &got)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.False(t, errors.Is(err, redis.Nil), "driver sentinel does not leak")
}

func TestClient_GetTransportError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := Wrap(db)

	mock.ExpectGet("marketlens:k").SetErr(errors.New("i/o timeout"))

	var got payload
	err := client.Get(context.Background(), "k", &got)
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrNotFound))
}

func TestClient_Lock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := Wrap(db)

	mock.ExpectSetNX("marketlens:lock:batch", "1", 10*time.Minute).SetVal(true)
	mock.ExpectSetNX("marketlens:lock:batch", "1", 10*time.Minute).SetVal(false)
	mock.ExpectDel("marketlens:lock:batch").SetVal(1)

	ok, err := client.AcquireLock(context.Background(), "batch", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.AcquireLock(context.Background(), "batch", 10*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, client.ReleaseLock(context.Background(), "batch"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
