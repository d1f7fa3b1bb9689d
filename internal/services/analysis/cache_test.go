package analysis

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "marketlens/internal/domain/analysis"
	"marketlens/internal/domain/macro"
	"marketlens/internal/testsupport"
	"marketlens/pkg/errors"
)

// memoryStore mimics the Redis store: values round-trip through JSON
type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	setKeys []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (s *memoryStore) Get(ctx context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return s.getErr
	}
	raw, ok := s.data[key]
	if !ok {
		return errors.Wrap(errors.ErrNotFound, key)
	}
	return json.Unmarshal(raw, dest)
}

func (s *memoryStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	s.setKeys = append(s.setKeys, key)
	return nil
}

// countingSource returns a minimal report after an optional delay
type countingSource struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (s *countingSource) Analyze(ctx context.Context, symbol string, regime *macro.Regime) (*domain.Report, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Report{Symbol: symbol, Score: 55, Action: domain.ActionBuy, Timestamp: analysisTime}, nil
}

func TestReportCache_HitAfterMiss(t *testing.T) {
	source := &countingSource{}
	store := newMemoryStore()
	cache := NewReportCache(DefaultCacheConfig(), source, store)

	first, err := cache.Analyze(context.Background(), "AAPL", riskOn())
	require.NoError(t, err)
	second, err := cache.Analyze(context.Background(), "AAPL", riskOn())
	require.NoError(t, err)

	assert.Equal(t, int32(1), source.calls.Load())
	assert.Equal(t, first.Symbol, second.Symbol)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, []string{"report:AAPL:RISK_ON|MID|EASING|WEAK|EXPANDING"}, store.setKeys)
}

func TestReportCache_KeyedByBucket(t *testing.T) {
	source := &countingSource{}
	cache := NewReportCache(DefaultCacheConfig(), source, newMemoryStore())

	_, err := cache.Analyze(context.Background(), "AAPL", riskOn())
	require.NoError(t, err)

	changed := riskOn()
	changed.Confidence = 0.2
	_, err = cache.Analyze(context.Background(), "AAPL", changed)
	require.NoError(t, err)
	assert.Equal(t, int32(1), source.calls.Load(), "confidence is not part of the bucket")

	changed.Phase = macro.PhaseRiskOff
	_, err = cache.Analyze(context.Background(), "AAPL", changed)
	require.NoError(t, err)
	_, err = cache.Analyze(context.Background(), "AAPL", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), source.calls.Load())
}

func TestReportCache_CollapsesConcurrentMisses(t *testing.T) {
	source := &countingSource{delay: 100 * time.Millisecond}
	cache := NewReportCache(DefaultCacheConfig(), source, newMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := cache.Analyze(context.Background(), "NVDA", nil)
			assert.NoError(t, err)
			assert.Equal(t, "NVDA", report.Symbol)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), source.calls.Load())
}

func TestReportCache_ErrorsAreNotCached(t *testing.T) {
	source := &countingSource{err: errors.NewInsufficientData("AAPL", "daily", 10, 250)}
	store := newMemoryStore()
	cache := NewReportCache(DefaultCacheConfig(), source, store)

	for i := 0; i < 2; i++ {
		_, err := cache.Analyze(context.Background(), "AAPL", nil)
		assert.True(t, errors.Is(err, errors.ErrInsufficientData))
	}
	assert.Equal(t, int32(2), source.calls.Load())
	assert.Empty(t, store.setKeys)
}

func TestReportCache_StoreFailuresDegrade(t *testing.T) {
	source := &countingSource{}
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	cache := NewReportCache(DefaultCacheConfig(), source, store)

	report, err := cache.Analyze(context.Background(), "AAPL", nil)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", report.Symbol)
}

func TestReportCache_Disabled(t *testing.T) {
	source := &countingSource{}
	cache := NewReportCache(CacheConfig{Enabled: false}, source, newMemoryStore())

	for i := 0; i < 3; i++ {
		_, err := cache.Analyze(context.Background(), "AAPL", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), source.calls.Load())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "report:BTC-USD:none", CacheKey("BTC-USD", nil))
}

func TestReportCache_RedisIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	rdb := testsupport.NewTestRedis(t)

	source := &countingSource{}
	cache := NewReportCache(DefaultCacheConfig(), source, rdb)

	first, err := cache.Analyze(context.Background(), "MSFT", riskOn())
	require.NoError(t, err)

	// A second cache over the same Redis must not recompute.
	other := NewReportCache(DefaultCacheConfig(), source, rdb)
	second, err := other.Analyze(context.Background(), "MSFT", riskOn())
	require.NoError(t, err)

	assert.Equal(t, int32(1), source.calls.Load())
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Action, second.Action)
}
