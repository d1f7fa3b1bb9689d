package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketlens/internal/workers"
	"marketlens/pkg/errors"
	"marketlens/pkg/logger"
)

func ok(ctx context.Context) error { return nil }

func failing(ctx context.Context) error { return errors.New("connection refused") }

type staticWorkers []workers.WorkerHealth

func (s staticWorkers) Health() []workers.WorkerHealth { return s }

func decode(t *testing.T, rec *httptest.ResponseRecorder) HealthStatus {
	t.Helper()
	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return status
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Checker
		wantCode   int
		wantStatus string
	}{
		{"all healthy", map[string]Checker{"postgres": ok, "redis": ok}, http.StatusOK, statusHealthy},
		{"degraded", map[string]Checker{"postgres": ok, "redis": failing}, http.StatusOK, statusDegraded},
		{"unhealthy", map[string]Checker{"postgres": failing, "redis": failing}, http.StatusServiceUnavailable, statusUnhealthy},
		{"no dependencies", nil, http.StatusOK, statusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(logger.Nop(), "marketlens", "test")
			for name, check := range tt.checks {
				h.WithCheck(name, check)
			}

			rec := httptest.NewRecorder()
			h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			status := decode(t, rec)
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Len(t, status.Checks, len(tt.checks))
		})
	}
}

func TestHandleHealth_IncludesWorkers(t *testing.T) {
	h := New(logger.Nop(), "marketlens", "test").
		WithWorkers(staticWorkers{{Name: "analysis_batch", RunCount: 3, Enabled: true}})

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	status := decode(t, rec)
	require.Len(t, status.Workers, 1)
	assert.Equal(t, "analysis_batch", status.Workers[0].Name)
	assert.Equal(t, int64(3), status.Workers[0].RunCount)
}

func TestHandleReadiness(t *testing.T) {
	h := New(logger.Nop(), "marketlens", "test").
		WithCheck("clickhouse", ok).
		WithCheck("redis", failing)

	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	status := decode(t, rec)
	assert.Equal(t, statusUnhealthy, status.Status)
	assert.Equal(t, "connection refused", status.Checks["redis"].Error)
	assert.Equal(t, statusHealthy, status.Checks["clickhouse"].Status)
}

func TestHandleLiveness(t *testing.T) {
	rec := httptest.NewRecorder()
	New(logger.Nop(), "marketlens", "test").HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}
