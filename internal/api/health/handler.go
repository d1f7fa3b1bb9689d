package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"marketlens/internal/workers"
	"marketlens/pkg/logger"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// Checker probes one dependency
type Checker func(ctx context.Context) error

// WorkerSource reports background worker health
type WorkerSource interface {
	Health() []workers.WorkerHealth
}

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	checks      map[string]Checker
	workers     WorkerSource
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler
func New(log *logger.Logger, serviceName, version string) *Handler {
	return &Handler{
		log:         log,
		checks:      make(map[string]Checker),
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// WithCheck registers a dependency probe
func (h *Handler) WithCheck(name string, check Checker) *Handler {
	h.checks[name] = check
	return h
}

// WithWorkers attaches worker health to the detailed report
func (h *Handler) WithWorkers(source WorkerSource) *Handler {
	h.workers = source
	return h
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"` // healthy, degraded, unhealthy
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
	Workers   []workers.WorkerHealth     `json:"workers,omitempty"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK if the process is running
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReadiness returns 503 unless every dependency answers
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, healthy := h.runChecks(ctx)
	status := h.status(checks)

	statusCode := http.StatusOK
	if healthy < len(checks) {
		status.Status = statusUnhealthy
		statusCode = http.StatusServiceUnavailable
		h.log.Warnw("Readiness check failed", "checks", checks)
	}

	writeJSON(w, statusCode, status)
}

// HandleHealth returns detailed health status. Partial failure is reported as degraded with 200.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks, healthy := h.runChecks(ctx)
	status := h.status(checks)
	if h.workers != nil {
		status.Workers = h.workers.Health()
	}

	statusCode := http.StatusOK
	switch {
	case len(checks) > 0 && healthy == 0:
		status.Status = statusUnhealthy
		statusCode = http.StatusServiceUnavailable
	case healthy < len(checks):
		status.Status = statusDegraded
	}

	writeJSON(w, statusCode, status)
}

func (h *Handler) status(checks map[string]ComponentHealth) HealthStatus {
	return HealthStatus{
		Status:    statusHealthy,
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
}

func (h *Handler) runChecks(ctx context.Context) (map[string]ComponentHealth, int) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]ComponentHealth, len(names))
	healthy := 0
	for _, name := range names {
		start := time.Now()
		err := h.checks[name](ctx)
		elapsed := time.Since(start)

		if err != nil {
			h.log.Errorw("Health check failed", "component", name, "error", err, "elapsed", elapsed)
			results[name] = ComponentHealth{
				Status:       statusUnhealthy,
				ResponseTime: elapsed.String(),
				Error:        err.Error(),
			}
			continue
		}

		healthy++
		results[name] = ComponentHealth{
			Status:       statusHealthy,
			ResponseTime: elapsed.String(),
		}
	}
	return results, healthy
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
