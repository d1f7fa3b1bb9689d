package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketlens_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketlens_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Analysis metrics
	Analyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_analyses_total",
			Help: "Total number of symbol analyses",
		},
		[]string{"asset_class", "action", "status"}, // status: success|insufficient_data|error
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketlens_analysis_duration_seconds",
			Help:    "Single-symbol analysis duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"asset_class"},
	)

	AnalysisScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketlens_analysis_score",
			Help: "Latest normalized score per symbol",
		},
		[]string{"symbol"},
	)

	// Risk gate metrics
	GateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_gate_decisions_total",
			Help: "Risk gate decisions",
		},
		[]string{"outcome"}, // outcome: approved|rejected
	)

	GateFlags = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_gate_flags_total",
			Help: "Risk flags raised by code",
		},
		[]string{"flag"},
	)

	// Batch metrics
	BatchSymbols = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_batch_symbols_total",
			Help: "Symbols processed in batches",
		},
		[]string{"status"}, // status: success|failed
	)

	// Cache metrics
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_report_cache_requests_total",
			Help: "Report cache lookups",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	// Provider metrics
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_provider_calls_total",
			Help: "Total number of data provider calls",
		},
		[]string{"provider", "timeframe", "status"}, // status: success|error|rate_limited|circuit_open
	)

	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketlens_provider_latency_seconds",
			Help:    "Data provider latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"provider", "timeframe"},
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketlens_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"},
	)

	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketlens_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"database", "operation"},
	)

	// System metrics
	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketlens_kafka_messages_total",
			Help: "Total Kafka messages",
		},
		[]string{"topic", "status"}, // status: success|failed
	)
)

// Init registers all metrics with Prometheus
func Init() {
	// Worker metrics
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)

	// Analysis metrics
	prometheus.MustRegister(Analyses)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisScore)
	prometheus.MustRegister(GateDecisions)
	prometheus.MustRegister(GateFlags)
	prometheus.MustRegister(BatchSymbols)
	prometheus.MustRegister(CacheRequests)

	// Provider metrics
	prometheus.MustRegister(ProviderCalls)
	prometheus.MustRegister(ProviderLatency)
	prometheus.MustRegister(BreakerState)

	// Database metrics
	prometheus.MustRegister(DBQueries)
	prometheus.MustRegister(DBQueryDuration)

	// System metrics
	prometheus.MustRegister(KafkaMessages)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordAnalysis records a completed or failed analysis
func RecordAnalysis(symbol, assetClass, action string, score float64, duration time.Duration, status string) {
	Analyses.WithLabelValues(assetClass, action, status).Inc()
	AnalysisDuration.WithLabelValues(assetClass).Observe(duration.Seconds())
	if status == "success" {
		AnalysisScore.WithLabelValues(symbol).Set(score)
	}
}

// RecordGateDecision records a risk gate verdict and its flag codes
func RecordGateDecision(approved bool, flagCodes []string) {
	outcome := "approved"
	if !approved {
		outcome = "rejected"
	}
	GateDecisions.WithLabelValues(outcome).Inc()

	for _, code := range flagCodes {
		GateFlags.WithLabelValues(code).Inc()
	}
}

// RecordCacheRequest records a report cache lookup
func RecordCacheRequest(result string) {
	CacheRequests.WithLabelValues(result).Inc()
}

// RecordBatchSymbol records the settled outcome of one batch symbol
func RecordBatchSymbol(err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	BatchSymbols.WithLabelValues(status).Inc()
}

// RecordProviderCall records a data provider call
func RecordProviderCall(provider, timeframe string, latency time.Duration, status string) {
	ProviderCalls.WithLabelValues(provider, timeframe, status).Inc()
	ProviderLatency.WithLabelValues(provider, timeframe).Observe(latency.Seconds())
}

// RecordBreakerState records a circuit breaker transition
func RecordBreakerState(name string, state float64) {
	BreakerState.WithLabelValues(name).Set(state)
}

// RecordKafkaMessage records a published message
func RecordKafkaMessage(topic string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	KafkaMessages.WithLabelValues(topic, status).Inc()
}

// RecordDBQuery records a database query
func RecordDBQuery(database, operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	DBQueries.WithLabelValues(database, operation, status).Inc()
	DBQueryDuration.WithLabelValues(database, operation).Observe(duration.Seconds())
}
