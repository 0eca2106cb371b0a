// Package metrics provides Prometheus metrics for the social auction engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels used by the evaluation and settlement counters.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeFailure  = "failure"
)

// Manager owns all Prometheus collectors for the auction service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Auction metrics
	auctionsRun     *prometheus.CounterVec
	auctionErrors   *prometheus.CounterVec
	roundsTotal     prometheus.Counter
	roundDuration   prometheus.Histogram
	agentsExhausted prometheus.Gauge
	bidRaise        prometheus.Histogram

	// Social evaluation metrics
	socialEvaluations  *prometheus.CounterVec
	evaluatorFallbacks *prometheus.CounterVec
	externalLatency    prometheus.Histogram

	// Boundary metrics
	settlements    *prometheus.CounterVec
	storeLatency   *prometheus.HistogramVec
	errorsByDomain *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "social_auction",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.auctionsRun = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "auctions_run_total",
		Help:      "Total number of multi-round auctions run, by social mode",
	}, []string{"social_mode"})

	m.auctionErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "auction_errors_total",
		Help:      "Auction runs rejected or aborted, by reason",
	}, []string{"reason"})

	m.roundsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_total",
		Help:      "Total number of auction rounds ranked",
	})

	m.roundDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "round_duration_milliseconds",
		Help:      "Wall time to score and rank a single round",
		Buckets:   m.histogramBuckets,
	})

	m.agentsExhausted = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "agents_exhausted",
		Help:      "Agents at their ceiling bid at the end of the last run",
	})

	m.bidRaise = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bid_raise_fraction",
		Help:      "Raise applied between rounds as a fraction of the agent's remaining room",
		Buckets:   []float64{0, 0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1},
	})

	m.socialEvaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "social_evaluations_total",
		Help:      "Social score evaluations by evaluator mode and outcome",
	}, []string{"mode", "outcome"})

	m.evaluatorFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluator_fallbacks_total",
		Help:      "External evaluations replaced by the rule-based score, by failure reason",
	}, []string{"reason"})

	m.externalLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "external_evaluation_latency_milliseconds",
		Help:      "Latency of external social evaluator calls",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	})

	m.settlements = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settlements_total",
		Help:      "Winner settlement attempts by outcome",
	}, []string{"outcome"})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_milliseconds",
		Help:      "Persistence operation latency",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.errorsByDomain = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total number of errors by component",
	}, []string{"component", "error_type"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordAuctionRun counts a completed auction run.
func RecordAuctionRun(socialMode string) {
	globalManager.auctionsRun.WithLabelValues(socialMode).Inc()
}

// RecordAuctionError counts a rejected or aborted run.
func RecordAuctionError(reason string) {
	globalManager.auctionErrors.WithLabelValues(reason).Inc()
}

// RecordRound counts one ranked round and its duration.
func RecordRound(durationMs float64) {
	globalManager.roundsTotal.Inc()
	globalManager.roundDuration.Observe(durationMs)
}

// UpdateAgentsExhausted sets how many agents ended a run at their ceiling.
func UpdateAgentsExhausted(count int) {
	globalManager.agentsExhausted.Set(float64(count))
}

// RecordBidRaise records the raise applied as a fraction of remaining room.
func RecordBidRaise(fraction float64) {
	globalManager.bidRaise.Observe(fraction)
}

// RecordSocialEvaluation counts a social score by evaluator mode and outcome.
func RecordSocialEvaluation(mode, outcome string) {
	globalManager.socialEvaluations.WithLabelValues(mode, outcome).Inc()
}

// RecordEvaluatorFallback counts an external evaluation that degraded to rule-based.
func RecordEvaluatorFallback(reason string) {
	globalManager.evaluatorFallbacks.WithLabelValues(reason).Inc()
}

// RecordExternalLatency records an external evaluator call latency.
func RecordExternalLatency(latencyMs float64) {
	globalManager.externalLatency.Observe(latencyMs)
}

// RecordSettlement counts a settlement attempt.
func RecordSettlement(outcome string) {
	globalManager.settlements.WithLabelValues(outcome).Inc()
}

// RecordStoreLatency records a persistence operation latency.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByDomain.WithLabelValues(component, errorType).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
