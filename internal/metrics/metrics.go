// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Upstream provider calls (INPE, NASA FIRMS)
// - Circuit breaker state
// - Delimited parser row acceptance
// - Collector refresh cycles
// - Response cache efficiency
// - WebSocket connections

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Upstream Provider Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of outbound requests to fire-data providers",
		},
		[]string{"provider", "outcome"}, // outcome: "success", "failure"
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of outbound provider requests in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through circuit breakers by result",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	// Delimited Parser Metrics
	ParserRowsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parser_rows_accepted_total",
			Help: "Total number of delimited rows accepted into records",
		},
	)

	ParserRowsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parser_rows_dropped_total",
			Help: "Total number of delimited rows dropped for field-count mismatch",
		},
	)

	// Collector Metrics
	CollectorRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_runs_total",
			Help: "Total number of collector refresh cycles",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	CollectorDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "collector_refresh_duration_seconds",
			Help:    "Duration of collector refresh cycles in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	CollectorDetections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collector_detections",
			Help: "Number of fire detections in the current snapshot",
		},
	)

	CollectorLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "collector_last_success_timestamp",
			Help: "Unix timestamp of last successful collector refresh",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of connected WebSocket clients",
		},
	)

	WebSocketMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages broadcast to clients",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamRequest records an outbound provider call
func RecordUpstreamRequest(provider string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	UpstreamRequestsTotal.WithLabelValues(provider, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordCollectorRun records a collector refresh cycle
func RecordCollectorRun(duration time.Duration, detections int, err error) {
	CollectorDuration.Observe(duration.Seconds())
	if err != nil {
		CollectorRuns.WithLabelValues("failure").Inc()
		return
	}
	CollectorRuns.WithLabelValues("success").Inc()
	CollectorDetections.Set(float64(detections))
	CollectorLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordParsedRows records delimited parser row acceptance counts
func RecordParsedRows(accepted, dropped int) {
	ParserRowsAccepted.Add(float64(accepted))
	ParserRowsDropped.Add(float64(dropped))
}
