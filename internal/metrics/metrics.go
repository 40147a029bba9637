// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

// Package metrics exposes Prometheus collectors for the comparison service:
// outbound aggregation query performance, circuit breaker state, response
// cache efficiency and HTTP endpoint latency.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Aggregation client metrics
	AggregationQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_query_duration_seconds",
			Help:    "Duration of aggregation service queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"measure", "period_role"}, // period_role: "current" or "previous"
	)

	AggregationQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregation_query_errors_total",
			Help: "Total number of failed aggregation service queries",
		},
		[]string{"measure", "period_role", "error_type"},
	)

	AggregationRowsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aggregation_rows_returned",
			Help:    "Row count per aggregation service response",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000},
		},
		[]string{"measure"},
	)

	// Circuit breaker state: 0 = closed, 1 = half-open, 2 = open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_trips_total",
			Help: "Total number of circuit breaker open transitions",
		},
		[]string{"name"},
	)

	// Response cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_hits_total",
			Help: "Total number of response cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "response_cache_misses_total",
			Help: "Total number of response cache misses",
		},
	)

	// Comparison request metrics
	ComparisonRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparison_requests_total",
			Help: "Total number of comparison requests by mode",
		},
		[]string{"mode"},
	)

	ComparisonPartialResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "comparison_partial_results_total",
			Help: "Comparisons where one period fetch failed but the other resolved",
		},
	)

	// API endpoint metrics
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
			Help: "Number of API requests currently being handled",
		},
	)
)

// RecordAggregationQuery observes one outbound query's duration.
func RecordAggregationQuery(measure, periodRole string, duration time.Duration) {
	AggregationQueryDuration.WithLabelValues(measure, periodRole).Observe(duration.Seconds())
}

// RecordAggregationError counts one failed outbound query.
func RecordAggregationError(measure, periodRole, errorType string) {
	AggregationQueryErrors.WithLabelValues(measure, periodRole, errorType).Inc()
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAPIRequest counts one handled HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
