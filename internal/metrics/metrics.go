// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

// Package metrics provides Prometheus instrumentation for:
//   - API endpoint latency and throughput
//   - Recommendation tier distribution (observable degradation)
//   - Model service call outcomes and circuit breaker state
//   - Interaction recorder queue behavior
//   - DuckDB query performance
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Recommendation metrics
	RecommendationsByTier = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total recommendation responses by serving tier",
		},
		[]string{"type"}, // cold_start_popular, cold_start_cbf, hybrid_warm_start, ...
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end orchestration latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Model gateway metrics
	ModelServiceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_service_requests_total",
			Help: "Total model service calls by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // endpoint: cf|cbf, outcome: ok|absent|rejected
	)

	ModelServiceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_service_request_duration_seconds",
			Help:    "Duration of model service calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_service_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Interaction recorder metrics
	InteractionEventsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interaction_events_accepted_total",
			Help: "Interaction events accepted onto the write queue",
		},
	)

	InteractionEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interaction_events_dropped_total",
			Help: "Interaction events dropped due to queue saturation or shutdown",
		},
	)

	InteractionWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interaction_write_failures_total",
			Help: "Interaction events that failed to persist (best-effort path)",
		},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)
)
