// Package metrics provides Prometheus metrics for the Handlog API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks handled requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "handlog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "handlog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// MealsCreated counts committed meal submissions
	MealsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "handlog",
			Subsystem: "meals",
			Name:      "created_total",
			Help:      "Total number of meals logged",
		},
	)

	// SuspicionChanges counts mark, unmark and reason updates
	SuspicionChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "handlog",
			Subsystem: "meals",
			Name:      "suspicion_changes_total",
			Help:      "Total number of suspicious-meal state changes by action",
		},
		[]string{"action"},
	)

	// HandConditionsRecorded counts stored condition readings
	HandConditionsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "handlog",
			Subsystem: "hand_conditions",
			Name:      "recorded_total",
			Help:      "Total number of hand condition readings recorded",
		},
	)

	// StatisticsDuration tracks how long a full statistics report takes
	StatisticsDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "handlog",
			Subsystem: "statistics",
			Name:      "report_duration_seconds",
			Help:      "Duration of statistics report generation in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// RateLimitHits counts requests rejected by the rate limiter
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "handlog",
			Subsystem: "ratelimit",
			Name:      "hits_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
		[]string{"limit_name"},
	)
)
