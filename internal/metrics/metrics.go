// Package metrics holds the process-wide prometheus instruments. Handlers
// and services increment them directly; exposition is wired by the HTTP
// server on /metricsz.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collective_http_requests_total",
		Help: "HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "collective_http_request_duration_seconds",
		Help:    "HTTP request latency, by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	FindingReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collective_finding_reviews_total",
		Help: "Finding reviews recorded, by decision.",
	}, []string{"decision"})

	ReputationEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collective_reputation_events_total",
		Help: "Reputation ledger events appended, by event type.",
	}, []string{"type"})
)
