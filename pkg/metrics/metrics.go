// Package metrics provides Prometheus metrics for the clover service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

var (
	// PipelineRequestsTotal tracks listing pipeline invocations by outcome
	PipelineRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "pipeline",
			Name:      "requests_total",
			Help:      "Total number of listing pipeline invocations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// PipelineDuration tracks listing pipeline duration in seconds
	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Duration of listing pipeline invocations in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	// EnrichmentFailuresTotal tracks batch lookups that degraded to empty results
	EnrichmentFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "enrichment",
			Name:      "failures_total",
			Help:      "Total number of failed enrichment lookups by lookup",
		},
		[]string{"lookup"},
	)

	// PromotionFallbacksTotal tracks active promotions whose plan was missing from the catalog
	PromotionFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "premium",
			Name:      "plan_fallbacks_total",
			Help:      "Total number of active promotions rendered without their plan",
		},
	)

	// CounterIncrementsTotal tracks view and inquiry increments
	CounterIncrementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "counters",
			Name:      "increments_total",
			Help:      "Total number of view/inquiry increments by counter and status",
		},
		[]string{"counter", "status"},
	)

	// HTTPRequestsTotal tracks inbound HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks inbound HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of inbound HTTP requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// LocationCacheTotal tracks location cache lookups
	LocationCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "location_cache",
			Name:      "lookups_total",
			Help:      "Total number of location cache lookups by result",
		},
		[]string{"result"},
	)

	// EventsPublishedTotal tracks listing lifecycle events
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of listing events published by type and status",
		},
		[]string{"event_type", "status"},
	)

	// ReconcileRunsTotal tracks location count reconciliation runs
	ReconcileRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "reconcile",
			Name:      "runs_total",
			Help:      "Total number of location count reconciliation runs by status",
		},
		[]string{"status"},
	)

	// ReconcileCorrectedLocations tracks how many location counts the last run corrected
	ReconcileCorrectedLocations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "clover",
			Subsystem: "reconcile",
			Name:      "corrected_locations",
			Help:      "Number of location counts corrected by the last reconciliation run",
		},
	)
)

// RecordPipeline records one pipeline invocation
func RecordPipeline(operation, outcome string, durationSeconds float64) {
	PipelineRequestsTotal.WithLabelValues(operation, outcome).Inc()
	PipelineDuration.WithLabelValues(operation).Observe(durationSeconds)
}

// RecordEnrichmentFailure records a degraded lookup
func RecordEnrichmentFailure(lookup string) {
	EnrichmentFailuresTotal.WithLabelValues(lookup).Inc()
}

// RecordPromotionFallback records an active promotion rendered without its plan
func RecordPromotionFallback() {
	PromotionFallbacksTotal.Inc()
}

// RecordCounterIncrement records a view/inquiry increment attempt
func RecordCounterIncrement(counter, status string) {
	CounterIncrementsTotal.WithLabelValues(counter, status).Inc()
}

// RecordHTTPRequest records an inbound HTTP request
func RecordHTTPRequest(method, route string, statusCode int, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordLocationCache records a location cache lookup result (hit, miss, error)
func RecordLocationCache(result string, n int) {
	LocationCacheTotal.WithLabelValues(result).Add(float64(n))
}

// RecordEvent records a published listing event
func RecordEvent(eventType, status string) {
	EventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}

// RecordReconcile records a reconciliation run
func RecordReconcile(status string, corrected int) {
	ReconcileRunsTotal.WithLabelValues(status).Inc()
	if status == OutcomeSuccess {
		ReconcileCorrectedLocations.Set(float64(corrected))
	}
}
