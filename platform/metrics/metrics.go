// Package metrics holds the prometheus collectors shared by the API and scheduler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled HTTP requests by route, method and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of http requests handled by the service.",
		},
		[]string{"path", "method", "code"},
	)

	// RequestsCreatedTotal counts created service requests by dispatch mode (direct/broadcast).
	RequestsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "service_requests_created_total",
			Help: "Service requests created, by dispatch mode.",
		},
		[]string{"mode"},
	)

	// TransitionsTotal counts lifecycle transitions by action and resulting status.
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "service_request_transitions_total",
			Help: "Lifecycle transitions applied to service requests.",
		},
		[]string{"action", "status"},
	)

	// MirrorWriteFailuresTotal counts swallowed mirror store write failures.
	MirrorWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_write_failures_total",
			Help: "Mirror store writes that failed and were swallowed.",
		},
		[]string{"operation"},
	)

	// FallbackReadsTotal counts reads answered by the mirror store.
	FallbackReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_fallback_reads_total",
			Help: "Reads that fell back to the mirror store.",
		},
		[]string{"operation"},
	)

	// ReconcileRowsTotal counts rows processed by the reconciliation job.
	ReconcileRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_rows_total",
			Help: "Mirror rows processed by reconciliation, by entity and outcome.",
		},
		[]string{"entity", "outcome"},
	)
)
