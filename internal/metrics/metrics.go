// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values shared by the counters below.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birchhill_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "birchhill_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// GraphQLOperations counts resolved root fields. Queries that return an
	// error count as "error"; mutations answered with an errors list count
	// as "rejected".
	GraphQLOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birchhill_graphql_operations_total",
			Help: "Total GraphQL operations",
		},
		[]string{"operation", "outcome"},
	)

	// ReadingsIngested counts MQTT readings: success, rejected (bad payload
	// or unknown room), error (storage failure).
	ReadingsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birchhill_readings_ingested_total",
			Help: "Total temperature readings received over MQTT",
		},
		[]string{"outcome"},
	)
)
