// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alumnet_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alumnet_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VerificationDecisions counts reviewer decisions on verification requests.
	VerificationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alumnet_verification_decisions_total",
		Help: "Verification requests decided, by decision",
	}, []string{"decision"})

	// ConnectionEvents counts connection requests and responses.
	ConnectionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alumnet_connection_events_total",
		Help: "Connection requests and responses, by outcome",
	}, []string{"outcome"})

	// RSVPResponses counts RSVP upserts by status.
	RSVPResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "alumnet_rsvp_responses_total",
		Help: "Event RSVP responses recorded, by status",
	}, []string{"status"})

	// DonationAmount accumulates donated amounts in minor currency units.
	DonationAmount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alumnet_donation_amount_total",
		Help: "Total donated amount in minor currency units",
	})

	// ExpiredJobs counts job postings deactivated by the expiry sweep.
	ExpiredJobs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "alumnet_expired_jobs_total",
		Help: "Job postings deactivated after their expiry date",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
