// Package obs holds the prometheus instrumentation for the service.
package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the HTTP layer and the access gate.
// All methods are nil-safe so wiring metrics stays optional in tests.
type Metrics struct {
	// Request latency by method and status class
	RequestDuration *prometheus.HistogramVec

	// Gate verdicts by route class and outcome
	GateDecisions *prometheus.CounterVec

	// Role lookups that errored and resolved to least privilege
	RoleLookupFailures prometheus.Counter

	// Dashboard aggregation latency
	AggregateDuration prometheus.Histogram
}

// New creates a Metrics instance with all collectors registered on the
// default registry.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mandalfund_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and status class",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "status"}),

		GateDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mandalfund_gate_decisions_total",
			Help: "Access gate verdicts by route class and outcome",
		}, []string{"class", "outcome"}),

		RoleLookupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mandalfund_role_lookup_failures_total",
			Help: "Role lookups that errored and fell back to least privilege",
		}),

		AggregateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mandalfund_dashboard_aggregate_duration_seconds",
			Help:    "Duration of in-memory dashboard aggregation",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, status).Observe(d.Seconds())
	}
}

// IncGateDecision records one gate verdict.
func (m *Metrics) IncGateDecision(class, outcome string) {
	if m != nil {
		m.GateDecisions.WithLabelValues(class, outcome).Inc()
	}
}

// IncRoleLookupFailure records a role lookup that errored.
func (m *Metrics) IncRoleLookupFailure() {
	if m != nil {
		m.RoleLookupFailures.Inc()
	}
}

// ObserveAggregate records one dashboard aggregation pass.
func (m *Metrics) ObserveAggregate(d time.Duration) {
	if m != nil {
		m.AggregateDuration.Observe(d.Seconds())
	}
}
