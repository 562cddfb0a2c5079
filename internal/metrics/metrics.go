// Package metrics holds the Prometheus collectors for the payment flow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors used by the payment orchestrator and the
// gateway client.  A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PaymentsInitiated *prometheus.CounterVec   // result: created|not_found|rejected|unavailable|error
	PaymentsVerified  *prometheus.CounterVec   // status: Completed|Failed|not_found|unavailable|error
	GatewayDuration   *prometheus.HistogramVec // operation, outcome
}

// New creates the collectors on a private registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		PaymentsInitiated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_initiated_total",
			Help: "Payment initiation attempts by result.",
		}, []string{"result"}),
		PaymentsVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_verified_total",
			Help: "Payment verification callbacks by resulting status.",
		}, []string{"status"}),
		GatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Duration of payment gateway calls including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(
		m.PaymentsInitiated,
		m.PaymentsVerified,
		m.GatewayDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Initiated(result string) {
	if m == nil {
		return
	}
	m.PaymentsInitiated.WithLabelValues(result).Inc()
}

func (m *Metrics) Verified(status string) {
	if m == nil {
		return
	}
	m.PaymentsVerified.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveGateway(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.GatewayDuration.WithLabelValues(operation, outcome).Observe(seconds)
}
