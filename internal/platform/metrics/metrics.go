package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the client.
type Metrics struct {
	DispatchTotal    *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	TransportRetries *prometheus.CounterVec
	SinkFailures     *prometheus.CounterVec
	SinkCircuitOpen  *prometheus.GaugeVec
}

// New creates and registers all metrics on reg. A nil registerer registers on
// the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		DispatchTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tcubridge_dispatch_total",
			Help: "Dispatched operations by outcome",
		}, []string{"operation", "outcome"}),
		DispatchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tcubridge_dispatch_duration_seconds",
			Help:    "End-to-end dispatch latency including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		TransportRetries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tcubridge_transport_retries_total",
			Help: "Transport attempts beyond the first",
		}, []string{"operation"}),
		SinkFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tcubridge_sink_failures_total",
			Help: "Call records a sink failed to accept",
		}, []string{"sink"}),
		SinkCircuitOpen: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tcubridge_sink_circuit_open",
			Help: "1 while a sink's circuit breaker is open",
		}, []string{"sink"}),
	}
}

func (m *Metrics) ObserveDispatch(operation, outcome string, d time.Duration) {
	m.DispatchTotal.WithLabelValues(operation, outcome).Inc()
	m.DispatchDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) IncTransportRetry(operation string) {
	m.TransportRetries.WithLabelValues(operation).Inc()
}

func (m *Metrics) IncSinkFailure(sink string) {
	m.SinkFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) SetSinkCircuitOpen(sink string, open bool) {
	v := 0.0
	if open {
		v = 1
	}
	m.SinkCircuitOpen.WithLabelValues(sink).Set(v)
}
