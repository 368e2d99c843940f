package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. Each instance owns its
// registry so tests can build independent sets.
type Metrics struct {
	registry *prometheus.Registry

	Predictions     *prometheus.CounterVec
	Feedback        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spam_detector",
			Name:      "predictions_total",
			Help:      "Prediction requests by outcome and label.",
		}, []string{"outcome", "label"}),
		Feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spam_detector",
			Name:      "feedback_total",
			Help:      "Feedback submissions by response status.",
		}, []string{"status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "spam_detector",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.Predictions, m.Feedback, m.RequestDuration)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
