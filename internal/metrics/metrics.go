package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics stores Prometheus collectors used across the dashboard.
type Metrics struct {
	GatewayRequests *prometheus.CounterVec
	GatewayLatency  *prometheus.HistogramVec
	BackendUp       prometheus.Gauge
	Logins          *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
	Notifications   *prometheus.CounterVec
	Errors          *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds and registers the metrics singleton with optional namespace.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = &Metrics{
			GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_requests_total",
				Help:      "Total gateway API requests by endpoint and status.",
			}, []string{"endpoint", "status"}),
			GatewayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_request_duration_seconds",
				Help:      "Latency distribution for gateway API calls.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"endpoint"}),
			BackendUp: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "gateway_up",
				Help:      "Whether the last reachability check succeeded (1) or not (0).",
			}),
			Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logins_total",
				Help:      "Login attempts by outcome.",
			}, []string{"outcome"}),
			ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_active",
				Help:      "Sessions started and not yet ended by this process.",
			}),
			Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Operator notifications pushed by level.",
			}, []string{"level"}),
			Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total errors grouped by component.",
			}, []string{"component"}),
		}

		prometheus.MustRegister(
			metricsInstance.GatewayRequests,
			metricsInstance.GatewayLatency,
			metricsInstance.BackendUp,
			metricsInstance.Logins,
			metricsInstance.ActiveSessions,
			metricsInstance.Notifications,
			metricsInstance.Errors,
		)
	})
	return metricsInstance
}
