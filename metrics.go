package matcher

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/metrics"
)

// NewPrometheusMetrics creates a Prometheus-backed metrics collector.
//
// Metrics are registered with reg on first use.
//
// Parameters:
//   - reg: Prometheus registerer (prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace ("submatch" if empty)
//
// Returns:
//   - MetricsCollector: Collector for use with WithMetrics
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
