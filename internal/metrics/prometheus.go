package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing
// a PrometheusCollector that is never used registers nothing.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// Run metrics
	stateTransitions *prometheus.CounterVec
	stateDuration    *prometheus.HistogramVec
	runDuration      *prometheus.HistogramVec
	runFailures      *prometheus.CounterVec
	stateDropped     prometheus.Counter

	// Construction metrics
	constructionDuration  prometheus.Histogram
	constructionConfirmed prometheus.Gauge

	// Search metrics
	steps           *prometheus.CounterVec
	movesEvaluated  prometheus.Counter
	tabuRejected    prometheus.Counter
	bestFeasibility prometheus.Gauge
	bestQuality     prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "submatch" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "submatch"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "run",
			Name:      "state_transitions_total",
			Help:      "Total run state transitions by source and target state.",
		}, []string{"from", "to"})

		p.stateDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "run",
			Name:      "state_duration_seconds",
			Help:      "Time spent in a run state before leaving it.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4.4m
		}, []string{"state"})

		p.runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Duration of completed runs by termination reason.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10), // 10ms .. ~43m
		}, []string{"termination"})

		p.runFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "run",
			Name:      "failures_total",
			Help:      "Total aborted runs by reason (oracle, canceled, source, sink).",
		}, []string{"reason"})

		p.stateDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "run",
			Name:      "state_notifications_dropped_total",
			Help:      "State notifications dropped because a subscriber was slow.",
		})

		p.constructionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "construction",
			Name:      "duration_seconds",
			Help:      "Duration of the construction phase.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		})

		p.constructionConfirmed = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "construction",
			Name:      "confirmed_associations",
			Help:      "Associations confirmed by the last construction.",
		})

		p.steps = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "search",
			Name:      "steps_total",
			Help:      "Total search steps by outcome (applied, idle).",
		}, []string{"outcome"})

		p.movesEvaluated = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "search",
			Name:      "moves_evaluated_total",
			Help:      "Total candidate moves scored.",
		})

		p.tabuRejected = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "search",
			Name:      "moves_tabu_rejected_total",
			Help:      "Total candidate moves dropped by the tabu list.",
		})

		p.bestFeasibility = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "search",
			Name:      "best_feasibility",
			Help:      "Feasibility of the best-ever vector of the current run.",
		})

		p.bestQuality = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "search",
			Name:      "best_quality",
			Help:      "Quality of the best-ever vector of the current run.",
		})

		p.reg.MustRegister(
			p.stateTransitions,
			p.stateDuration,
			p.runDuration,
			p.runFailures,
			p.stateDropped,
			p.constructionDuration,
			p.constructionConfirmed,
			p.steps,
			p.movesEvaluated,
			p.tabuRejected,
			p.bestFeasibility,
			p.bestQuality,
		)
	})
}

// RunMetrics implementation

// RecordStateTransition counts the transition and observes time spent in from.
func (p *PrometheusCollector) RecordStateTransition(from, to types.State, duration float64) {
	p.ensureRegistered()
	p.stateTransitions.WithLabelValues(from.String(), to.String()).Inc()
	p.stateDuration.WithLabelValues(from.String()).Observe(duration)
}

// RecordRunDuration observes the duration of a completed run.
func (p *PrometheusCollector) RecordRunDuration(duration float64, termination types.Termination) {
	p.ensureRegistered()
	p.runDuration.WithLabelValues(string(termination)).Observe(duration)
}

// RecordRunFailure counts an aborted run.
func (p *PrometheusCollector) RecordRunFailure(reason string) {
	p.ensureRegistered()
	p.runFailures.WithLabelValues(reason).Inc()
}

// RecordStateChangeDropped counts a dropped state notification.
func (p *PrometheusCollector) RecordStateChangeDropped() {
	p.ensureRegistered()
	p.stateDropped.Inc()
}

// ConstructionMetrics implementation

// RecordConstructionDuration observes the construction duration.
func (p *PrometheusCollector) RecordConstructionDuration(duration float64) {
	p.ensureRegistered()
	p.constructionDuration.Observe(duration)
}

// RecordConstructionConfirmed sets the construction confirmed gauge.
func (p *PrometheusCollector) RecordConstructionConfirmed(count int) {
	p.ensureRegistered()
	p.constructionConfirmed.Set(float64(count))
}

// SearchMetrics implementation

// RecordStep counts one search step and its candidate moves.
func (p *PrometheusCollector) RecordStep(evaluated, tabuRejected int, applied bool) {
	p.ensureRegistered()
	outcome := "idle"
	if applied {
		outcome = "applied"
	}
	p.steps.WithLabelValues(outcome).Inc()
	p.movesEvaluated.Add(float64(evaluated))
	p.tabuRejected.Add(float64(tabuRejected))
}

// RecordBestScore sets the best score gauges.
func (p *PrometheusCollector) RecordBestScore(score types.Score) {
	p.ensureRegistered()
	p.bestFeasibility.Set(float64(score.Feasibility))
	p.bestQuality.Set(float64(score.Quality))
}
