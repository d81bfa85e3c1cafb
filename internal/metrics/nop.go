// Package metrics provides types.MetricsCollector implementations.
package metrics

import "github.com/uyuni-project/subscription-matcher-sub000/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. It is the default collector of a Matcher.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	m, err := matcher.NewMatcher(&cfg, src, matcher.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RunMetrics implementation

// RecordStateTransition discards the state transition metric.
func (n *NopMetrics) RecordStateTransition(_ /* from */, _ /* to */ types.State, _ /* duration */ float64) {
	// No-op
}

// RecordRunDuration discards the run duration metric.
func (n *NopMetrics) RecordRunDuration(_ /* duration */ float64, _ /* termination */ types.Termination) {
	// No-op
}

// RecordRunFailure discards the run failure metric.
func (n *NopMetrics) RecordRunFailure(_ /* reason */ string) {
	// No-op
}

// RecordStateChangeDropped discards the dropped notification metric.
func (n *NopMetrics) RecordStateChangeDropped() {
	// No-op
}

// ConstructionMetrics implementation

// RecordConstructionDuration discards the construction duration metric.
func (n *NopMetrics) RecordConstructionDuration(_ /* duration */ float64) {
	// No-op
}

// RecordConstructionConfirmed discards the construction confirmed count.
func (n *NopMetrics) RecordConstructionConfirmed(_ /* count */ int) {
	// No-op
}

// SearchMetrics implementation

// RecordStep discards the step metric.
func (n *NopMetrics) RecordStep(_ /* evaluated */, _ /* tabuRejected */ int, _ /* applied */ bool) {
	// No-op
}

// RecordBestScore discards the best score metric.
func (n *NopMetrics) RecordBestScore(_ /* score */ types.Score) {
	// No-op
}
