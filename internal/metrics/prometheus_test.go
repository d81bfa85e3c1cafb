package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

func TestNewPrometheus_Defaults(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "")

	require.Equal(t, "submatch", p.namespace)

	// Nothing is registered until the first record call.
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Empty(t, families)
}

func TestPrometheusCollector_Run(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordStateTransition(types.StateIdle, types.StateConstructing, 0)
	p.RecordStateTransition(types.StateConstructing, types.StateSearching, 0.2)
	p.RecordStateTransition(types.StateConstructing, types.StateSearching, 0.3)
	p.RecordRunDuration(1.2, types.TerminationStepLimit)
	p.RecordRunFailure("oracle")
	p.RecordStateChangeDropped()
	p.RecordStateChangeDropped()

	require.InDelta(t, 2, testutil.ToFloat64(p.stateTransitions.WithLabelValues("Constructing", "Searching")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.stateTransitions.WithLabelValues("Idle", "Constructing")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.runFailures.WithLabelValues("oracle")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(p.stateDropped), 0)
	require.Equal(t, 1, testutil.CollectAndCount(p.runDuration, "test_run_duration_seconds"))
}

func TestPrometheusCollector_ConstructionAndSearch(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordConstructionDuration(0.01)
	p.RecordConstructionConfirmed(7)
	p.RecordStep(20, 2, true)
	p.RecordStep(5, 5, false)
	p.RecordBestScore(types.Score{Feasibility: 0, Quality: 1_000_000})

	require.InDelta(t, 7, testutil.ToFloat64(p.constructionConfirmed), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.steps.WithLabelValues("applied")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.steps.WithLabelValues("idle")), 0)
	require.InDelta(t, 25, testutil.ToFloat64(p.movesEvaluated), 0)
	require.InDelta(t, 7, testutil.ToFloat64(p.tabuRejected), 0)
	require.InDelta(t, 1_000_000, testutil.ToFloat64(p.bestQuality), 0)

	expected := `
# HELP test_search_best_feasibility Feasibility of the best-ever vector of the current run.
# TYPE test_search_best_feasibility gauge
test_search_best_feasibility 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_search_best_feasibility"))
}

func TestPrometheusCollector_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	require.NotPanics(t, func() {
		for range 3 {
			p.RecordRunFailure("canceled")
		}
	})

	// A second collector with the same namespace collides on registration.
	other := NewPrometheus(reg, "test")
	require.Panics(t, func() { other.RecordRunFailure("canceled") })
}
