package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// The search calls these methods from its own goroutine; state subscribers
// may trigger RecordStateChangeDropped concurrently, so implementations must
// be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	RunMetrics
	ConstructionMetrics
	SearchMetrics
}

// RunMetrics defines metrics for run-level operations.
type RunMetrics interface {
	// RecordStateTransition records a run state transition.
	//
	// Parameters:
	//   - from: Previous state
	//   - to: New state
	//   - duration: Seconds spent in the previous state
	RecordStateTransition(from, to State, duration float64)

	// RecordRunDuration records a completed run.
	//
	// Parameters:
	//   - duration: Time taken in seconds
	//   - termination: Termination reason
	RecordRunDuration(duration float64, termination Termination)

	// RecordRunFailure records an aborted run.
	//
	// Parameters:
	//   - reason: Failure category ("oracle", "canceled", "source", "sink")
	RecordRunFailure(reason string)

	// RecordStateChangeDropped records when state change notifications are dropped due to slow subscribers.
	RecordStateChangeDropped()
}

// ConstructionMetrics defines metrics for the construction phase.
type ConstructionMetrics interface {
	// RecordConstructionDuration records the time taken by construction in seconds.
	RecordConstructionDuration(duration float64)

	// RecordConstructionConfirmed sets the number of associations confirmed by construction.
	RecordConstructionConfirmed(count int)
}

// SearchMetrics defines metrics for local search steps.
type SearchMetrics interface {
	// RecordStep records one search step.
	//
	// Parameters:
	//   - evaluated: Candidate moves scored in the step
	//   - tabuRejected: Candidate moves dropped by the tabu list
	//   - applied: true if a move was applied
	RecordStep(evaluated, tabuRejected int, applied bool)

	// RecordBestScore sets the best-ever score (gauge metrics).
	RecordBestScore(score Score)
}
