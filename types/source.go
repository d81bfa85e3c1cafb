package types

import "context"

// FactSource provides the fact set of one run.
//
// Implementations can read from various backends:
//   - Static: fixed in-memory input for tests and embedding
//   - File: YAML or JSON document on disk
//   - Custom: the output of any deduction pipeline honoring the Input contract
type FactSource interface {
	// Load returns the facts of one run.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - *Input: Loaded facts (owned by the caller)
	//   - error: Load error (nil on success)
	Load(ctx context.Context) (*Input, error)
}

// ResultSink receives the result of a completed run.
type ResultSink interface {
	// Publish delivers a result.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - result: Result to deliver (must not be modified)
	//
	// Returns:
	//   - error: Delivery error (nil on success)
	Publish(ctx context.Context, result *Result) error
}
