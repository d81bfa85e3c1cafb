package types

import "errors"

// Sentinel errors for the matcher module.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Unsatisfied pins and exhausted step or time budgets are not errors: the
// former become messages on the result, the latter are normal termination.

// Matcher errors - Public API errors returned by the Matcher.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFactSourceRequired is returned when Run is called without a fact source.
	ErrFactSourceRequired = errors.New("fact source is required")

	// ErrAlreadyRunning is returned when a run is started while another is in progress.
	ErrAlreadyRunning = errors.New("matcher already running")

	// ErrLoadFailed is returned when the fact source fails.
	ErrLoadFailed = errors.New("failed to load facts")
)

// Core errors - Errors raised while solving.
var (
	// ErrNilInput is returned when a run is given no input.
	ErrNilInput = errors.New("input is nil")

	// ErrOracleFailure is returned when the score oracle cannot evaluate a
	// vector. It aborts the run; retrying with the same seed fails the same way.
	ErrOracleFailure = errors.New("score oracle failure")

	// ErrRunCanceled is returned when the run context is canceled or expires.
	// It wraps the context error.
	ErrRunCanceled = errors.New("run canceled")
)

// Sink errors - Result delivery errors.
var (
	// ErrPublishFailed is returned when publishing a result fails.
	ErrPublishFailed = errors.New("failed to publish result")
)
