package matcher

import "github.com/uyuni-project/subscription-matcher-sub000/types"

// Sentinel errors returned by the Matcher.
//
// They are re-exported from the types package so callers can use errors.Is
// without importing it.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrFactSourceRequired is returned when Run is called on a Matcher without a fact source.
	ErrFactSourceRequired = types.ErrFactSourceRequired

	// ErrAlreadyRunning is returned when a run is started while another is in progress.
	ErrAlreadyRunning = types.ErrAlreadyRunning

	// ErrLoadFailed is returned when the fact source fails.
	ErrLoadFailed = types.ErrLoadFailed

	// ErrNilInput is returned when Match is given no input.
	ErrNilInput = types.ErrNilInput

	// ErrOracleFailure is returned when the score oracle cannot evaluate a vector.
	ErrOracleFailure = types.ErrOracleFailure

	// ErrRunCanceled is returned when the run context is canceled.
	ErrRunCanceled = types.ErrRunCanceled

	// ErrPublishFailed is returned when the result sink fails.
	ErrPublishFailed = types.ErrPublishFailed
)
