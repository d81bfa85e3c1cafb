package matcher

import "github.com/uyuni-project/subscription-matcher-sub000/types"

// Re-export types from the internal types package.
//
// This file provides the public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, so internal packages depend on `types` without depending on the
// root package, while users still write `matcher.Input`, `matcher.Result`, etc.
type (
	State            = types.State
	Score            = types.Score
	Confirmed        = types.Confirmed
	Input            = types.Input
	Candidate        = types.Candidate
	ConflictEdge     = types.ConflictEdge
	FreeAssociation  = types.FreeAssociation
	Pin              = types.Pin
	Subscription     = types.Subscription
	Penalty          = types.Penalty
	InstalledProduct = types.InstalledProduct
	Vector           = types.Vector
)

// Re-export result types.
type (
	Result              = types.Result
	ConfirmedTuple      = types.ConfirmedTuple
	Message             = types.Message
	SubscriptionBalance = types.SubscriptionBalance
	SystemStatus        = types.SystemStatus
	RunStats            = types.RunStats
	Termination         = types.Termination
)

// Re-export interfaces from the internal types package for convenience.
type (
	FactSource        = types.FactSource
	ResultSink        = types.ResultSink
	ScoreOracle       = types.ScoreOracle
	IncrementalOracle = types.IncrementalOracle
	MetricsCollector  = types.MetricsCollector
	Logger            = types.Logger
	Hooks             = types.Hooks
)

// Re-export State constants from the internal types package.
const (
	StateIdle         = types.StateIdle
	StateConstructing = types.StateConstructing
	StateSearching    = types.StateSearching
	StateDone         = types.StateDone
)

// Re-export Termination constants from the internal types package.
const (
	TerminationEmpty      = types.TerminationEmpty
	TerminationUnimproved = types.TerminationUnimproved
	TerminationStepLimit  = types.TerminationStepLimit
	TerminationTimeLimit  = types.TerminationTimeLimit
)

// MessageUnsatisfiedPinnedMatch is the type tag of the message reported for
// a pin absent from the confirmed set.
const MessageUnsatisfiedPinnedMatch = types.MessageUnsatisfiedPinnedMatch
