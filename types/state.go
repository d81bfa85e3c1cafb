package types

// State represents the lifecycle state of a matching run.
//
// States follow a fixed progression:
//
//	StateIdle → StateConstructing → StateSearching → StateDone
//
// An input without associations skips searching:
//
//	StateConstructing → StateDone
//
// A matcher may start a new run from StateDone.
type State int

const (
	// StateIdle is the initial state before any run.
	StateIdle State = iota

	// StateConstructing indicates the initial vector is being built.
	StateConstructing

	// StateSearching indicates local search is in progress.
	StateSearching

	// StateDone indicates the run finished (successfully or not).
	StateDone
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateConstructing:
		return "Constructing"
	case StateSearching:
		return "Searching"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}
