package search

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// StateMachine tracks the state of the runs of one matcher.
//
// Valid transitions:
//   - Idle, Done -> Constructing
//   - Constructing -> Searching
//   - Constructing, Searching -> Done
//
// Every accepted transition is logged, recorded to metrics, fanned out to
// subscribers without blocking, and passed to the OnStateChanged hook.
type StateMachine struct {
	current atomic.Int32 // types.State
	mu      sync.Mutex
	since   time.Time

	logger  types.Logger
	metrics types.RunMetrics
	hooks   types.Hooks

	// Fan-out to subscribers
	subscribers      *xsync.Map[uint64, *stateSubscriber]
	nextSubscriberID atomic.Uint64
}

// NewStateMachine creates a state machine in the Idle state.
//
// Parameters:
//   - logger: Logger for state transitions
//   - metrics: Run metrics collector
//   - hooks: Hooks whose OnStateChanged is called on every transition (nil callbacks are skipped)
//
// Returns:
//   - *StateMachine: A new state machine instance starting in Idle state
func NewStateMachine(logger types.Logger, metrics types.RunMetrics, hooks types.Hooks) *StateMachine {
	sm := &StateMachine{
		logger:      logger,
		metrics:     metrics,
		hooks:       hooks,
		since:       time.Now(),
		subscribers: xsync.NewMap[uint64, *stateSubscriber](),
	}
	sm.current.Store(int32(types.StateIdle))

	return sm
}

// State returns the current state.
//
// This method is thread-safe and can be called concurrently.
func (sm *StateMachine) State() types.State {
	return types.State(sm.current.Load())
}

// Subscribe returns a channel that receives state change notifications.
//
// The returned channel is buffered (size 4) so a whole run
// (Constructing -> Searching -> Done) queues without drops. The subscriber
// receives the current state immediately upon subscription.
//
// Returns:
//   - <-chan types.State: Channel that receives state updates
//   - func(): Unsubscribe function to clean up resources
//
// Example:
//
//	ch, unsubscribe := sm.Subscribe()
//	defer unsubscribe()
//	for state := range ch {
//	    fmt.Printf("State changed to: %s\n", state)
//	}
func (sm *StateMachine) Subscribe() (<-chan types.State, func()) {
	id := sm.nextSubscriberID.Add(1)

	sub := &stateSubscriber{ch: make(chan types.State, 4)}
	sm.subscribers.Store(id, sub)

	sub.trySend(sm.State(), sm.metrics)

	unsubscribe := func() {
		if s, ok := sm.subscribers.LoadAndDelete(id); ok {
			s.close()
		}
	}

	return sub.ch, unsubscribe
}

// Transition moves the state machine to state to.
//
// Invalid transitions are logged and ignored.
//
// Returns:
//   - bool: true if the transition was accepted
func (sm *StateMachine) Transition(ctx context.Context, to types.State) bool {
	sm.mu.Lock()
	from := sm.State()
	if !validTransition(from, to) {
		sm.mu.Unlock()
		sm.logger.Warn("rejected state transition", "from", from.String(), "to", to.String())

		return false
	}

	now := time.Now()
	elapsed := now.Sub(sm.since)
	sm.since = now
	sm.current.Store(int32(to)) //nolint:gosec // G115: state is bounded enum, safe conversion
	sm.mu.Unlock()

	sm.logger.Info("state transition", "from", from.String(), "to", to.String())
	sm.metrics.RecordStateTransition(from, to, elapsed.Seconds())

	sm.subscribers.Range(func(_ uint64, sub *stateSubscriber) bool {
		sub.trySend(to, sm.metrics)
		return true
	})

	if sm.hooks.OnStateChanged != nil {
		if err := sm.hooks.OnStateChanged(ctx, from, to); err != nil {
			sm.logger.Error("state change hook failed", "from", from.String(), "to", to.String(), "error", err)
		}
	}

	return true
}

// Close closes every subscriber channel.
func (sm *StateMachine) Close() {
	sm.subscribers.Range(func(id uint64, _ *stateSubscriber) bool {
		if s, ok := sm.subscribers.LoadAndDelete(id); ok {
			s.close()
		}
		return true
	})
}

func validTransition(from, to types.State) bool {
	switch to {
	case types.StateConstructing:
		return from == types.StateIdle || from == types.StateDone
	case types.StateSearching:
		return from == types.StateConstructing
	case types.StateDone:
		return from == types.StateConstructing || from == types.StateSearching
	default:
		return false
	}
}
