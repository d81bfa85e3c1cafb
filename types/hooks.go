package types

import "context"

// Hooks defines callbacks for run lifecycle events.
//
// All hooks are optional. Unlike state subscriptions, hooks are called
// synchronously from the goroutine running the search, so they observe
// events in order and must return quickly. Hook errors are logged and never
// fail the run.
//
// Example:
//
//	hooks := &matcher.Hooks{
//	    OnNewBest: func(ctx context.Context, step int, score matcher.Score) error {
//	        log.Printf("step %d improved to %s", step, score)
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnStateChanged is called when the run state transitions.
	OnStateChanged func(ctx context.Context, from, to State) error

	// OnNewBest is called when a search step strictly improves the best-ever score.
	OnNewBest func(ctx context.Context, step int, score Score) error

	// OnError is called when a run aborts.
	OnError func(ctx context.Context, err error) error
}
