package source

import (
	"context"
	"slices"
	"sync"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Static implements a fact source with a fixed fact set.
type Static struct {
	mu    sync.RWMutex
	input *types.Input
}

var _ types.FactSource = (*Static)(nil)

// NewStatic creates a new static fact source.
//
// The source returns a copy of the given facts on every load, so the caller
// may reuse in and a run never observes later changes to it.
//
// Parameters:
//   - in: Facts to serve (an empty fact set if nil)
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	src := source.NewStatic(&types.Input{
//	    Candidates: []types.Candidate{
//	        {SystemID: 1, ProductID: 10, SubscriptionID: 100, Cents: 100, GroupID: 1},
//	    },
//	    Subscriptions: []types.Subscription{{ID: 100, CapacityCents: 1000}},
//	})
//	m, err := matcher.NewMatcher(&cfg, src)
func NewStatic(in *types.Input) *Static {
	return &Static{input: cloneInput(in)}
}

// Load returns a copy of the static facts.
//
// Returns:
//   - *types.Input: Copy of the facts
//   - error: Always nil (never fails)
func (s *Static) Load(_ context.Context) (*types.Input, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneInput(s.input), nil
}

// Update replaces the fact set served by later loads.
//
// Parameters:
//   - in: New facts
func (s *Static) Update(in *types.Input) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input = cloneInput(in)
}

func cloneInput(in *types.Input) *types.Input {
	if in == nil {
		return &types.Input{}
	}

	out := &types.Input{
		Timestamp:     in.Timestamp,
		Candidates:    slices.Clone(in.Candidates),
		Conflicts:     slices.Clone(in.Conflicts),
		Free:          slices.Clone(in.Free),
		Pins:          slices.Clone(in.Pins),
		Subscriptions: slices.Clone(in.Subscriptions),
		Penalties:     slices.Clone(in.Penalties),
		Installed:     slices.Clone(in.Installed),
	}
	for i := range out.Penalties {
		out.Penalties[i].SystemIDs = slices.Clone(out.Penalties[i].SystemIDs)
	}

	return out
}
