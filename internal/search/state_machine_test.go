package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/hooks"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/logging"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/metrics"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

type droppedCounter struct {
	*metrics.NopMetrics
	mu      sync.Mutex
	dropped int
}

func (d *droppedCounter) RecordStateChangeDropped() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropped++
}

func newTestStateMachine() *StateMachine {
	return NewStateMachine(logging.NewNop(), metrics.NewNop(), hooks.NewNop())
}

func TestStateMachine_InitialState(t *testing.T) {
	require.Equal(t, types.StateIdle, newTestStateMachine().State())
}

func TestStateMachine_Transitions(t *testing.T) {
	tests := []struct {
		name string
		path []types.State
		want []bool
	}{
		{
			name: "full run",
			path: []types.State{types.StateConstructing, types.StateSearching, types.StateDone},
			want: []bool{true, true, true},
		},
		{
			name: "empty run skips searching",
			path: []types.State{types.StateConstructing, types.StateDone},
			want: []bool{true, true},
		},
		{
			name: "second run after done",
			path: []types.State{types.StateConstructing, types.StateDone, types.StateConstructing},
			want: []bool{true, true, true},
		},
		{
			name: "cannot search from idle",
			path: []types.State{types.StateSearching},
			want: []bool{false},
		},
		{
			name: "cannot return to idle",
			path: []types.State{types.StateConstructing, types.StateIdle},
			want: []bool{true, false},
		},
		{
			name: "cannot construct twice",
			path: []types.State{types.StateConstructing, types.StateConstructing},
			want: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := newTestStateMachine()
			for i, to := range tt.path {
				require.Equal(t, tt.want[i], sm.Transition(context.Background(), to), "step %d to %s", i, to)
			}
		})
	}
}

func TestStateMachine_Subscribe(t *testing.T) {
	sm := newTestStateMachine()
	ch, unsubscribe := sm.Subscribe()
	defer unsubscribe()

	require.Equal(t, types.StateIdle, <-ch)

	sm.Transition(context.Background(), types.StateConstructing)
	sm.Transition(context.Background(), types.StateSearching)
	sm.Transition(context.Background(), types.StateDone)

	require.Equal(t, types.StateConstructing, <-ch)
	require.Equal(t, types.StateSearching, <-ch)
	require.Equal(t, types.StateDone, <-ch)
}

func TestStateMachine_Unsubscribe(t *testing.T) {
	sm := newTestStateMachine()
	ch, unsubscribe := sm.Subscribe()
	<-ch

	unsubscribe()
	unsubscribe() // idempotent

	_, ok := <-ch
	require.False(t, ok)
	require.NotPanics(t, func() { sm.Transition(context.Background(), types.StateConstructing) })
}

func TestStateMachine_SlowSubscriberDropsUpdates(t *testing.T) {
	m := &droppedCounter{NopMetrics: metrics.NewNop()}
	sm := NewStateMachine(logging.NewNop(), m, hooks.NewNop())
	_, unsubscribe := sm.Subscribe() // never drained
	defer unsubscribe()

	ctx := context.Background()
	for range 3 {
		sm.Transition(ctx, types.StateConstructing)
		sm.Transition(ctx, types.StateDone)
	}

	// Buffer of 4 holds Idle plus three transitions; the rest are dropped.
	require.Equal(t, 3, m.dropped)
}

func TestStateMachine_Hooks(t *testing.T) {
	var seen []types.State
	h := hooks.Fill(&types.Hooks{
		OnStateChanged: func(_ context.Context, _, to types.State) error {
			seen = append(seen, to)
			return errors.New("ignored")
		},
	})
	sm := NewStateMachine(logging.NewNop(), metrics.NewNop(), h)

	require.True(t, sm.Transition(context.Background(), types.StateConstructing))
	require.False(t, sm.Transition(context.Background(), types.StateIdle))
	require.True(t, sm.Transition(context.Background(), types.StateDone))

	require.Equal(t, []types.State{types.StateConstructing, types.StateDone}, seen)
}

func TestStateMachine_Close(t *testing.T) {
	sm := newTestStateMachine()
	a, _ := sm.Subscribe()
	b, _ := sm.Subscribe()
	<-a
	<-b

	sm.Close()

	_, ok := <-a
	require.False(t, ok)
	_, ok = <-b
	require.False(t, ok)
}
