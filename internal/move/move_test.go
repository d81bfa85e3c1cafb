package move

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/facts"
	"github.com/uyuni-project/subscription-matcher-sub000/test/testutil"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

func buildModel(t *testing.T, in *types.Input) *facts.Model {
	t.Helper()
	m, err := facts.Build(in)
	require.NoError(t, err)

	return m
}

func collect(seq func(func(types.Move) bool)) []types.Move {
	var out []types.Move
	for m := range seq {
		out = append(out, m)
	}

	return out
}

// decide fixes every association to False, then confirms the given groups.
func decide(m *facts.Model, confirmed ...int) {
	v := m.Vector
	for i := range v.Len() {
		v.Apply(types.Move{Changes: []types.Change{{Index: i, Value: types.False}}})
	}
	for _, id := range confirmed {
		v.Apply(Confirm(m.Conflicts, v, id))
	}
}

func TestConfirm_CascadesConflicts(t *testing.T) {
	m := buildModel(t, testutil.ConflictingPairInput())
	decide(m, 0)

	mv := Confirm(m.Conflicts, m.Vector, 1)
	require.Equal(t, []types.Change{
		{Index: 1, Value: types.True},
		{Index: 0, Value: types.False},
	}, mv.Changes)
	require.Equal(t, []int{0, 1}, mv.Touched())
}

func TestConfirm_FoldsGroupMates(t *testing.T) {
	in := &types.Input{
		Candidates: []types.Candidate{
			{SystemID: 1, ProductID: 1, SubscriptionID: 1, Cents: 100, GroupID: 1},
			{SystemID: 1, ProductID: 2, SubscriptionID: 1, Cents: 100, GroupID: 1},
			{SystemID: 2, ProductID: 1, SubscriptionID: 1, Cents: 100, GroupID: 2},
		},
		Conflicts: []types.ConflictEdge{{GroupA: 1, GroupB: 2}},
	}
	m := buildModel(t, in)
	decide(m, 2)

	mv := Confirm(m.Conflicts, m.Vector, 1)
	require.Equal(t, []int{0, 1, 2}, mv.Touched())

	m.Vector.Apply(mv)
	require.Equal(t, types.True, m.Vector.Value(0))
	require.Equal(t, types.False, m.Vector.Value(2))
}

func TestFlip(t *testing.T) {
	t.Run("toggles every group once", func(t *testing.T) {
		m := buildModel(t, testutil.CapacityBoundInput())
		decide(m, 0)
		f := NewFlip(m.Conflicts)

		require.Equal(t, "flip", f.Name())
		require.Equal(t, 3, f.Size(m.Vector))

		moves := collect(f.Moves(m.Vector, rand.New(rand.NewPCG(1, 1)), 100))
		require.Len(t, moves, 3)
		for _, mv := range moves {
			require.Len(t, mv.Changes, 1)
			c := mv.Changes[0]
			require.Equal(t, m.Vector.Value(c.Index).Negate(), c.Value)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		m := buildModel(t, testutil.CapacityBoundInput())
		decide(m)
		moves := collect(NewFlip(m.Conflicts).Moves(m.Vector, rand.New(rand.NewPCG(1, 1)), 2))
		require.Len(t, moves, 2)
	})

	t.Run("never confirms a self-conflicting group", func(t *testing.T) {
		in := testutil.CapacityBoundInput()
		in.Conflicts = []types.ConflictEdge{{GroupA: 2, GroupB: 2}}
		m := buildModel(t, in)
		decide(m)

		moves := collect(NewFlip(m.Conflicts).Moves(m.Vector, rand.New(rand.NewPCG(1, 1)), 100))
		require.Len(t, moves, 2)
		for _, mv := range moves {
			require.NotContains(t, mv.Touched(), 1)
		}
	})
}

func TestSwap(t *testing.T) {
	t.Run("pairs are bounded by the smaller bucket", func(t *testing.T) {
		m := buildModel(t, testutil.CapacityBoundInput())
		decide(m, 0)
		s := NewSwap(m.Conflicts, m.Vector)

		require.Equal(t, "swap", s.Name())
		require.Equal(t, 1, s.Size(m.Vector))

		moves := collect(s.Moves(m.Vector, rand.New(rand.NewPCG(1, 1)), 100))
		require.Len(t, moves, 1)

		mv := moves[0]
		require.Len(t, mv.Changes, 2)
		require.Equal(t, types.Change{Index: 0, Value: types.False}, mv.Changes[0])
		require.Equal(t, types.True, mv.Changes[1].Value)
	})

	t.Run("only pairs within one subscription", func(t *testing.T) {
		m := buildModel(t, testutil.ConflictingPairInput())
		decide(m, 0)

		s := NewSwap(m.Conflicts, m.Vector)
		require.Equal(t, 0, s.Size(m.Vector))
		require.Empty(t, collect(s.Moves(m.Vector, rand.New(rand.NewPCG(1, 1)), 100)))
	})

	t.Run("nothing to swap when all confirmed", func(t *testing.T) {
		m := buildModel(t, testutil.CapacityBoundInput())
		decide(m, 0, 1, 2)

		require.Empty(t, collect(NewSwap(m.Conflicts, m.Vector).Moves(m.Vector, rand.New(rand.NewPCG(1, 1)), 100)))
	})
}

func TestUnion(t *testing.T) {
	m := buildModel(t, testutil.CapacityBoundInput())
	decide(m, 0)
	gens := []Generator{NewFlip(m.Conflicts), NewSwap(m.Conflicts, m.Vector)}

	t.Run("draws every candidate of every generator", func(t *testing.T) {
		moves := collect(Union(m.Vector, rand.New(rand.NewPCG(5, 5)), 100, gens...))
		require.Len(t, moves, 4) // 3 flips + 1 swap
	})

	t.Run("caps each generator", func(t *testing.T) {
		moves := collect(Union(m.Vector, rand.New(rand.NewPCG(5, 5)), 1, gens...))
		require.Len(t, moves, 2)
	})

	t.Run("same seed same sequence", func(t *testing.T) {
		a := collect(Union(m.Vector, rand.New(rand.NewPCG(9, 9)), 100, gens...))
		b := collect(Union(m.Vector, rand.New(rand.NewPCG(9, 9)), 100, gens...))
		require.Equal(t, a, b)
	})

	t.Run("early stop releases generators", func(t *testing.T) {
		for mv := range Union(m.Vector, rand.New(rand.NewPCG(5, 5)), 100, gens...) {
			require.NotEmpty(t, mv.Changes)
			break
		}
	})
}

// TestMoves_PreserveConflictFreedom applies random generated moves to
// conflict-free vectors and checks the result is still conflict-free.
func TestMoves_PreserveConflictFreedom(t *testing.T) {
	for seed := range uint64(10) {
		rng := rand.New(rand.NewPCG(seed, 11))
		m := buildModel(t, testutil.RandomInput(rng, testutil.DefaultGenConfig()))
		decide(m)
		gens := []Generator{NewFlip(m.Conflicts), NewSwap(m.Conflicts, m.Vector)}

		for range 50 {
			moves := collect(Union(m.Vector, rng, 50, gens...))
			if len(moves) == 0 {
				break
			}
			mv := moves[rng.IntN(len(moves))]

			touched := mv.Touched()
			require.True(t, slices.IsSorted(touched))
			require.Len(t, slices.Compact(slices.Clone(touched)), len(touched), "touched set has duplicates")

			m.Vector.Apply(mv)
			testutil.AssertConflictFree(t, m.Conflicts, m.Vector)
			testutil.AssertGroupsConsistent(t, m.Conflicts, m.Vector)
		}
	}
}
