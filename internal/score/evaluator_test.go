package score

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uyuni-project/subscription-matcher-sub000/test/testutil"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// fullOracle hides the incremental methods of a Ledger.
type fullOracle struct {
	l *Ledger
}

func (o fullOracle) Score(v *types.Vector) (types.Score, error) {
	return o.l.Score(v)
}

type failingOracle struct{}

func (failingOracle) Score(*types.Vector) (types.Score, error) {
	return types.Score{}, errors.New("rules engine unavailable")
}

func TestEvaluator_TryLeavesVectorUntouched(t *testing.T) {
	v := build(t, testutil.ConflictingPairInput())
	ev, err := NewEvaluator(NewLedger(), v)
	require.NoError(t, err)
	require.Equal(t, types.Score{}, ev.Current())

	s, err := ev.Try(types.Move{Changes: []types.Change{{Index: 0, Value: types.True}}})
	require.NoError(t, err)
	require.Equal(t, int64(CoverageWeight-100), s.Quality)

	require.Equal(t, types.Unset, v.Value(0))
	require.Equal(t, types.Score{}, ev.Current())

	// running totals were restored too
	s, err = ev.Try(types.Move{Changes: []types.Change{{Index: 1, Value: types.True}}})
	require.NoError(t, err)
	require.Equal(t, types.Score{Feasibility: 0, Quality: CoverageWeight - 100}, s)
}

func TestEvaluator_Commit(t *testing.T) {
	v := build(t, testutil.ConflictingPairInput())
	ev, err := NewEvaluator(NewLedger(), v)
	require.NoError(t, err)

	s, err := ev.Commit(types.Move{Changes: []types.Change{{Index: 0, Value: types.True}}})
	require.NoError(t, err)
	require.Equal(t, s, ev.Current())
	require.Equal(t, types.True, v.Value(0))

	// a no-op move keeps the current score
	s2, err := ev.Commit(types.Move{Changes: []types.Change{{Index: 0, Value: types.True}}})
	require.NoError(t, err)
	require.Equal(t, s, s2)
}

func TestEvaluator_IncrementalAndFullAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	in := testutil.RandomInput(rng, testutil.DefaultGenConfig())

	vInc := build(t, in)
	vFull := build(t, in)
	evInc, err := NewEvaluator(NewLedger(), vInc)
	require.NoError(t, err)
	evFull, err := NewEvaluator(fullOracle{l: NewLedger()}, vFull)
	require.NoError(t, err)

	for range 100 {
		m := types.Move{Changes: []types.Change{{Index: rng.IntN(vInc.Len()), Value: types.Confirmed(1 + rng.IntN(2))}}}

		a, err := evInc.Try(m)
		require.NoError(t, err)
		b, err := evFull.Try(m)
		require.NoError(t, err)
		require.Equal(t, b, a)

		if rng.IntN(2) == 0 {
			a, err = evInc.Commit(m)
			require.NoError(t, err)
			b, err = evFull.Commit(m)
			require.NoError(t, err)
			require.Equal(t, b, a)
		}
	}
	require.Equal(t, vFull.Associations(), vInc.Associations())
}

func TestEvaluator_OracleFailure(t *testing.T) {
	v := build(t, testutil.SingleMatchInput())

	_, err := NewEvaluator(failingOracle{}, v)
	require.ErrorIs(t, err, types.ErrOracleFailure)
	require.ErrorContains(t, err, "rules engine unavailable")
}
