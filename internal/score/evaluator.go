package score

import (
	"errors"
	"fmt"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Evaluator scores trial moves against one vector and commits chosen ones.
//
// When the oracle implements types.IncrementalOracle the evaluator feeds it
// diffs; otherwise every trial is scored from scratch. Either way a trial
// leaves the vector exactly as it found it.
type Evaluator struct {
	oracle      types.ScoreOracle
	incremental types.IncrementalOracle
	v           *types.Vector
	current     types.Score
}

// NewEvaluator binds oracle to v and scores the starting point.
//
// Parameters:
//   - oracle: Score oracle (incremental if it implements types.IncrementalOracle)
//   - v: Vector owned by the caller for the lifetime of the evaluator
//
// Returns:
//   - *Evaluator: Bound evaluator
//   - error: Wrapped oracle error
func NewEvaluator(oracle types.ScoreOracle, v *types.Vector) (*Evaluator, error) {
	e := &Evaluator{oracle: oracle, v: v}

	var err error
	if inc, ok := oracle.(types.IncrementalOracle); ok {
		e.incremental = inc
		e.current, err = inc.Bind(v)
	} else {
		e.current, err = oracle.Score(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to score initial vector: %w", asOracleFailure(err))
	}

	return e, nil
}

// Current returns the score of the vector in its current state.
func (e *Evaluator) Current() types.Score {
	return e.current
}

// Vector returns the evaluated vector.
func (e *Evaluator) Vector() *types.Vector {
	return e.v
}

// Try scores the vector as if m were applied, then restores it.
func (e *Evaluator) Try(m types.Move) (types.Score, error) {
	diffs := e.v.Apply(m)
	if len(diffs) == 0 {
		return e.current, nil
	}

	s, err := e.rescore(diffs)
	e.v.Revert(diffs)
	if err != nil {
		return types.Score{}, err
	}

	if e.incremental != nil {
		if _, err := e.incremental.Update(e.v, types.Inverse(diffs)); err != nil {
			return types.Score{}, fmt.Errorf("failed to restore running totals: %w", asOracleFailure(err))
		}
	}

	return s, nil
}

// Commit applies m and makes its score current.
func (e *Evaluator) Commit(m types.Move) (types.Score, error) {
	diffs := e.v.Apply(m)
	if len(diffs) == 0 {
		return e.current, nil
	}

	s, err := e.rescore(diffs)
	if err != nil {
		return types.Score{}, err
	}
	e.current = s

	return s, nil
}

func (e *Evaluator) rescore(diffs []types.Diff) (types.Score, error) {
	var (
		s   types.Score
		err error
	)
	if e.incremental != nil {
		s, err = e.incremental.Update(e.v, diffs)
	} else {
		s, err = e.oracle.Score(e.v)
	}
	if err != nil {
		return types.Score{}, fmt.Errorf("failed to score move: %w", asOracleFailure(err))
	}

	return s, nil
}

// asOracleFailure marks errors from custom oracles as oracle failures.
func asOracleFailure(err error) error {
	if errors.Is(err, types.ErrOracleFailure) {
		return err
	}

	return fmt.Errorf("%w: %w", types.ErrOracleFailure, err)
}
