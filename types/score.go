package types

import (
	"cmp"
	"fmt"
)

// Score is the (feasibility, quality) pair produced by a ScoreOracle.
//
// Feasibility is 0 when no constraint is violated and negative otherwise.
// Quality is higher-is-better. Comparison is lexicographic, feasibility first.
type Score struct {
	Feasibility int64 `json:"feasibility"`
	Quality     int64 `json:"quality"`
}

// Compare compares two scores, feasibility first.
//
// Returns:
//   - int: -1 if s is worse than o, 0 if equal, +1 if s is better
func (s Score) Compare(o Score) int {
	if c := cmp.Compare(s.Feasibility, o.Feasibility); c != 0 {
		return c
	}

	return cmp.Compare(s.Quality, o.Quality)
}

// Feasible reports whether no constraint is violated.
func (s Score) Feasible() bool {
	return s.Feasibility >= 0
}

// String returns the string representation of the score.
func (s Score) String() string {
	return fmt.Sprintf("%dfeasibility/%dquality", s.Feasibility, s.Quality)
}

// ScoreOracle maps a decision vector to a Score.
//
// Implementations are not required to be safe for concurrent use; a run
// calls its oracle from a single goroutine.
type ScoreOracle interface {
	// Score evaluates the vector from scratch.
	//
	// Parameters:
	//   - v: Decision vector to evaluate
	//
	// Returns:
	//   - Score: Evaluated score
	//   - error: ErrOracleFailure (wrapped) when side facts are malformed
	Score(v *Vector) (Score, error)
}

// IncrementalOracle is a ScoreOracle that keeps running totals for one bound
// vector and updates them from the diffs of each change.
type IncrementalOracle interface {
	ScoreOracle

	// Bind rebuilds the running totals from v and returns its score.
	Bind(v *Vector) (Score, error)

	// Update folds diffs already applied to the bound vector into the
	// running totals and returns the new score.
	Update(v *Vector, diffs []Diff) (Score, error)
}
