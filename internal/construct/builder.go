// Package construct builds the initial decision vector in one greedy,
// deterministic pass.
package construct

import (
	"context"
	"fmt"
	"time"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/facts"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/logging"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/metrics"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/move"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/score"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// cancelCheckInterval is how many associations are decided between context checks.
const cancelCheckInterval = 1024

// Builder decides every association once, in canonical order.
//
// For each undecided association it scores setting its group to false and,
// when eligible, to true, and keeps the better option; ties keep false.
// Setting true is ineligible when the group conflicts with itself or any
// conflicting association is already confirmed, so the result never holds a
// confirmed conflicting pair.
type Builder struct {
	idx     *facts.ConflictIndex
	logger  types.Logger
	metrics types.ConstructionMetrics
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(logger types.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m types.ConstructionMetrics) Option {
	return func(b *Builder) {
		if m != nil {
			b.metrics = m
		}
	}
}

// NewBuilder creates a construction builder.
//
// Parameters:
//   - idx: Conflict index of the model being solved
//   - opts: Optional logger and metrics
//
// Returns:
//   - *Builder: A new builder
func NewBuilder(idx *facts.ConflictIndex, opts ...Option) *Builder {
	b := &Builder{
		idx:     idx,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build decides every Unset association of the evaluator's vector.
//
// Parameters:
//   - ctx: Context checked periodically for cancellation
//   - ev: Evaluator bound to the vector to construct
//
// Returns:
//   - types.Score: Score of the constructed vector
//   - error: Oracle failure or ErrRunCanceled
func (b *Builder) Build(ctx context.Context, ev *score.Evaluator) (types.Score, error) {
	start := time.Now()
	v := ev.Vector()

	for i := range v.Len() {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return types.Score{}, fmt.Errorf("%w: %w", types.ErrRunCanceled, err)
			}
		}
		if v.Value(i) != types.Unset {
			continue // decided together with an earlier group mate
		}

		chosen := move.Reject(b.idx, v, i)
		chosenScore, err := ev.Try(chosen)
		if err != nil {
			return types.Score{}, err
		}

		if b.eligible(v, i) {
			confirm := move.Confirm(b.idx, v, i)
			s, err := ev.Try(confirm)
			if err != nil {
				return types.Score{}, err
			}
			if s.Compare(chosenScore) > 0 {
				chosen = confirm
			}
		}

		if _, err := ev.Commit(chosen); err != nil {
			return types.Score{}, err
		}
	}

	confirmed := v.ConfirmedCount()
	elapsed := time.Since(start)
	b.metrics.RecordConstructionDuration(elapsed.Seconds())
	b.metrics.RecordConstructionConfirmed(confirmed)
	b.logger.Debug("construction finished",
		"associations", v.Len(),
		"confirmed", confirmed,
		"score", ev.Current().String(),
		"duration", elapsed,
	)

	return ev.Current(), nil
}

func (b *Builder) eligible(v *types.Vector, id int) bool {
	return !b.idx.Blocked(id) && !b.idx.ConflictsWithConfirmed(v, id)
}
