// Package search runs construction followed by tabu local search over the
// decision vector and tracks the run state.
package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/construct"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/facts"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/hooks"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/logging"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/metrics"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/move"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/score"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// pcgStream is the fixed second PCG word; the run seed is the first.
const pcgStream = 0x9e3779b97f4a7c15

// Limits bounds one search.
type Limits struct {
	Seed            int64         // random seed threaded through the whole run
	TabuWindow      int           // remembered moves, 0 disables tabu
	MoveCap         int           // candidate moves drawn per generator per step
	ForageCap       int           // candidate moves scored per step
	UnimprovedLimit int           // steps without a new best before stopping
	StepLimit       int           // total steps, 0 = unlimited
	TimeLimit       time.Duration // wall clock, 0 = unlimited
}

// Outcome is the result of a completed search.
type Outcome struct {
	Best              *types.Vector // best-ever vector, owned by the caller
	Score             types.Score
	ConstructionScore types.Score
	Steps             int
	Termination       types.Termination
	Elapsed           time.Duration
}

// Driver runs construction and local search.
type Driver struct {
	limits  Limits
	oracle  types.ScoreOracle
	logger  types.Logger
	metrics types.MetricsCollector
	hooks   types.Hooks
	sm      *StateMachine
	now     func() time.Time
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger.
func WithLogger(logger types.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m types.MetricsCollector) Option {
	return func(d *Driver) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithHooks sets the lifecycle hooks. Nil callbacks are replaced by no-ops.
func WithHooks(h *types.Hooks) Option {
	return func(d *Driver) {
		d.hooks = hooks.Fill(h)
	}
}

// WithStateMachine makes the driver report its states to sm instead of a
// private state machine.
func WithStateMachine(sm *StateMachine) Option {
	return func(d *Driver) {
		d.sm = sm
	}
}

// WithClock overrides the wall clock used for the time limit.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDriver creates a search driver.
//
// Parameters:
//   - limits: Search limits and seed
//   - oracle: Score oracle, used incrementally when it supports it
//   - opts: Optional logger, metrics, hooks, state machine and clock
//
// Returns:
//   - *Driver: A new driver
func NewDriver(limits Limits, oracle types.ScoreOracle, opts ...Option) *Driver {
	d := &Driver{
		limits:  limits,
		oracle:  oracle,
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
		hooks:   hooks.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.sm == nil {
		d.sm = NewStateMachine(d.logger, d.metrics, d.hooks)
	}

	return d
}

// State returns the state of the driver's state machine.
func (d *Driver) State() types.State {
	return d.sm.State()
}

// Run constructs and improves the model's vector.
//
// The model's vector is mutated in place and holds the last visited state on
// return; Outcome.Best holds the best-ever state. The run always ends in the
// Done state, also when it fails.
//
// Parameters:
//   - ctx: Context checked between steps
//   - model: Fact model to solve
//
// Returns:
//   - *Outcome: Best vector, its score and run statistics
//   - error: Wrapped ErrOracleFailure or ErrRunCanceled
func (d *Driver) Run(ctx context.Context, model *facts.Model) (*Outcome, error) {
	start := d.now()
	d.sm.Transition(ctx, types.StateConstructing)

	out, err := d.run(ctx, model, start)
	d.sm.Transition(ctx, types.StateDone)

	if err != nil {
		d.metrics.RecordRunFailure(failureReason(err))
		if hookErr := d.hooks.OnError(ctx, err); hookErr != nil {
			d.logger.Error("error hook failed", "error", hookErr)
		}

		return nil, err
	}

	out.Elapsed = d.now().Sub(start)
	d.metrics.RecordRunDuration(out.Elapsed.Seconds(), out.Termination)
	d.logger.Info("search finished",
		"termination", string(out.Termination),
		"steps", out.Steps,
		"score", out.Score.String(),
		"elapsed", out.Elapsed,
	)

	return out, nil
}

func (d *Driver) run(ctx context.Context, model *facts.Model, start time.Time) (*Outcome, error) {
	v := model.Vector
	ev, err := score.NewEvaluator(d.oracle, v)
	if err != nil {
		return nil, err
	}

	if v.Len() == 0 {
		return &Outcome{
			Best:              v.Clone(),
			Score:             ev.Current(),
			ConstructionScore: ev.Current(),
			Termination:       types.TerminationEmpty,
		}, nil
	}

	builder := construct.NewBuilder(model.Conflicts,
		construct.WithLogger(d.logger),
		construct.WithMetrics(d.metrics),
	)
	constructed, err := builder.Build(ctx, ev)
	if err != nil {
		return nil, err
	}

	d.sm.Transition(ctx, types.StateSearching)

	s := d.newStep(model, ev, constructed)
	d.metrics.RecordBestScore(constructed)

	out := &Outcome{ConstructionScore: constructed}
	for {
		if out.Termination = d.terminated(out.Steps, s.unimproved, start); out.Termination != types.TerminationNotTerminated {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrRunCanceled, err)
		}
		if err := s.advance(ctx, out.Steps+1); err != nil {
			return nil, err
		}
		out.Steps++
	}

	out.Best = s.best
	out.Score = s.score

	return out, nil
}

// terminated returns the first limit reached, or TerminationNotTerminated.
func (d *Driver) terminated(steps, unimproved int, start time.Time) types.Termination {
	switch {
	case unimproved >= d.limits.UnimprovedLimit:
		return types.TerminationUnimproved
	case d.limits.StepLimit > 0 && steps >= d.limits.StepLimit:
		return types.TerminationStepLimit
	case d.limits.TimeLimit > 0 && d.now().Sub(start) >= d.limits.TimeLimit:
		return types.TerminationTimeLimit
	default:
		return types.TerminationNotTerminated
	}
}

// step holds the mutable state of one search.
type step struct {
	d          *Driver
	ev         *score.Evaluator
	rng        *rand.Rand
	gens       []move.Generator
	tabu       *tabuList
	best       *types.Vector
	score      types.Score
	unimproved int
}

// newStep starts a search from the constructed state of ev's vector.
func (d *Driver) newStep(model *facts.Model, ev *score.Evaluator, constructed types.Score) *step {
	v := ev.Vector()

	return &step{
		d:     d,
		ev:    ev,
		rng:   rand.New(rand.NewPCG(uint64(d.limits.Seed), pcgStream)), //nolint:gosec // G115: seed bits are reinterpreted
		gens:  []move.Generator{move.NewFlip(model.Conflicts), move.NewSwap(model.Conflicts, v)},
		tabu:  newTabuList(d.limits.TabuWindow),
		best:  v.Clone(),
		score: constructed,
	}
}

type candidate struct {
	move    types.Move
	touched []int
	score   types.Score
}

// advance performs one step: forage, apply the selection, update the best.
func (s *step) advance(ctx context.Context, n int) error {
	sel, found, evaluated, rejected, err := s.forage()
	if err != nil {
		return err
	}
	s.d.metrics.RecordStep(evaluated, rejected, found)
	if !found {
		s.unimproved++
		return nil
	}

	current, err := s.ev.Commit(sel.move)
	if err != nil {
		return err
	}
	s.tabu.push(sel.touched)

	if current.Compare(s.score) <= 0 {
		s.unimproved++
		return nil
	}

	s.best = s.ev.Vector().Clone()
	s.score = current
	s.unimproved = 0
	s.d.metrics.RecordBestScore(current)
	s.d.logger.Debug("new best", "step", n, "score", current.String())
	if err := s.d.hooks.OnNewBest(ctx, n, current); err != nil {
		s.d.logger.Error("new best hook failed", "step", n, "error", err)
	}

	return nil
}

// forage scores up to ForageCap non-tabu candidates and returns the best
// feasible one. Ties keep the first encountered.
func (s *step) forage() (best candidate, found bool, evaluated, rejected int, err error) {
	v := s.ev.Vector()
	for m := range move.Union(v, s.rng, s.d.limits.MoveCap, s.gens...) {
		if evaluated >= s.d.limits.ForageCap {
			break
		}

		touched := m.Touched()
		if s.tabu.contains(touched) {
			rejected++
			continue
		}

		sc, err := s.ev.Try(m)
		if err != nil {
			return candidate{}, false, evaluated, rejected, err
		}
		evaluated++

		if !sc.Feasible() {
			continue
		}
		if !found || sc.Compare(best.score) > 0 {
			best = candidate{move: m, touched: touched, score: sc}
			found = true
		}
	}

	return best, found, evaluated, rejected, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, types.ErrRunCanceled):
		return "canceled"
	case errors.Is(err, types.ErrOracleFailure):
		return "oracle"
	default:
		return "unknown"
	}
}
