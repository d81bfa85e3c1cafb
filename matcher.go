package matcher

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/assemble"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/facts"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/hooks"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/logging"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/metrics"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/score"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/search"
)

// Matcher matches systems to subscriptions.
//
// A Matcher runs one match at a time; concurrent calls to Run or Match fail
// with ErrAlreadyRunning. Independent Matchers share nothing and may run in
// parallel.
type Matcher struct {
	cfg     Config
	src     FactSource
	logger  Logger
	metrics MetricsCollector
	oracle  ScoreOracle
	hooks   Hooks
	sink    ResultSink
	sm      *search.StateMachine

	running atomic.Bool
}

// NewMatcher creates a new Matcher.
//
// The configuration is copied, completed with SetDefaults and validated.
//
// Parameters:
//   - cfg: Configuration (DefaultConfig() if nil)
//   - src: Fact source used by Run (may be nil when only Match is used)
//   - opts: Optional logger, metrics, oracle, hooks and sink
//
// Returns:
//   - *Matcher: A new matcher in the Idle state
//   - error: ErrInvalidConfig (wrapped) when the configuration is invalid
//
// Example:
//
//	cfg := matcher.DefaultConfig()
//	m, err := matcher.NewMatcher(&cfg, source.NewFile("facts.yaml"))
//	if err != nil {
//	    return err
//	}
//	result, err := m.Run(ctx)
func NewMatcher(cfg *Config, src FactSource, opts ...Option) (*Matcher, error) {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	SetDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	o := &matcherOptions{}
	for _, opt := range opts {
		opt(o)
	}

	m := &Matcher{
		cfg:     c,
		src:     src,
		logger:  o.logger,
		metrics: o.metrics,
		oracle:  o.oracle,
		hooks:   hooks.Fill(o.hooks),
		sink:    o.sink,
	}
	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	if m.metrics == nil {
		m.metrics = metrics.NewNop()
	}
	m.sm = search.NewStateMachine(m.logger, m.metrics, m.hooks)

	c.ValidateWithWarnings(m.logger)

	return m, nil
}

// Run loads facts from the source, matches them and publishes the result.
//
// Parameters:
//   - ctx: Context for loading, solving and publishing
//
// Returns:
//   - *Result: The result; also returned alongside ErrPublishFailed
//   - error: ErrFactSourceRequired, ErrAlreadyRunning, ErrLoadFailed,
//     ErrOracleFailure, ErrRunCanceled or ErrPublishFailed (wrapped)
func (m *Matcher) Run(ctx context.Context) (*Result, error) {
	if m.src == nil {
		return nil, ErrFactSourceRequired
	}
	if !m.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer m.running.Store(false)

	in, err := m.src.Load(ctx)
	if err != nil {
		m.metrics.RecordRunFailure("source")
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	return m.match(ctx, in)
}

// Match matches the given facts and publishes the result.
//
// The input is not modified.
//
// Parameters:
//   - ctx: Context for solving and publishing
//   - in: Facts to match
//
// Returns:
//   - *Result: The result; also returned alongside ErrPublishFailed
//   - error: ErrNilInput, ErrAlreadyRunning, ErrOracleFailure,
//     ErrRunCanceled or ErrPublishFailed (wrapped)
func (m *Matcher) Match(ctx context.Context, in *Input) (*Result, error) {
	if !m.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer m.running.Store(false)

	return m.match(ctx, in)
}

func (m *Matcher) match(ctx context.Context, in *Input) (*Result, error) {
	model, err := facts.Build(in, facts.WithLogger(m.logger))
	if err != nil {
		return nil, err
	}
	m.logger.Debug("fact model built", "model", model.String())

	oracle := m.oracle
	if oracle == nil {
		oracle = score.NewLedger()
	}

	driver := search.NewDriver(m.limits(), oracle,
		search.WithLogger(m.logger),
		search.WithMetrics(m.metrics),
		search.WithHooks(&m.hooks),
		search.WithStateMachine(m.sm),
	)
	out, err := driver.Run(ctx, model)
	if err != nil {
		return nil, err
	}

	res := assemble.Assemble(model, out.Best, out.Score, RunStats{
		Seed:              m.cfg.Seed,
		Associations:      model.Vector.Len(),
		Steps:             out.Steps,
		ConstructionScore: out.ConstructionScore,
		Termination:       out.Termination,
		ElapsedMillis:     out.Elapsed.Milliseconds(),
	})

	m.logger.Info("match complete",
		"confirmed", len(res.Confirmed),
		"messages", len(res.Messages),
		"score", res.Score.String(),
	)

	if m.sink != nil {
		if err := m.sink.Publish(ctx, res); err != nil {
			m.metrics.RecordRunFailure("sink")
			return res, fmt.Errorf("%w: %w", ErrPublishFailed, err)
		}
	}

	return res, nil
}

func (m *Matcher) limits() search.Limits {
	s := m.cfg.Search

	return search.Limits{
		Seed:            m.cfg.Seed,
		TabuWindow:      s.TabuWindow,
		MoveCap:         s.MoveCap,
		ForageCap:       s.ForageCap,
		UnimprovedLimit: s.UnimprovedStepLimit,
		StepLimit:       s.StepLimit,
		TimeLimit:       s.TimeLimit,
	}
}

// State returns the current run state.
//
// This method is thread-safe and can be called concurrently.
func (m *Matcher) State() State {
	return m.sm.State()
}

// Subscribe returns a channel receiving run state changes.
//
// The channel is buffered and receives the current state immediately.
// Updates are dropped rather than blocking the run when the subscriber is slow.
//
// Returns:
//   - <-chan State: Channel that receives state updates
//   - func(): Unsubscribe function to clean up resources
func (m *Matcher) Subscribe() (<-chan State, func()) {
	return m.sm.Subscribe()
}

// Close closes every subscription channel. The Matcher stays usable.
func (m *Matcher) Close() {
	m.sm.Close()
}
