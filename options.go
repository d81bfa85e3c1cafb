package matcher

// Option configures a Matcher with optional dependencies.
type Option func(*matcherOptions)

// matcherOptions holds optional Matcher configuration.
type matcherOptions struct {
	logger  Logger
	metrics MetricsCollector
	oracle  ScoreOracle
	hooks   *Hooks
	sink    ResultSink
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewMatcher
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	m, err := matcher.NewMatcher(&cfg, src, matcher.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *matcherOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewMatcher
//
// Example:
//
//	metrics := matcher.NewPrometheusMetrics(prometheus.DefaultRegisterer, "")
//	m, err := matcher.NewMatcher(&cfg, src, matcher.WithMetrics(metrics))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *matcherOptions) {
		o.metrics = metrics
	}
}

// WithOracle replaces the default score oracle.
//
// The oracle is shared by every run of the Matcher. When it implements
// IncrementalOracle it is rebound at the start of each run. Without this
// option each run uses a fresh built-in ledger.
//
// Parameters:
//   - oracle: ScoreOracle implementation
//
// Returns:
//   - Option: Functional option for NewMatcher
func WithOracle(oracle ScoreOracle) Option {
	return func(o *matcherOptions) {
		o.oracle = oracle
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewMatcher
//
// Example:
//
//	hooks := &matcher.Hooks{
//	    OnNewBest: func(ctx context.Context, step int, score matcher.Score) error {
//	        log.Printf("step %d: %s", step, score)
//	        return nil
//	    },
//	}
//	m, err := matcher.NewMatcher(&cfg, src, matcher.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *matcherOptions) {
		o.hooks = hooks
	}
}

// WithSink sets the sink every successful result is published to.
//
// Parameters:
//   - sink: ResultSink implementation
//
// Returns:
//   - Option: Functional option for NewMatcher
func WithSink(sink ResultSink) Option {
	return func(o *matcherOptions) {
		o.sink = sink
	}
}
