package matcher

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SearchConfig bounds the local search.
type SearchConfig struct {
	// TabuWindow is how many recent moves are barred from being repeated.
	// A move is identified by the associations it touches, not by the values
	// it writes.
	TabuWindow int `yaml:"tabuWindow"`

	// MoveCap is how many candidate moves each generator contributes per step.
	MoveCap int `yaml:"moveCap"`

	// ForageCap is how many candidate moves are scored per step.
	ForageCap int `yaml:"forageCap"`

	// UnimprovedStepLimit stops the search after this many consecutive steps
	// without a new best score.
	//
	// Default: 200 (TestConfig: 20)
	UnimprovedStepLimit int `yaml:"unimprovedStepLimit"`

	// StepLimit stops the search after this many steps in total (0 = no limit).
	StepLimit int `yaml:"stepLimit"`

	// TimeLimit stops the search after this much wall-clock time (0 = no limit).
	TimeLimit time.Duration `yaml:"timeLimit"`
}

// ResultsConfig configures where results are published.
//
// It is read by the submatch command; the Matcher itself only publishes to
// the sink given with WithSink.
type ResultsConfig struct {
	// Bucket is the NATS JetStream KV bucket receiving results.
	// Empty disables KV publication.
	Bucket string `yaml:"bucket"`

	// KeyPrefix prefixes every result key ("<prefix>.latest", "<prefix>.<unix>").
	KeyPrefix string `yaml:"keyPrefix"`

	// History is the number of revisions kept per key.
	History int `yaml:"history"`

	// TTL is how long results remain in KV (0 = no expiration).
	TTL time.Duration `yaml:"ttl"`

	// OperationTimeout is the timeout for KV operations.
	OperationTimeout time.Duration `yaml:"operationTimeout"`
}

// Config is the configuration of a Matcher.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h".
type Config struct {
	// Seed seeds the random source threaded through the whole run. Identical
	// input and seed produce identical output.
	Seed int64 `yaml:"seed"`

	// Search bounds the local search.
	Search SearchConfig `yaml:"search"`

	// Results configures result publication.
	Results ResultsConfig `yaml:"results"`
}

// DefaultConfig returns a Config with production defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Seed: 0,
		Search: SearchConfig{
			TabuWindow:          50,
			MoveCap:             10000,
			ForageCap:           5000,
			UnimprovedStepLimit: 200,
			StepLimit:           15000,
			TimeLimit:           time.Hour,
		},
		Results: ResultsConfig{
			KeyPrefix:        "matcher",
			History:          5,
			TTL:              0, // results persist until replaced
			OperationTimeout: 10 * time.Second,
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Search.MoveCap == 0 {
		cfg.Search.MoveCap = defaults.Search.MoveCap
	}
	if cfg.Search.ForageCap == 0 {
		cfg.Search.ForageCap = defaults.Search.ForageCap
	}
	if cfg.Search.UnimprovedStepLimit == 0 {
		cfg.Search.UnimprovedStepLimit = defaults.Search.UnimprovedStepLimit
	}
	if cfg.Results.KeyPrefix == "" {
		cfg.Results.KeyPrefix = defaults.Results.KeyPrefix
	}
	if cfg.Results.History == 0 {
		cfg.Results.History = defaults.Results.History
	}
	if cfg.Results.OperationTimeout == 0 {
		cfg.Results.OperationTimeout = defaults.Results.OperationTimeout
	}
	// Note: Seed, TabuWindow, StepLimit, TimeLimit and TTL accept 0, so no default is applied
}

// Validate checks configuration constraints.
//
// Hard Validation Rules:
//   - TabuWindow >= 0
//   - MoveCap, ForageCap and UnimprovedStepLimit > 0
//   - StepLimit >= 0 and TimeLimit >= 0
//   - History in [1, 64] (JetStream KV limit)
//
// Returns:
//   - error: ErrInvalidConfig wrapped with the failed rule, nil if valid
func (cfg *Config) Validate() error {
	s := cfg.Search
	switch {
	case s.TabuWindow < 0:
		return fmt.Errorf("%w: tabuWindow must be >= 0, got %d", ErrInvalidConfig, s.TabuWindow)
	case s.MoveCap <= 0:
		return fmt.Errorf("%w: moveCap must be > 0, got %d", ErrInvalidConfig, s.MoveCap)
	case s.ForageCap <= 0:
		return fmt.Errorf("%w: forageCap must be > 0, got %d", ErrInvalidConfig, s.ForageCap)
	case s.UnimprovedStepLimit <= 0:
		return fmt.Errorf("%w: unimprovedStepLimit must be > 0, got %d", ErrInvalidConfig, s.UnimprovedStepLimit)
	case s.StepLimit < 0:
		return fmt.Errorf("%w: stepLimit must be >= 0, got %d", ErrInvalidConfig, s.StepLimit)
	case s.TimeLimit < 0:
		return fmt.Errorf("%w: timeLimit must be >= 0, got %v", ErrInvalidConfig, s.TimeLimit)
	}

	if h := cfg.Results.History; h < 1 || h > 64 {
		return fmt.Errorf("%w: results.history must be within [1, 64], got %d", ErrInvalidConfig, h)
	}

	return nil
}

// ValidateWithWarnings logs warnings for non-recommended values.
//
// This is called after Validate() in NewMatcher() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	s := cfg.Search
	if s.ForageCap > 2*s.MoveCap {
		logger.Warn(
			"forageCap exceeds the candidates drawn per step and is never reached",
			"forageCap", s.ForageCap,
			"moveCap", s.MoveCap,
		)
	}

	if s.StepLimit == 0 && s.TimeLimit == 0 {
		logger.Warn(
			"search is bounded only by the unimproved step limit",
			"unimprovedStepLimit", s.UnimprovedStepLimit,
		)
	}

	if s.TabuWindow >= s.UnimprovedStepLimit {
		logger.Warn(
			"tabuWindow is not smaller than unimprovedStepLimit, moves are barred for a whole unimproved run",
			"tabuWindow", s.TabuWindow,
			"unimprovedStepLimit", s.UnimprovedStepLimit,
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// The search gives up after 20 unimproved steps instead of 200. Use
// DefaultConfig() for production runs.
//
// Returns:
//   - Config: Configuration with a fast search profile
//
// Example:
//
//	cfg := matcher.TestConfig()
//	cfg.Seed = 42
//	m, err := matcher.NewMatcher(&cfg, source.NewStatic(input))
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Search.TabuWindow = 10
	cfg.Search.UnimprovedStepLimit = 20 // 10x faster
	cfg.Search.TimeLimit = time.Minute

	return cfg
}

// LoadConfig reads a YAML configuration file and applies defaults.
//
// Fields absent from the file keep their DefaultConfig value; fields set to
// zero are completed by SetDefaults, except those where zero is meaningful.
//
// Parameters:
//   - path: Path to the YAML file
//
// Returns:
//   - Config: Loaded configuration with defaults applied
//   - error: Read, parse or validation error
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidConfig, path, err)
	}
	SetDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
