package sink

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/logging"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// LatestKey is the key suffix always holding the most recent result.
const LatestKey = "latest"

// KVConfig configures a KV sink.
type KVConfig struct {
	// Bucket is the KV bucket name. Required.
	Bucket string

	// KeyPrefix prefixes every key. Default: "matcher".
	KeyPrefix string

	// History is the number of revisions kept per key. Default: 5.
	History int

	// TTL is how long results remain in the bucket (0 = no expiration).
	TTL time.Duration

	// OperationTimeout bounds each KV operation. Default: 10s.
	OperationTimeout time.Duration

	// MaxRetries bounds bucket creation attempts. Default: 3.
	MaxRetries int
}

// KV publishes results to a NATS JetStream KeyValue bucket.
//
// Every result is stored twice: under "<prefix>.latest" and under
// "<prefix>.<unix seconds of the result timestamp>", so consumers can watch
// the latest key or fetch a specific run.
type KV struct {
	kv     jetstream.KeyValue
	cfg    KVConfig
	logger types.Logger
}

var _ types.ResultSink = (*KV)(nil)

// NewKV creates or opens the bucket and returns a sink writing to it.
//
// Concurrent creators of the same bucket are tolerated: when the bucket
// already exists it is opened instead.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - js: JetStream context
//   - cfg: Bucket configuration
//   - logger: Logger (no-op if nil)
//
// Returns:
//   - *KV: Initialized KV sink
//   - error: Bucket creation error after all retries
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	kv, err := sink.NewKV(ctx, js, sink.KVConfig{Bucket: "matcher-results"}, logger)
func NewKV(ctx context.Context, js jetstream.JetStream, cfg KVConfig, logger types.Logger) (*KV, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("kv sink: bucket name is required")
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "matcher"
	}
	if cfg.History <= 0 {
		cfg.History = 5
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	kv, err := ensureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "subscription matcher results",
		History:     uint8(min(cfg.History, jetstream.KeyValueMaxHistory)), //nolint:gosec // G115: bounded by KeyValueMaxHistory
		TTL:         cfg.TTL,
	}, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}

	return &KV{kv: kv, cfg: cfg, logger: logger}, nil
}

// Publish stores res under the latest key and its timestamp key.
func (s *KV) Publish(ctx context.Context, res *types.Result) error {
	data, err := Marshal(res)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.OperationTimeout)
	defer cancel()

	for _, key := range []string{s.LatestKey(), s.RunKey(res.Timestamp)} {
		rev, err := s.kv.Put(ctx, key, data)
		if err != nil {
			return fmt.Errorf("failed to put result %s: %w", key, err)
		}
		s.logger.Debug("result published", "bucket", s.cfg.Bucket, "key", key, "revision", rev)
	}

	return nil
}

// LatestKey returns the key always holding the most recent result.
func (s *KV) LatestKey() string {
	return s.cfg.KeyPrefix + "." + LatestKey
}

// RunKey returns the key of the result with timestamp ts.
func (s *KV) RunKey(ts time.Time) string {
	return s.cfg.KeyPrefix + "." + strconv.FormatInt(ts.Unix(), 10)
}

// ensureBucket creates the bucket or opens it when it already exists,
// retrying transient failures with exponential backoff (10ms, 20ms, 40ms...).
func ensureBucket(ctx context.Context, js jetstream.JetStream, config jetstream.KeyValueConfig, maxRetries int) (jetstream.KeyValue, error) {
	var lastErr error

	for attempt := range maxRetries {
		kv, err := js.CreateKeyValue(ctx, config)
		if err == nil {
			return kv, nil
		}

		if errors.Is(err, jetstream.ErrBucketExists) {
			kv, err := js.KeyValue(ctx, config.Bucket)
			if err == nil {
				return kv, nil
			}
			lastErr = fmt.Errorf("bucket exists but failed to open: %w", err)
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("context cancelled during KV bucket creation: %w", ctx.Err())
		}

		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond //nolint:gosec // attempt is bounded by maxRetries
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("failed to create/open KV bucket %s after %d attempts: %w",
		config.Bucket, maxRetries, lastErr)
}
