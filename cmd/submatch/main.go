// Command submatch runs one subscription matching batch.
//
// It reads a fact file, matches it and writes the JSON result to stdout or
// a file. With a KV bucket configured the result is also published to NATS
// JetStream.
//
// Usage:
//
//	submatch --input facts.yaml --output result.json
//	submatch -i facts.yaml -c matcher.yaml --nats-url nats://localhost:4222 --kv-bucket results
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	matcher "github.com/uyuni-project/subscription-matcher-sub000"
	"github.com/uyuni-project/subscription-matcher-sub000/internal/logging"
	"github.com/uyuni-project/subscription-matcher-sub000/sink"
	"github.com/uyuni-project/subscription-matcher-sub000/source"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	input       string
	config      string
	output      string
	seed        int64
	logLevel    string
	natsURL     string
	kvBucket    string
	metricsFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "submatch",
		Short:         "Match systems to subscriptions",
		Long:          "submatch reads systems, products and subscriptions from a fact file and writes the best matching found.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "fact file (YAML or JSON)")
	flags.StringVarP(&opts.config, "config", "c", "", "matcher configuration file (YAML)")
	flags.StringVarP(&opts.output, "output", "o", "", "result file (default stdout)")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed (overrides the configuration)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&opts.natsURL, "nats-url", nats.DefaultURL, "NATS server used when a KV bucket is configured")
	flags.StringVar(&opts.kvBucket, "kv-bucket", "", "JetStream KV bucket receiving results (overrides the configuration)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file after the run")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts *options) (retErr error) {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger := logging.NewText(cmd.ErrOrStderr(), level)

	cfg := matcher.DefaultConfig()
	if opts.config != "" {
		cfg, err = matcher.LoadConfig(opts.config)
		if err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = opts.seed
	}
	if opts.kvBucket != "" {
		cfg.Results.Bucket = opts.kvBucket
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := createOutput(opts.output)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				retErr = errors.Join(retErr, fmt.Errorf("failed to write output file %s: %w", opts.output, err))
			}
		}()
		out = f
	}
	sinks := sink.Fanout{sink.NewWriter(out)}

	if cfg.Results.Bucket != "" {
		nc, err := nats.Connect(opts.natsURL, nats.Name("submatch"))
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer nc.Close()

		js, err := jetstream.New(nc)
		if err != nil {
			return fmt.Errorf("failed to get JetStream: %w", err)
		}

		kv, err := sink.NewKV(ctx, js, sink.KVConfig{
			Bucket:           cfg.Results.Bucket,
			KeyPrefix:        cfg.Results.KeyPrefix,
			History:          cfg.Results.History,
			TTL:              cfg.Results.TTL,
			OperationTimeout: cfg.Results.OperationTimeout,
		}, logger)
		if err != nil {
			return err
		}
		sinks = append(sinks, kv)
	}

	reg := prometheus.NewRegistry()
	m, err := matcher.NewMatcher(&cfg, source.NewFile(opts.input),
		matcher.WithLogger(logger),
		matcher.WithMetrics(matcher.NewPrometheusMetrics(reg, "")),
		matcher.WithSink(sinks),
	)
	if err != nil {
		return err
	}

	_, runErr := m.Run(ctx)

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			logger.Error("failed to write metrics", "path", opts.metricsFile, "error", err)
		}
	}

	return runErr
}

// outputFile buffers the result written to --output. Close reports flush
// and close failures.
type outputFile struct {
	*bufio.Writer
	f *os.File
}

func createOutput(path string) (*outputFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &outputFile{Writer: bufio.NewWriter(f), f: f}, nil
}

func (o *outputFile) Close() error {
	return errors.Join(o.Flush(), o.f.Close())
}
