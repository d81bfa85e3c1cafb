// Package matcher matches systems to license subscriptions.
//
// Given the candidate (system, product, subscription) associations produced by
// an upstream deduction stage, the conflicts between them and the capacity of
// every subscription, a Matcher decides which associations to confirm so that
// as many installed products as possible are covered without overrunning any
// subscription and without confirming two conflicting associations.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    matcher "github.com/uyuni-project/subscription-matcher-sub000"
//	    "github.com/uyuni-project/subscription-matcher-sub000/source"
//	)
//
//	cfg := matcher.DefaultConfig()
//	m, err := matcher.NewMatcher(&cfg, source.NewFile("facts.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := m.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, c := range result.Confirmed {
//	    fmt.Println(c.SystemID, c.ProductID, c.SubscriptionID, c.Cents)
//	}
//
// # Architecture
//
// Every run progresses through a state machine:
//
//	IDLE → CONSTRUCTING → SEARCHING → DONE
//
// Construction decides every association once, greedily and deterministically.
// The search then repeatedly applies the best non-tabu flip or swap move until
// it stops improving, and the best vector ever seen is assembled into a Result.
// A run with no associations goes from CONSTRUCTING straight to DONE.
//
// # Determinism
//
// One seeded random source threads through the whole run and every ordering is
// canonical, so identical input and seed produce identical confirmed sets and
// messages.
//
// # Advanced Usage
//
// Publishing to NATS JetStream KV with Prometheus metrics:
//
//	js, _ := jetstream.New(nc)
//	kv, err := sink.NewKV(ctx, js, sink.KVConfig{Bucket: "matcher-results"}, logger)
//
//	m, err := matcher.NewMatcher(&cfg, src,
//	    matcher.WithLogger(logger),
//	    matcher.WithMetrics(matcher.NewPrometheusMetrics(nil, "")),
//	    matcher.WithSink(kv),
//	)
package matcher
