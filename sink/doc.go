// Package sink provides built-in result sink implementations.
//
// Result sinks receive the result of every successful run.
// The package includes:
//
//   - Writer: Indented JSON to an io.Writer
//   - KV: NATS JetStream KeyValue bucket
//   - Fanout: Publishes to several sinks in order
//
// Custom sinks can be implemented by satisfying the types.ResultSink interface.
package sink
