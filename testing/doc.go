// Package testing provides test utilities for the subscription matcher.
//
// This package offers helpers for setting up test environments, particularly
// an embedded NATS server for testing the KV result sink. It follows Go's
// convention of providing testing utilities in a dedicated package (similar
// to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - NewTestLogger: Logger writing to the test log
//
// Example usage:
//
//	import (
//	    "testing"
//	    matchertest "github.com/uyuni-project/subscription-matcher-sub000/testing"
//	)
//
//	func TestMySink(t *testing.T) {
//	    _, nc := matchertest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
