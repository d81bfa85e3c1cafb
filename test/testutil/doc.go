// Package testutil provides shared test utilities and fixtures for matcher tests.
//
// This package contains input generators and invariant assertions used
// across the internal packages and the root package tests:
//   - RandomInput: seeded random fact sets for property tests
//   - Fixture inputs: small hand-built fact sets with known answers
//   - Assert*: invariant checks over a decision vector
//
// Note: For NATS server setup, use the testing package of this module.
// testutil must not import internal/score or internal/search so that their
// in-package tests can use it.
package testutil
