// Package types provides core type definitions and interfaces for the subscription matcher.
//
// This package contains shared types that are used across multiple packages in the
// matcher module. By keeping these types in a separate package, we avoid import cycles
// between the root matcher package and its internal implementations.
//
// Key types:
//   - Association: Candidate (system, product, subscription) decision variable
//   - Vector: Decision vector mutated only through Apply and Revert
//   - Move: Atomic, cascade-complete set of value changes
//   - Score: Lexicographic (feasibility, quality) pair
//   - Input / Result: Fact contract consumed and output produced by a run
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
