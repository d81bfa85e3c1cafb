// Package source provides built-in fact source implementations.
//
// Fact sources supply the facts of one run to a Matcher.
// The package includes:
//
//   - Static: A fixed fact set held in memory
//   - File: A YAML or JSON fact file read on every load
//
// Custom sources can be implemented by satisfying the types.FactSource interface.
package source
