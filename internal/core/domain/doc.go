// Package domain defines the core business entities for quizdeck.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Delimited text fetched from a source or the cache
//   - Record: One parsed row keyed by lower-cased column header
//   - RecordSet: The ordered records produced by one parse
//   - CacheEntry: The persisted form of a cached RawDocument
//   - LoadState: The observable state of a data source subscription
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
