// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The load pipeline lives here: DocumentCache adds TTL semantics to a
// key-value store, ResilientFetcher retries a TextFetcher with exponential
// backoff, and DataSourceController combines both with a RecordParser into
// a stale-while-revalidate data source.
//
// Services are pure Go with no CGO or external dependencies.
package services
