// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TextFetcher: Retrieves a document body by identifier (HTTP, file)
//   - KeyValueStore: Persistent string store backing the document cache
//   - RecordParser: Turns delimited text into records
//   - SourceParser: Optional; picks a RecordParser per source identifier
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or parser package
package driven
