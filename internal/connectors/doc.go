// Package connectors holds source-specific helpers that turn a configured
// source identifier into something a fetcher can read.
//
//   - filesystem: file:// URIs and bare paths
//   - sheets: Google Sheets share links to CSV export URLs
package connectors
