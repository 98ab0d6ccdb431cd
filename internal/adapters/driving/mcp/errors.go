// Package mcp provides an MCP (Model Context Protocol) server adapter for quizdeck.
// It lets AI assistants list quiz questions from the configured source.
package mcp

import "errors"

var (
	// ErrMissingDataSource is returned when the data source is not provided.
	ErrMissingDataSource = errors.New("mcp: data source is required")

	// ErrNoSource is returned when neither the call nor the settings name a source.
	ErrNoSource = errors.New("mcp: no question source given or configured")
)
