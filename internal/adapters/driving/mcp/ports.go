package mcp

import (
	"github.com/custodia-labs/quizdeck/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Questions loads and filters records.
	Questions driving.DataSource

	// Settings supplies default source and filters. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Questions == nil {
		return ErrMissingDataSource
	}
	return nil
}
