// Package tui provides an interactive terminal deck for quizdeck.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/quizdeck/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Questions loads and observes the question deck.
	Questions driving.DataSource

	// Settings provides the configured source and filters.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(questions driving.DataSource, settings driving.SettingsService) *Ports {
	return &Ports{
		Questions: questions,
		Settings:  settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Questions == nil {
		return ErrMissingDataSource
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
