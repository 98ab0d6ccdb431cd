// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"time"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
)

// StateChanged carries a load state emitted by the data source.
type StateChanged struct {
	State domain.LoadState
}

// CategoryChanged is sent when the user applies a new category filter.
type CategoryChanged struct {
	Category string
}

// RetryThrottled is sent when a retry was refused by the rate limit.
type RetryThrottled struct {
	Wait time.Duration
}

// SettingsLoaded carries the settings the deck starts from.
type SettingsLoaded struct {
	Settings domain.Settings
	Err      error
}
