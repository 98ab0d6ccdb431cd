package driving

import "github.com/custodia-labs/quizdeck/internal/core/domain"

// SettingsService manages the question source configuration.
type SettingsService interface {
	// Get returns the current settings with defaults applied.
	Get() (*domain.Settings, error)

	// SetSourceURL validates and stores the source identifier.
	SetSourceURL(url string) error

	// SetCategory stores the game_type filter. Empty clears it.
	SetCategory(category string) error

	// SetDifficulty stores the difficulty filter. Empty clears it.
	SetDifficulty(difficulty string) error

	// SetMaxAttempts stores the fetch attempt limit.
	SetMaxAttempts(n int) error

	// Reload re-reads settings from storage.
	Reload() error

	// ConfigPath returns the backing file path, if any.
	ConfigPath() string
}
