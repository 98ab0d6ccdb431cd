package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySourceURL   = "source.url"
	keyCategory    = "source.category"
	keyDifficulty  = "source.difficulty"
	keyMaxAttempts = "fetch.max_attempts"
)

// SettingsService manages the question source configuration.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings with defaults applied.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()
	settings.SourceURL = s.configStore.GetString(keySourceURL)
	settings.Category = s.configStore.GetString(keyCategory)
	settings.Difficulty = s.configStore.GetString(keyDifficulty)
	if n := s.configStore.GetInt(keyMaxAttempts); n >= 1 {
		settings.MaxAttempts = n
	}
	return &settings, nil
}

// SetSourceURL validates and stores the source identifier.
func (s *SettingsService) SetSourceURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.clear(keySourceURL)
	}
	if err := ValidateIdentifier(raw); err != nil {
		return err
	}
	if err := s.configStore.Set(keySourceURL, raw); err != nil {
		return fmt.Errorf("save source url: %w", err)
	}
	return nil
}

// SetCategory stores the game_type filter.
func (s *SettingsService) SetCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return s.clear(keyCategory)
	}
	if err := s.configStore.Set(keyCategory, category); err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

// SetDifficulty stores the difficulty filter.
func (s *SettingsService) SetDifficulty(difficulty string) error {
	difficulty = strings.TrimSpace(difficulty)
	if difficulty == "" {
		return s.clear(keyDifficulty)
	}
	if err := s.configStore.Set(keyDifficulty, difficulty); err != nil {
		return fmt.Errorf("save difficulty: %w", err)
	}
	return nil
}

// SetMaxAttempts stores the fetch attempt limit.
func (s *SettingsService) SetMaxAttempts(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: max attempts must be at least 1, got %d", domain.ErrInvalidInput, n)
	}
	if err := s.configStore.Set(keyMaxAttempts, n); err != nil {
		return fmt.Errorf("save max attempts: %w", err)
	}
	return nil
}

// Reload re-reads settings from storage.
func (s *SettingsService) Reload() error {
	if err := s.configStore.Load(); err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	return nil
}

// ConfigPath returns the backing file path.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func (s *SettingsService) clear(key string) error {
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}

// ValidateIdentifier checks that identifier names a source a fetcher can handle:
// an http(s) URL with a host, a file:// URL, or a bare path.
func ValidateIdentifier(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("%w: empty source identifier", domain.ErrInvalidInput)
	}
	u, err := url.Parse(identifier)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("%w: missing host in %s", domain.ErrInvalidInput, identifier)
		}
		return nil
	case "file", "":
		return nil
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedScheme, identifier)
	}
}
