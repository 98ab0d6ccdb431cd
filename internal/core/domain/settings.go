package domain

// DefaultMaxAttempts is the number of fetch attempts before a load fails.
const DefaultMaxAttempts = 3

// Settings holds user configuration for the question source.
type Settings struct {
	// SourceURL identifies the question sheet.
	SourceURL string

	// Category filters records by game_type. Empty means every record.
	Category string

	// Difficulty filters records for display. Empty means every record.
	Difficulty string

	// MaxAttempts bounds fetch retries.
	MaxAttempts int
}

// DefaultSettings returns settings with defaults applied.
func DefaultSettings() Settings {
	return Settings{
		MaxAttempts: DefaultMaxAttempts,
	}
}
