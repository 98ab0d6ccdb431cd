package domain

import "time"

// DefaultCacheTTL is how long a cached document stays fresh.
const DefaultCacheTTL = time.Hour

// CacheEntry is the persisted form of a cached document.
// It is stored as JSON under a key derived from the source identifier.
type CacheEntry struct {
	// Data is the raw document text.
	Data string `json:"data"`

	// Timestamp is the capture time in milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`
}

// NewCacheEntry captures text at the given time.
func NewCacheEntry(text string, now time.Time) CacheEntry {
	return CacheEntry{Data: text, Timestamp: now.UnixMilli()}
}

// CapturedAt returns the capture time.
func (e CacheEntry) CapturedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Age returns how long ago the entry was captured, at millisecond resolution.
func (e CacheEntry) Age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-e.Timestamp) * time.Millisecond
}

// Expired reports whether the entry is at least ttl old.
func (e CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	return e.Age(now) >= ttl
}
