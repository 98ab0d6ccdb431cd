package driving

import (
	"context"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
)

// CacheStatus describes the cached copy of a source.
type CacheStatus struct {
	// Identifier is the source identifier.
	Identifier string

	// Key is the derived storage key.
	Key string

	// Present is true if an entry is stored.
	Present bool

	// Entry is the stored entry when Present.
	Entry *domain.CacheEntry

	// Expired is true when the entry has outlived the TTL.
	Expired bool
}

// CacheService inspects and clears cached documents.
type CacheService interface {
	// Status reports on the cached copy of identifier without modifying it.
	Status(ctx context.Context, identifier string) (*CacheStatus, error)

	// Clear removes the cached copy of identifier.
	Clear(ctx context.Context, identifier string) error
}
