package driven

import "context"

// KeyValueStore is a persistent string store with get/set semantics.
// Implementations need not guard against concurrent writers from other processes.
type KeyValueStore interface {
	// Get returns the value for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any existing value.
	// Returns domain.ErrQuotaExceeded if the store is full.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
