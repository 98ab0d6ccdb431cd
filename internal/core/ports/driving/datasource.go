package driving

import (
	"context"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
)

// DataSource loads records for an (identifier, category) pair and exposes
// the load as an observable state machine.
type DataSource interface {
	// Reload switches the data source to the given inputs.
	// Calling it again with unchanged inputs is a no-op.
	Reload(ctx context.Context, identifier, category string)

	// Retry re-runs the full load for the current inputs.
	Retry(ctx context.Context)

	// State returns the current load state.
	State() domain.LoadState

	// Subscribe registers fn to receive every state change.
	// fn runs synchronously and must not call back into the DataSource.
	// The returned function removes the subscription.
	Subscribe(fn func(domain.LoadState)) (unsubscribe func())

	// Await blocks until the current state is no longer loading.
	Await(ctx context.Context) (domain.LoadState, error)

	// Close discards in-flight loads and waits for them to return.
	Close()
}
