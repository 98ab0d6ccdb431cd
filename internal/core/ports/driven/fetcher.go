package driven

import "context"

// TextFetcher retrieves a document body by identifier.
// A single call is one attempt; retries belong to the caller.
type TextFetcher interface {
	// Fetch returns the body for identifier.
	// A response outside the success range must be returned as an error,
	// typically *domain.StatusError, never as a value.
	Fetch(ctx context.Context, identifier string) (string, error)
}

// TextFetcherFunc adapts a function to TextFetcher.
type TextFetcherFunc func(ctx context.Context, identifier string) (string, error)

// Fetch calls f.
func (f TextFetcherFunc) Fetch(ctx context.Context, identifier string) (string, error) {
	return f(ctx, identifier)
}
