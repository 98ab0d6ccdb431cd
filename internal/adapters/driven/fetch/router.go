// Package fetch routes source identifiers to the fetcher that can read them.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/quizdeck/internal/connectors/filesystem"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
)

// Ensure Router implements the interface.
var _ driven.TextFetcher = (*Router)(nil)

// Router dispatches Fetch by identifier scheme.
// Local paths and file:// URIs go to the local fetcher, everything else by scheme.
type Router struct {
	local   driven.TextFetcher
	schemes map[string]driven.TextFetcher
}

// NewRouter creates a router with a fetcher for local files.
func NewRouter(local driven.TextFetcher) *Router {
	return &Router{
		local:   local,
		schemes: make(map[string]driven.TextFetcher),
	}
}

// Handle registers fetcher for the given URL schemes.
func (r *Router) Handle(fetcher driven.TextFetcher, schemes ...string) *Router {
	for _, scheme := range schemes {
		r.schemes[strings.ToLower(scheme)] = fetcher
	}
	return r
}

// Fetch delegates to the fetcher registered for identifier.
func (r *Router) Fetch(ctx context.Context, identifier string) (string, error) {
	fetcher, err := r.route(identifier)
	if err != nil {
		return "", err
	}
	return fetcher.Fetch(ctx, identifier)
}

func (r *Router) route(identifier string) (driven.TextFetcher, error) {
	if filesystem.IsLocal(identifier) {
		if r.local == nil {
			return nil, fmt.Errorf("%w: local files are not enabled", domain.ErrUnsupportedScheme)
		}
		return r.local, nil
	}

	u, err := url.Parse(identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	fetcher, ok := r.schemes[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedScheme, u.Scheme)
	}
	return fetcher, nil
}
