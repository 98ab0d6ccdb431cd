// Package local provides a TextFetcher that reads documents from disk.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/custodia-labs/quizdeck/internal/connectors/filesystem"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.TextFetcher = (*Fetcher)(nil)

// Fetcher reads file:// identifiers and bare paths.
type Fetcher struct{}

// NewFetcher creates a new file fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// Fetch reads the whole file named by identifier.
func (f *Fetcher) Fetch(ctx context.Context, identifier string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filesystem.ResolvePath(identifier)
	if path == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
