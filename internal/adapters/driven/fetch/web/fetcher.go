// Package web provides a TextFetcher that downloads documents over HTTP.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quizdeck/internal/connectors/sheets"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
	"github.com/custodia-labs/quizdeck/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.TextFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "quizdeck"
	DefaultMaxBytes  = 16 << 20
)

// RequestIDHeader carries a fresh id on every attempt.
const RequestIDHeader = "X-Request-ID"

// Config holds configuration for the HTTP fetcher.
type Config struct {
	// Timeout bounds a single request (default: 30s).
	Timeout time.Duration

	// UserAgent is sent with every request (default: quizdeck).
	UserAgent string

	// MaxBytes caps the response body size (default: 16 MiB).
	MaxBytes int64

	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
}

// Fetcher retrieves documents with a single GET per call.
// Retries belong to the caller.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	log       logger.Component
}

// NewFetcher creates a new HTTP fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Fetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		log:       logger.For("http"),
	}
}

// Fetch downloads identifier. Google Sheets links are rewritten to their
// CSV export first. Any status outside 2xx/3xx is a *domain.StatusError.
func (f *Fetcher) Fetch(ctx context.Context, identifier string) (string, error) {
	target := sheets.ResolveExportURL(identifier)
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv, text/tab-separated-values, text/plain;q=0.9, */*;q=0.1")
	req.Header.Set(RequestIDHeader, requestID)

	f.log.Debug("GET %s (request %s)", target, requestID)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", &domain.StatusError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("%w: response from %s exceeds %d bytes", domain.ErrInvalidInput, target, f.maxBytes)
	}

	return string(body), nil
}
