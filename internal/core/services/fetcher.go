package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
	"github.com/custodia-labs/quizdeck/internal/logger"
)

// Ensure ResilientFetcher implements the interface.
var _ driven.TextFetcher = (*ResilientFetcher)(nil)

// DefaultBaseDelay is the wait before the first retry. Each further retry doubles it.
const DefaultBaseDelay = time.Second

// MaxBackoff caps the wait between two attempts.
const MaxBackoff = 5 * time.Minute

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// ResilientFetcher retries a TextFetcher with exponential backoff.
// Every failure is retried; there is no retryable/non-retryable distinction.
type ResilientFetcher struct {
	fetcher     driven.TextFetcher
	maxAttempts int
	baseDelay   time.Duration
	sleep       Sleeper
	log         logger.Component
}

// FetcherOption configures a ResilientFetcher.
type FetcherOption func(*ResilientFetcher)

// WithMaxAttempts sets the default attempt limit. Values below 1 are ignored.
func WithMaxAttempts(n int) FetcherOption {
	return func(f *ResilientFetcher) {
		if n >= 1 {
			f.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the delay before the first retry.
func WithBaseDelay(d time.Duration) FetcherOption {
	return func(f *ResilientFetcher) {
		if d >= 0 {
			f.baseDelay = d
		}
	}
}

// WithSleeper replaces the backoff wait.
func WithSleeper(s Sleeper) FetcherOption {
	return func(f *ResilientFetcher) {
		if s != nil {
			f.sleep = s
		}
	}
}

// NewResilientFetcher wraps fetcher with retries.
func NewResilientFetcher(fetcher driven.TextFetcher, opts ...FetcherOption) *ResilientFetcher {
	f := &ResilientFetcher{
		fetcher:     fetcher,
		maxAttempts: domain.DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		sleep:       sleepContext,
		log:         logger.For("fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// MaxAttempts returns the default attempt limit.
func (f *ResilientFetcher) MaxAttempts() int {
	return f.maxAttempts
}

// Fetch retrieves identifier using the default attempt limit.
func (f *ResilientFetcher) Fetch(ctx context.Context, identifier string) (string, error) {
	return f.FetchAttempts(ctx, identifier, f.maxAttempts)
}

// FetchAttempts retrieves identifier, trying at most maxAttempts times.
// The wait before attempt k (k >= 1, zero-based) is baseDelay * 2^(k-1),
// capped at MaxBackoff.
// Once every attempt fails it returns a *domain.FetchError wrapping the last failure.
func (f *ResilientFetcher) FetchAttempts(ctx context.Context, identifier string, maxAttempts int) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := f.Backoff(attempt)
			f.log.Debug("Retrying %s in %s (attempt %d/%d)", identifier, delay, attempt+1, maxAttempts)
			if err := f.sleep(ctx, delay); err != nil {
				return "", fmt.Errorf("fetch %s: %w", identifier, err)
			}
		}

		text, err := f.fetcher.Fetch(ctx, identifier)
		if err == nil {
			f.log.Debug("Fetched %s (%d bytes, attempt %d)", identifier, len(text), attempt+1)
			return text, nil
		}
		lastErr = err
		f.log.Debug("Attempt %d/%d for %s failed: %v", attempt+1, maxAttempts, identifier, err)
	}

	return "", &domain.FetchError{Identifier: identifier, Attempts: maxAttempts, Err: lastErr}
}

// Backoff returns the wait before zero-based attempt k.
func (f *ResilientFetcher) Backoff(attempt int) time.Duration {
	if attempt < 1 || f.baseDelay == 0 {
		return 0
	}
	delay := f.baseDelay
	for i := 1; i < attempt; i++ {
		if delay >= MaxBackoff/2 {
			return MaxBackoff
		}
		delay *= 2
	}
	return min(delay, MaxBackoff)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
