package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driving"
	"github.com/custodia-labs/quizdeck/internal/logger"
)

// Ensure DocumentCache implements the interface.
var _ driving.CacheService = (*DocumentCache)(nil)

const (
	cacheKeyPrefix = "quizdeck:"

	// cacheKeyLength bounds the encoded part of a key. Identifiers whose
	// encodings share this prefix share an entry.
	cacheKeyLength = 48
)

// CacheKey derives the storage key for a source identifier.
func CacheKey(identifier string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(identifier))
	if len(encoded) > cacheKeyLength {
		encoded = encoded[:cacheKeyLength]
	}
	return cacheKeyPrefix + encoded
}

// DocumentCache stores raw documents in a key-value store with a TTL.
// It assumes a single writer per process.
type DocumentCache struct {
	store driven.KeyValueStore
	ttl   time.Duration
	now   func() time.Time
	log   logger.Component
}

// CacheOption configures a DocumentCache.
type CacheOption func(*DocumentCache)

// WithTTL overrides the default one hour TTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *DocumentCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the time source used for capture and expiry.
func WithClock(now func() time.Time) CacheOption {
	return func(c *DocumentCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewDocumentCache creates a cache over store.
func NewDocumentCache(store driven.KeyValueStore, opts ...CacheOption) *DocumentCache {
	c := &DocumentCache{
		store: store,
		ttl:   domain.DefaultCacheTTL,
		now:   time.Now,
		log:   logger.For("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *DocumentCache) TTL() time.Duration {
	return c.ttl
}

// Lookup returns the cached document for identifier.
// Errors are domain.ErrCacheMiss, domain.ErrCorruptEntry or
// domain.ErrCacheExpired; an expired entry is deleted before returning.
func (c *DocumentCache) Lookup(ctx context.Context, identifier string) (*domain.RawDocument, error) {
	key := CacheKey(identifier)
	entry, err := c.load(ctx, key)
	if err != nil {
		return nil, err
	}

	if entry.Expired(c.now(), c.ttl) {
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Warn("Delete expired entry %s: %v", key, err)
		}
		return nil, domain.ErrCacheExpired
	}

	return &domain.RawDocument{Identifier: identifier, Text: entry.Data}, nil
}

// Read returns the cached document for identifier, or false if none is usable.
func (c *DocumentCache) Read(ctx context.Context, identifier string) (*domain.RawDocument, bool) {
	doc, err := c.Lookup(ctx, identifier)
	if err != nil {
		c.log.Debug("%s: %v", identifier, err)
		return nil, false
	}
	return doc, true
}

// Write stores text for identifier, captured now.
func (c *DocumentCache) Write(ctx context.Context, identifier, text string) error {
	data, err := json.Marshal(domain.NewCacheEntry(text, c.now()))
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.store.Set(ctx, CacheKey(identifier), string(data)); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Invalidate removes the entry for identifier.
func (c *DocumentCache) Invalidate(ctx context.Context, identifier string) error {
	if err := c.store.Delete(ctx, CacheKey(identifier)); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// Status reports on the entry for identifier without modifying it.
func (c *DocumentCache) Status(ctx context.Context, identifier string) (*driving.CacheStatus, error) {
	key := CacheKey(identifier)
	status := &driving.CacheStatus{Identifier: identifier, Key: key}

	entry, err := c.load(ctx, key)
	switch {
	case errors.Is(err, domain.ErrCacheMiss):
		return status, nil
	case err != nil:
		return nil, err
	}

	status.Present = true
	status.Entry = entry
	status.Expired = entry.Expired(c.now(), c.ttl)
	return status, nil
}

// Clear removes the entry for identifier.
func (c *DocumentCache) Clear(ctx context.Context, identifier string) error {
	return c.Invalidate(ctx, identifier)
}

// load reads and decodes the entry under key.
func (c *DocumentCache) load(ctx context.Context, key string) (*domain.CacheEntry, error) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCacheMiss, err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptEntry, err)
	}
	if entry.Timestamp <= 0 {
		return nil, fmt.Errorf("%w: missing timestamp", domain.ErrCorruptEntry)
	}
	return &entry, nil
}
