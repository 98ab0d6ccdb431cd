package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quizdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// failingKVStore fails every operation with err.
type failingKVStore struct {
	err error
}

func (s *failingKVStore) Get(context.Context, string) (string, error) { return "", s.err }
func (s *failingKVStore) Set(context.Context, string, string) error  { return s.err }
func (s *failingKVStore) Delete(context.Context, string) error       { return s.err }

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, CacheKey("https://example.com/a.csv"), CacheKey("https://example.com/a.csv"))
	})

	t.Run("distinct short identifiers", func(t *testing.T) {
		assert.NotEqual(t, CacheKey("https://a.example/x"), CacheKey("https://b.example/x"))
	})

	t.Run("bounded length", func(t *testing.T) {
		key := CacheKey("https://docs.google.com/spreadsheets/d/" + strings.Repeat("x", 200) + "/export?format=csv")
		assert.Equal(t, len(cacheKeyPrefix)+cacheKeyLength, len(key))
		assert.True(t, strings.HasPrefix(key, cacheKeyPrefix))
	})

	t.Run("shared long prefix collides", func(t *testing.T) {
		base := "https://docs.google.com/spreadsheets/d/abcdefghijklmnop"
		assert.Equal(t, CacheKey(base+"/one"), CacheKey(base+"/two"))
	})

	t.Run("key space safe", func(t *testing.T) {
		key := CacheKey("https://example.com/?a=1&b=2#frag")
		assert.NotContains(t, key, "/")
		assert.NotContains(t, key, "+")
		assert.NotContains(t, key, "=")
	})
}

func TestDocumentCache_WriteThenRead(t *testing.T) {
	store := memory.NewKVStore()
	cache := NewDocumentCache(store)
	ctx := context.Background()

	require.NoError(t, cache.Write(ctx, "https://example.com/q.csv", "a,b\n1,2"))

	doc, ok := cache.Read(ctx, "https://example.com/q.csv")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/q.csv", doc.Identifier)
	assert.Equal(t, "a,b\n1,2", doc.Text)
}

func TestDocumentCache_StoredShape(t *testing.T) {
	store := memory.NewKVStore()
	clock := newFakeClock()
	cache := NewDocumentCache(store, WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, cache.Write(ctx, "id", "text"))

	raw, err := store.Get(ctx, CacheKey("id"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"text","timestamp":1700000000000}`, raw)
}

func TestDocumentCache_Miss(t *testing.T) {
	cache := NewDocumentCache(memory.NewKVStore())

	_, err := cache.Lookup(context.Background(), "never-written")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	_, ok := cache.Read(context.Background(), "never-written")
	assert.False(t, ok)
}

func TestDocumentCache_TTLBoundary(t *testing.T) {
	store := memory.NewKVStore()
	clock := newFakeClock()
	cache := NewDocumentCache(store, WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, cache.Write(ctx, "id", "text"))

	clock.Advance(3_599_999 * time.Millisecond)
	_, ok := cache.Read(ctx, "id")
	assert.True(t, ok, "entry should be fresh one millisecond before the TTL")

	clock.Advance(time.Millisecond)
	_, err := cache.Lookup(ctx, "id")
	assert.ErrorIs(t, err, domain.ErrCacheExpired)

	// The expired entry was deleted as a side effect.
	_, err = store.Get(ctx, CacheKey("id"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = cache.Lookup(ctx, "id")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestDocumentCache_CustomTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewDocumentCache(memory.NewKVStore(), WithClock(clock.Now), WithTTL(time.Minute))
	ctx := context.Background()
	assert.Equal(t, time.Minute, cache.TTL())

	require.NoError(t, cache.Write(ctx, "id", "text"))
	clock.Advance(time.Minute)

	_, ok := cache.Read(ctx, "id")
	assert.False(t, ok)
}

func TestDocumentCache_CorruptEntries(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"wrong shape", `["data"]`},
		{"missing timestamp", `{"data":"a,b\n1,2"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewKVStore()
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, CacheKey("id"), tt.raw))
			cache := NewDocumentCache(store)

			_, err := cache.Lookup(ctx, "id")
			assert.ErrorIs(t, err, domain.ErrCorruptEntry)

			_, ok := cache.Read(ctx, "id")
			assert.False(t, ok)
		})
	}
}

func TestDocumentCache_StoreFailures(t *testing.T) {
	storeErr := errors.New("disk on fire")
	cache := NewDocumentCache(&failingKVStore{err: storeErr})
	ctx := context.Background()

	_, err := cache.Lookup(ctx, "id")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.ErrorIs(t, err, storeErr)

	err = cache.Write(ctx, "id", "text")
	assert.ErrorIs(t, err, storeErr)

	err = cache.Invalidate(ctx, "id")
	assert.ErrorIs(t, err, storeErr)
}

func TestDocumentCache_QuotaExceeded(t *testing.T) {
	cache := NewDocumentCache(memory.NewKVStoreWithQuota(16))

	err := cache.Write(context.Background(), "id", strings.Repeat("x", 100))
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestDocumentCache_Status(t *testing.T) {
	clock := newFakeClock()
	store := memory.NewKVStore()
	cache := NewDocumentCache(store, WithClock(clock.Now))
	ctx := context.Background()

	status, err := cache.Status(ctx, "id")
	require.NoError(t, err)
	assert.False(t, status.Present)
	assert.Equal(t, CacheKey("id"), status.Key)

	require.NoError(t, cache.Write(ctx, "id", "text"))
	clock.Advance(2 * time.Hour)

	status, err = cache.Status(ctx, "id")
	require.NoError(t, err)
	assert.True(t, status.Present)
	assert.True(t, status.Expired)
	require.NotNil(t, status.Entry)
	assert.Equal(t, "text", status.Entry.Data)

	// Status does not delete expired entries.
	_, err = store.Get(ctx, CacheKey("id"))
	assert.NoError(t, err)

	require.NoError(t, cache.Clear(ctx, "id"))
	status, err = cache.Status(ctx, "id")
	require.NoError(t, err)
	assert.False(t, status.Present)
}

func TestDocumentCache_StatusCorrupt(t *testing.T) {
	store := memory.NewKVStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, CacheKey("id"), "garbage"))

	_, err := NewDocumentCache(store).Status(ctx, "id")
	assert.ErrorIs(t, err, domain.ErrCorruptEntry)
}
