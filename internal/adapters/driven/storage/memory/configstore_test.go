package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, "", store.Path())
}

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(map[string]any{"source.url": "https://example.com/q.csv"})
	assert.Equal(t, "https://example.com/q.csv", store.GetString("source.url"))
}

func TestConfigStore_SetAndDelete(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key1", "value1"))
	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "value1", val)

	require.NoError(t, store.Delete("key1"))
	_, ok = store.Get("key1")
	assert.False(t, ok)
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store := NewConfigStore(map[string]any{"n": 3})
	assert.Equal(t, "", store.GetString("n"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"int":   3,
		"int64": int64(4),
		"float": float64(5),
		"str":   "6",
	})

	assert.Equal(t, 3, store.GetInt("int"))
	assert.Equal(t, 4, store.GetInt("int64"))
	assert.Equal(t, 5, store.GetInt("float"))
	assert.Equal(t, 0, store.GetInt("str"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.NoError(t, store.Load())
}
