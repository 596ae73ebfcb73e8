package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyTemplates(t *testing.T) {
	assert.Equal(t, "run1.fetch.res", RunKey("run1", "fetch"))
	assert.Equal(t, "fetch-requests", RouterKey("fetch", "requests", ""))
	assert.Equal(t, "fetch-requests", RouterKey("fetch", "requests", "main"))
	assert.Equal(t, "fetch-requests_alt", RouterKey("fetch", "requests", "alt"))
}

func testCacheRoundTrip(t *testing.T, c interface {
	Get(context.Context, string) ([]byte, bool, error)
	Put(context.Context, string, []byte) error
}) {
	ctx := context.Background()
	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "k", []byte("v")))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	testCacheRoundTrip(t, NewMemory())
}

func TestFileCacheRoundTrip(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	testCacheRoundTrip(t, f)
}

func TestLRUCacheRoundTrip(t *testing.T) {
	l, err := NewLRU(8)
	require.NoError(t, err)
	testCacheRoundTrip(t, l)
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	l, err := NewLRU(2)
	require.NoError(t, err)

	require.NoError(t, l.Put(ctx, "a", []byte("1")))
	require.NoError(t, l.Put(ctx, "b", []byte("2")))
	require.NoError(t, l.Put(ctx, "c", []byte("3")))

	_, ok, err := l.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "oldest entry should have been evicted")

	_, ok, err = l.Get(ctx, "c")
	require.NoError(t, err)
	assert.True(t, ok)
}
