package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	value, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	_, ok, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewMemoryCacheWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok, "still fresh")

	now = now.Add(61 * time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok, "expired entries are dropped")
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewMemoryCacheWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	now = now.Add(24 * time.Hour)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))

	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok)
}
