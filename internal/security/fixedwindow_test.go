package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lexportal_backend/internal/cache"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestFixedWindowLimiter_DeniesOverBudget(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	mem := cache.NewMemoryCacheWithClock(clock.Now)
	limiter := NewFixedWindowLimiter(mem, "test", 60*time.Second, 20).WithClock(clock.Now)

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		assert.True(t, limiter.Allow(ctx, "10.0.0.1", "/login"), "request %d should pass", i+1)
	}

	assert.False(t, limiter.Allow(ctx, "10.0.0.1", "/login"), "21st request must be denied")
	assert.False(t, limiter.Allow(ctx, "10.0.0.1", "/login"), "denial holds for the rest of the window")
}

func TestFixedWindowLimiter_ResetsAfterWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	mem := cache.NewMemoryCacheWithClock(clock.Now)
	limiter := NewFixedWindowLimiter(mem, "test", 60*time.Second, 20).WithClock(clock.Now)

	ctx := context.Background()
	for i := 0; i < 21; i++ {
		limiter.Allow(ctx, "10.0.0.1", "/login")
	}
	assert.False(t, limiter.Allow(ctx, "10.0.0.1", "/login"))

	clock.Advance(61 * time.Second)
	assert.True(t, limiter.Allow(ctx, "10.0.0.1", "/login"), "budget resets in the next window")
}

func TestFixedWindowLimiter_KeysAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	mem := cache.NewMemoryCacheWithClock(clock.Now)
	limiter := NewFixedWindowLimiter(mem, "test", 60*time.Second, 1).WithClock(clock.Now)

	ctx := context.Background()
	assert.True(t, limiter.Allow(ctx, "10.0.0.1", "/login"))
	assert.False(t, limiter.Allow(ctx, "10.0.0.1", "/login"))

	// different IP, same path
	assert.True(t, limiter.Allow(ctx, "10.0.0.2", "/login"))
	// same IP, different path
	assert.True(t, limiter.Allow(ctx, "10.0.0.1", "/cases"))
}

func TestFixedWindowLimiter_FailsOpenOnCacheErrors(t *testing.T) {
	limiter := NewFixedWindowLimiter(&failingCache{}, "test", 60*time.Second, 1)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(ctx, "10.0.0.1", "/login"))
	}
}

type failingCache struct{}

func (c *failingCache) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, assert.AnError
}

func (c *failingCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return assert.AnError
}

func (c *failingCache) Delete(ctx context.Context, key string) error {
	return assert.AnError
}
