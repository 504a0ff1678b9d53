package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lexportal_backend/internal/cache"
)

func TestLoginLockout_LocksAfterMaxFails(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	mem := cache.NewMemoryCacheWithClock(clock.Now)
	lockout := NewLoginLockout(mem, 15*time.Minute, 6)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		lockout.RegisterFail(ctx, "10.0.0.1", "alice")
		assert.False(t, lockout.IsLocked(ctx, "10.0.0.1", "alice"), "not locked after %d fails", i+1)
	}

	lockout.RegisterFail(ctx, "10.0.0.1", "alice")
	assert.True(t, lockout.IsLocked(ctx, "10.0.0.1", "alice"), "locked after 6th fail")
}

func TestLoginLockout_PairIsolation(t *testing.T) {
	mem := cache.NewMemoryCache()
	lockout := NewLoginLockout(mem, 15*time.Minute, 2)

	ctx := context.Background()
	lockout.RegisterFail(ctx, "10.0.0.1", "alice")
	lockout.RegisterFail(ctx, "10.0.0.1", "alice")

	assert.True(t, lockout.IsLocked(ctx, "10.0.0.1", "alice"))
	assert.False(t, lockout.IsLocked(ctx, "10.0.0.2", "alice"), "other IP unaffected")
	assert.False(t, lockout.IsLocked(ctx, "10.0.0.1", "bob"), "other username unaffected")
}

func TestLoginLockout_ClearOnSuccess(t *testing.T) {
	mem := cache.NewMemoryCache()
	lockout := NewLoginLockout(mem, 15*time.Minute, 2)

	ctx := context.Background()
	lockout.RegisterFail(ctx, "10.0.0.1", "alice")
	lockout.RegisterFail(ctx, "10.0.0.1", "alice")
	assert.True(t, lockout.IsLocked(ctx, "10.0.0.1", "alice"))

	lockout.Clear(ctx, "10.0.0.1", "alice")
	assert.False(t, lockout.IsLocked(ctx, "10.0.0.1", "alice"))
}

func TestLoginLockout_ExpiresWithWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	mem := cache.NewMemoryCacheWithClock(clock.Now)
	lockout := NewLoginLockout(mem, 15*time.Minute, 2)

	ctx := context.Background()
	lockout.RegisterFail(ctx, "10.0.0.1", "alice")
	lockout.RegisterFail(ctx, "10.0.0.1", "alice")
	assert.True(t, lockout.IsLocked(ctx, "10.0.0.1", "alice"))

	clock.Advance(16 * time.Minute)
	assert.False(t, lockout.IsLocked(ctx, "10.0.0.1", "alice"), "counter expires with the window")
}

func TestLoginLockout_FailsOpen(t *testing.T) {
	lockout := NewLoginLockout(&failingCache{}, 15*time.Minute, 1)

	ctx := context.Background()
	lockout.RegisterFail(ctx, "10.0.0.1", "alice")
	assert.False(t, lockout.IsLocked(ctx, "10.0.0.1", "alice"))
}
