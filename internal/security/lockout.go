package security

import (
	"context"
	"strconv"
	"time"

	"lexportal_backend/internal/cache"
)

const lockoutPrefix = "login_lock"

// LoginLockout counts consecutive failed logins per (IP, username). Once
// the counter reaches MaxFails, login attempts for that pair are denied
// without checking credentials until the window expires. A successful
// login clears the counter immediately.
type LoginLockout struct {
	cache    cache.Cache
	window   time.Duration
	maxFails int
}

func NewLoginLockout(c cache.Cache, window time.Duration, maxFails int) *LoginLockout {
	return &LoginLockout{
		cache:    c,
		window:   window,
		maxFails: maxFails,
	}
}

// IsLocked reports whether the pair has reached the failure threshold.
// Cache failures fail open.
func (l *LoginLockout) IsLocked(ctx context.Context, ip, username string) bool {
	key := cacheKey(lockoutPrefix, ip, username)

	raw, ok, err := l.cache.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	fails, err := strconv.Atoi(raw)
	if err != nil {
		return false
	}
	return fails >= l.maxFails
}

// RegisterFail increments the failure counter and refreshes its TTL.
func (l *LoginLockout) RegisterFail(ctx context.Context, ip, username string) {
	key := cacheKey(lockoutPrefix, ip, username)

	fails := 0
	if raw, ok, err := l.cache.Get(ctx, key); err == nil && ok {
		if n, perr := strconv.Atoi(raw); perr == nil {
			fails = n
		}
	}
	fails++

	_ = l.cache.Set(ctx, key, strconv.Itoa(fails), l.window)
}

// Clear removes the failure counter after a successful login.
func (l *LoginLockout) Clear(ctx context.Context, ip, username string) {
	_ = l.cache.Delete(ctx, cacheKey(lockoutPrefix, ip, username))
}
