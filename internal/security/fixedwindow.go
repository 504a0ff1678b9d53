package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lexportal_backend/internal/cache"
)

// cacheKey hashes the key parts so raw IPs and usernames never become
// cache keys directly.
func cacheKey(prefix string, parts ...string) string {
	raw := prefix + ":" + strings.Join(parts, "|")
	sum := sha256.Sum256([]byte(raw))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// FixedWindowLimiter counts hits per key in fixed windows backed by the
// shared cache. The read-modify-write is not transactional; under-counting
// during concurrent bursts is acceptable for coarse abuse deterrence.
type FixedWindowLimiter struct {
	cache  cache.Cache
	prefix string
	window time.Duration
	max    int
	now    func() time.Time
}

func NewFixedWindowLimiter(c cache.Cache, prefix string, window time.Duration, max int) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		cache:  c,
		prefix: prefix,
		window: window,
		max:    max,
		now:    time.Now,
	}
}

// WithClock overrides the limiter's clock. Test hook.
func (l *FixedWindowLimiter) WithClock(now func() time.Time) *FixedWindowLimiter {
	l.now = now
	return l
}

// Allow records one hit for the key parts and reports whether the caller is
// still within the window budget. Cache failures fail open.
func (l *FixedWindowLimiter) Allow(ctx context.Context, parts ...string) bool {
	key := cacheKey(l.prefix, parts...)
	now := l.now().Unix()

	windowStart := now
	count := 0

	raw, ok, err := l.cache.Get(ctx, key)
	if err == nil && ok {
		if ts, n, perr := parseBucket(raw); perr == nil {
			// reset when the window has elapsed
			if now-ts <= int64(l.window.Seconds()) {
				windowStart = ts
				count = n
			}
		}
	}

	count++
	value := fmt.Sprintf("%d:%d", windowStart, count)
	// keep the entry slightly past the window so a late read still sees it
	if err := l.cache.Set(ctx, key, value, l.window+5*time.Second); err != nil {
		return true
	}

	return count <= l.max
}

func parseBucket(raw string) (int64, int, error) {
	sep := strings.IndexByte(raw, ':')
	if sep < 0 {
		return 0, 0, fmt.Errorf("malformed bucket %q", raw)
	}
	ts, err := strconv.ParseInt(raw[:sep], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	count, err := strconv.Atoi(raw[sep+1:])
	if err != nil {
		return 0, 0, err
	}
	return ts, count, nil
}
