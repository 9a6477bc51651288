package gate

import (
	"context"
	"sync"
	"time"
)

// CachedResolver wraps a ProfileResolver with TTL-based caching so role
// lookups don't hit the database on every authorization check.
type CachedResolver struct {
	inner ProfileResolver
	cache map[uint]*cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
}

type cacheEntry struct {
	profile   Profile
	expiresAt time.Time
}

// NewCachedResolver wraps inner with caching for ttl per entry.
func NewCachedResolver(inner ProfileResolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{inner: inner, cache: make(map[uint]*cacheEntry), ttl: ttl}
}

// Resolve returns the user's profile, from cache when fresh.
func (r *CachedResolver) Resolve(ctx context.Context, userID uint) (Profile, error) {
	r.mu.RLock()
	entry, ok := r.cache[userID]
	r.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.profile, nil
	}

	profile, err := r.inner.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[userID] = &cacheEntry{profile: profile, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()
	return profile, nil
}

// Invalidate removes a user from the cache. Call when a user's role changes.
func (r *CachedResolver) Invalidate(userID uint) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (r *CachedResolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[uint]*cacheEntry)
	r.mu.Unlock()
}
