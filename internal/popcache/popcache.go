package popcache

import (
	"context"
	"sync"
	"time"

	"marketdash/internal/market"
)

// FetchFunc fetches a fresh rank-ordered list of up to n items.
type FetchFunc[T any] func(ctx context.Context, n int) ([]T, error)

// List caches one rank-ordered list with a TTL. The whole entry is replaced
// on every successful fetch and never partially merged. A hit requires the
// entry to be both fresh and at least n items long: truncating a cached list
// is safe, extending it is not.
//
// The mutex is held across the whole check -> fetch -> overwrite sequence so
// two concurrent expiries cannot both fetch and clobber each other's result.
// Write frequency is one fetch per TTL, so the coarse lock is cheap.
type List[T any] struct {
	ttl      time.Duration
	fallback []T
	now      func() time.Time

	mu        sync.Mutex
	data      []T
	fetchedAt time.Time
}

// Option configures a List.
type Option[T any] func(*List[T])

// WithFallback installs a static list served (and cached) when a fetch fails
// and no prior entry exists.
func WithFallback[T any](items []T) Option[T] {
	return func(l *List[T]) { l.fallback = items }
}

// WithClock replaces the time source, for tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(l *List[T]) { l.now = now }
}

// New creates an empty cache with the given TTL.
func New[T any](ttl time.Duration, opts ...Option[T]) *List[T] {
	l := &List[T]{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// GetOrFetch returns the first n cached items if the entry is fresh and long
// enough, refreshing from fetch otherwise. On fetch failure it falls back to
// the static list when configured, then to a stale entry of any age, and only
// then reports the failure.
func (l *List[T]) GetOrFetch(ctx context.Context, n int, fetch FetchFunc[T]) ([]T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.data) >= n && now.Sub(l.fetchedAt) < l.ttl {
		return prefix(l.data, n), nil
	}

	fresh, err := fetch(ctx, n)
	if err == nil && len(fresh) > 0 {
		l.data = fresh
		l.fetchedAt = now
		return prefix(l.data, n), nil
	}
	if err == nil {
		// A successful call with zero items means the upstream changed shape;
		// treat it like a transport failure so fallbacks apply.
		err = market.ErrUnavailable
	}

	if len(l.fallback) > 0 {
		// Install the static list so requests within the TTL reuse it without
		// hitting the broken upstream again.
		l.data = prefix(l.fallback, len(l.fallback))
		l.fetchedAt = now
		return prefix(l.data, n), nil
	}
	if len(l.data) > 0 {
		// Stale entry, any age.
		return prefix(l.data, n), nil
	}
	return nil, err
}

// Reset clears the cached entry.
func (l *List[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.data = nil
	l.fetchedAt = time.Time{}
}

// prefix copies the first n items so callers can never mutate the cached
// backing array.
func prefix[T any](data []T, n int) []T {
	if n > len(data) {
		n = len(data)
	}
	out := make([]T, n)
	copy(out, data[:n])
	return out
}
