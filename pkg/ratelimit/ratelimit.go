package ratelimit

import (
	"sync"
	"time"
)

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a process-wide sliding-window-by-reset counter. It deters abuse
// on public submission forms; it is not a billing-grade token bucket.
type Limiter struct {
	mu          sync.Mutex
	entries     map[string]*entry
	cleanupGap  time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

// Option customises limiter construction.
type Option func(*Limiter)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New constructs a limiter. Expired keys are swept lazily, at most once per
// cleanupGap, so individual calls stay cheap.
func New(cleanupGap time.Duration, opts ...Option) *Limiter {
	if cleanupGap <= 0 {
		cleanupGap = 5 * time.Minute
	}
	l := &Limiter{
		entries:    make(map[string]*entry),
		cleanupGap: cleanupGap,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastCleanup = l.now()
	return l
}

// Allow reports whether the caller identified by key may proceed. The first
// request for a key opens a window of the given duration with count 1; calls
// inside the window increment the count and pass while count <= max; a call
// after the window expires restarts it. The update is performed under a single
// lock so concurrent requests for the same key cannot lose increments.
func (l *Limiter) Allow(key string, max int, window time.Duration) bool {
	if max <= 0 || window <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.maybeCleanup(now)

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(window)}
		return true
	}

	e.count++
	return e.count <= max
}

// Len returns the number of tracked keys, expired ones included.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// maybeCleanup drops expired keys. Caller must hold the lock.
func (l *Limiter) maybeCleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < l.cleanupGap {
		return
	}
	for key, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, key)
		}
	}
	l.lastCleanup = now
}
