// Package ratelimit implements per-user sliding-window admission control.
//
// Each user owns an ordered sequence of admitted-request timestamps inside a
// trailing window. Timestamps older than the window are pruned lazily on
// every check, and empty buckets are garbage-collected opportunistically so
// memory stays bounded. Unlike a token bucket, the window counts discrete
// admissions, which lets TimeUntilAllowed report exactly when the oldest
// in-window request will expire.
//
// The limiter is process-local and safe for concurrent use; per-user state is
// independent and check-and-record is atomic under a single mutex.
package ratelimit

import (
	"sync"
	"time"
)

// Default limits: 10 requests per 60-second window.
const (
	DefaultMaxRequests = 10
	DefaultWindow      = 60 * time.Second
)

// gcEvery triggers opportunistic cleanup of empty buckets after this many
// admission checks.
const gcEvery = 5000

// Limiter is a per-user sliding-window rate limiter.
type Limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	buckets map[string][]time.Time
	checks  uint64

	// now is replaceable in tests.
	now func() time.Time
}

// New constructs a Limiter admitting at most max requests per window.
// Non-positive arguments fall back to the defaults.
func New(max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		max:     max,
		window:  window,
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// prune drops timestamps older than the window. Caller holds mu.
func (l *Limiter) prune(user string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	ts := l.buckets[user]
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	if i > 0 {
		ts = append(ts[:0:0], ts[i:]...)
		l.buckets[user] = ts
	}
	return ts
}

// gc evicts buckets with no in-window timestamps. Caller holds mu.
func (l *Limiter) gc(now time.Time) {
	cutoff := now.Add(-l.window)
	for user, ts := range l.buckets {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(l.buckets, user)
		}
	}
}

// Allow reports whether user may proceed. When admitted, the current
// timestamp is recorded; rejections record nothing.
func (l *Limiter) Allow(user string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	l.checks++
	if l.checks >= gcEvery {
		l.gc(now)
		l.checks = 0
	}

	ts := l.prune(user, now)
	if len(ts) >= l.max {
		return false
	}
	l.buckets[user] = append(ts, now)
	return true
}

// TimeUntilAllowed returns how long user must wait before the next request
// would be admitted. Zero means a request would be admitted now.
func (l *Limiter) TimeUntilAllowed(user string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ts := l.prune(user, now)
	if len(ts) < l.max {
		return 0
	}
	wait := l.window - now.Sub(ts[0])
	if wait < 0 {
		return 0
	}
	return wait
}
