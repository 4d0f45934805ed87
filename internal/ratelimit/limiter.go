// Package ratelimit implements a windowed token bucket.
//
// A bucket holds at most max tokens. Every full window elapsed since the last
// refill adds max tokens in one jump, capped at max. Allow takes one token.
package ratelimit

import (
	"errors"
	"time"
)

// ErrInvalidLimit is returned by New for a non-positive max or window
var ErrInvalidLimit = errors.New("rate limit and window must be positive")

// Limiter is a per-key token bucket limiter
type Limiter struct {
	max    int
	window time.Duration
	store  Store
	now    func() time.Time
}

// Option configures Limiter
type Option func(*Limiter)

// WithStore sets bucket store, MemoryStore is used by default
func WithStore(s Store) Option {
	return func(l *Limiter) {
		l.store = s
	}
}

// WithClock sets time source
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates new Limiter allowing max requests per window for each key
func New(max int, window time.Duration, opts ...Option) (*Limiter, error) {
	if max <= 0 || window <= 0 {
		return nil, ErrInvalidLimit
	}

	l := &Limiter{
		max:    max,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.store == nil {
		l.store = NewMemoryStore()
	}
	return l, nil
}

// Allow consumes one token of key, returns false if the bucket is empty
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	return l.store.Update(key, func(b *Bucket, exists bool) bool {
		if !exists {
			b.Tokens = l.max
			b.LastRefill = now
		}

		if elapsed := now.Sub(b.LastRefill); elapsed >= l.window {
			windows := int(elapsed / l.window)
			b.Tokens = min(l.max, b.Tokens+l.max*windows)
			b.LastRefill = now
		}

		if b.Tokens <= 0 {
			return false
		}
		b.Tokens--

		return true
	})
}

// Sweep drops buckets not refilled for at least one window.
// Such a bucket would be full on its next use, same as a new one.
func (l *Limiter) Sweep() int {
	now := l.now()
	return l.store.Evict(func(b Bucket) bool {
		return now.Sub(b.LastRefill) >= l.window
	})
}

// Window returns refill window
func (l *Limiter) Window() time.Duration {
	return l.window
}
