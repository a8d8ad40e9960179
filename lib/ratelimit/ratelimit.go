// Package ratelimit paces outbound requests with a minimum interval
// between admissions. One limiter is shared by every caller of a backend
// instance.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// New builds a limiter admitting perSecond requests per second. A rate of
// zero or less disables pacing entirely, which is almost never what you
// want against a live upstream, so it logs a warning.
func New(perSecond float64) *Limiter {
	if perSecond <= 0 {
		slog.Warn("rate limiting disabled", "requests_per_second", perSecond)
		return &Limiter{}
	}
	return &Limiter{
		interval: time.Duration(float64(time.Second) / perSecond),
	}
}

// Wait blocks until the limiter admits the caller or ctx is done. The slot
// is reserved under the lock and slept out after releasing it, so no lock
// is held across the suspension point.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	slot := l.next
	if slot.Before(now) {
		slot = now
	}
	l.next = slot.Add(l.interval)
	l.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
