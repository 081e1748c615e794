// Package ratelimit implements a per-user sliding-window post limiter.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow counts successful posts per user within a trailing window.
// All state lives in process memory; nothing survives a restart.
type SlidingWindow struct {
	mu     sync.Mutex
	events map[string][]time.Time

	limit         int
	window        time.Duration
	sweepInterval time.Duration
}

type Option func(*SlidingWindow)

// WithSweepInterval sets how often the janitor drops users whose entire
// window has expired.
func WithSweepInterval(d time.Duration) Option {
	return func(sw *SlidingWindow) { sw.sweepInterval = d }
}

func New(limit int, window time.Duration, opts ...Option) *SlidingWindow {
	sw := &SlidingWindow{
		events:        make(map[string][]time.Time),
		limit:         limit,
		window:        window,
		sweepInterval: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(sw)
	}
	return sw
}

// CheckAndRecord reports whether userID may post at instant now and, if so,
// records the post. The check and the record are one critical section: two
// concurrent callers for the same user cannot both slip under the limit.
// Denied attempts are not recorded. The stored slice is pruned to the window
// on every call.
func (sw *SlidingWindow) CheckAndRecord(userID string, now time.Time) bool {
	cutoff := now.Add(-sw.window)

	sw.mu.Lock()
	defer sw.mu.Unlock()

	var recent []time.Time
	for _, t := range sw.events[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= sw.limit {
		sw.events[userID] = recent
		return false
	}

	sw.events[userID] = append(recent, now)
	return true
}

// Sweep removes users with no post inside the current window. Per-user
// slices are already pruned on access; this reclaims the map entries of
// users who stopped posting entirely.
func (sw *SlidingWindow) Sweep() {
	cutoff := time.Now().Add(-sw.window)

	sw.mu.Lock()
	defer sw.mu.Unlock()

	for userID, ts := range sw.events {
		live := false
		for _, t := range ts {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(sw.events, userID)
		}
	}
}

// StartJanitor sweeps periodically until ctx is cancelled.
func (sw *SlidingWindow) StartJanitor(ctx context.Context) {
	if sw.sweepInterval <= 0 {
		return
	}

	t := time.NewTicker(sw.sweepInterval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				sw.Sweep()
			}
		}
	}()
}
