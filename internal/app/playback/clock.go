package playback

import (
	"context"
	"sync"
	"time"
)

// Clock drives periodic ticks while playback is running.
// Start and Stop are idempotent. Every Start opens a new generation so that a
// tick already in flight when the clock was stopped can be recognised as stale.
type Clock struct {
	mu       sync.Mutex
	interval time.Duration
	cancel   context.CancelFunc
	gen      uint64
}

// NewClock creates a stopped clock.
func NewClock(interval time.Duration) *Clock {
	return &Clock{interval: interval}
}

// Interval returns the tick interval.
func (k *Clock) Interval() time.Duration {
	return k.interval
}

// Start begins calling fn once per interval with the current generation.
// Returns false if the clock was already running.
func (k *Clock) Start(fn func(gen uint64)) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	k.cancel = cancel
	k.gen++
	gen := k.gen

	go func() {
		ticker := time.NewTicker(k.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(gen)
			}
		}
	}()

	return true
}

// Stop cancels the running ticker without waiting for it.
// Returns false if the clock was not running.
func (k *Clock) Stop() bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cancel == nil {
		return false
	}
	k.cancel()
	k.cancel = nil
	return true
}

// Running reports whether the clock is ticking.
func (k *Clock) Running() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.cancel != nil
}

// Current reports whether gen belongs to the running generation.
func (k *Clock) Current(gen uint64) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.cancel != nil && k.gen == gen
}
