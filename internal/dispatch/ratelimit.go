package dispatch

import (
	"sync"
	"time"
)

// DefaultCooldown suppresses repeat notifications for the same
// (subscriber, channel) pair.
const DefaultCooldown = 5 * time.Minute

type rlKey struct {
	subscriberID int64
	channelID    int64
}

// RateLimiter enforces a per-(subscriber, channel) cooldown. The stamp is
// taken when a send is allowed, before delivery runs, so a failed delivery
// still consumes the window.
type RateLimiter struct {
	mu        sync.Mutex
	cooldown  time.Duration
	last      map[rlKey]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a limiter with the given cooldown. Non-positive
// cooldowns fall back to DefaultCooldown.
func NewRateLimiter(cooldown time.Duration) *RateLimiter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &RateLimiter{
		cooldown: cooldown,
		last:     make(map[rlKey]time.Time),
		now:      time.Now,
	}
}

// Limited reports whether the (subscriber, channel) pair is still inside
// the cooldown window. Read-only; checking does not start a window.
func (l *RateLimiter) Limited(subscriberID, channelID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok := l.last[rlKey{subscriberID: subscriberID, channelID: channelID}]
	return ok && l.now().Sub(last) < l.cooldown
}

// Stamp starts the cooldown window for the pair.
func (l *RateLimiter) Stamp(subscriberID, channelID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)
	l.last[rlKey{subscriberID: subscriberID, channelID: channelID}] = now
}

// sweepLocked drops expired stamps so the map does not grow with every
// subscriber/channel pair ever seen. Runs at most once per cooldown, on the
// Stamp path.
func (l *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.cooldown {
		return
	}
	l.lastSweep = now
	for key, last := range l.last {
		if now.Sub(last) >= l.cooldown {
			delete(l.last, key)
		}
	}
}

// Len returns the current number of active cooldown stamps.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}
