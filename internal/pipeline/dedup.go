package pipeline

import (
	"sync"
	"time"

	"signal-pipeline/internal/domain"
)

// Dedup cache defaults, matching the sweep cadence of the worker pool.
const (
	DefaultDedupTTL      = 10 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

type dedupEntry struct {
	ready     chan struct{}     // closed once extraction finished
	detection *domain.Detection // nil when the message had no signal
	persisted bool
	firstSeen time.Time
}

// DedupCache remembers extraction outcomes per (channel_id, message_id) so a
// message that arrives through several adapters is extracted and saved once.
// Entries expire after a TTL; a duplicate arriving after expiry is treated
// as new again.
type DedupCache struct {
	mu      sync.Mutex
	entries map[domain.DedupKey]*dedupEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewDedupCache creates a cache with the given TTL. Non-positive TTLs fall
// back to DefaultDedupTTL.
func NewDedupCache(ttl time.Duration) *DedupCache {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &DedupCache{
		entries: make(map[domain.DedupKey]*dedupEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// LookupOrExtract returns the cached outcome for key, running extract and
// caching its result on first sight. The entry is inserted before extraction
// runs and the lock is released while it does, so one key never blocks
// workers on other keys; a duplicate of an in-flight key waits for its
// result instead of extracting again.
//
// Returns the detection (nil when the message carries no signal), whether
// the key was already persisted, and whether this call created the entry.
func (c *DedupCache) LookupOrExtract(key domain.DedupKey, extract func() *domain.Detection) (det *domain.Detection, persisted, isNew bool) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		<-e.ready
		c.mu.Lock()
		persisted = e.persisted
		c.mu.Unlock()
		return e.detection, persisted, false
	}

	e := &dedupEntry{ready: make(chan struct{}), firstSeen: c.now()}
	c.entries[key] = e
	c.mu.Unlock()

	e.detection = extract()
	close(e.ready)
	return e.detection, false, true
}

// MarkPersisted records that the signal for key was saved. Idempotent; a
// no-op when the entry has already been swept.
func (c *DedupCache) MarkPersisted(key domain.DedupKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.persisted = true
	}
}

// Sweep removes entries older than the TTL and returns how many were removed.
func (c *DedupCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for key, e := range c.entries {
		select {
		case <-e.ready:
		default:
			continue // extraction still in flight
		}
		if e.firstSeen.Before(cutoff) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the current number of cached entries.
func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
