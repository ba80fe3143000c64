package pipeline

import (
	"sync"
	"sync/atomic"
)

// sourceCounters tracks one source adapter's activity. Increments are atomic
// so the hot path never takes the registry lock.
type sourceCounters struct {
	processed     atomic.Int64
	detections    atomic.Int64
	lastMessageMS atomic.Int64
}

// SourceStats is a point-in-time snapshot of one source's counters. The
// three fields are read independently, so a snapshot taken during
// concurrent processing may be momentarily inconsistent between them.
type SourceStats struct {
	MessagesProcessed int64 `json:"messages_processed"`
	SignalsDetected   int64 `json:"signals_detected"`
	LastMessageAt     int64 `json:"last_message_at"` // Unix ms, 0 when idle
}

// statsRegistry holds per-source counters keyed by source user ID.
type statsRegistry struct {
	mu      sync.Mutex
	sources map[int64]*sourceCounters
}

func newStatsRegistry() *statsRegistry {
	return &statsRegistry{sources: make(map[int64]*sourceCounters)}
}

func (r *statsRegistry) get(sourceUserID int64) *sourceCounters {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.sources[sourceUserID]
	if !ok {
		c = &sourceCounters{}
		r.sources[sourceUserID] = c
	}
	return c
}

func (r *statsRegistry) snapshot() map[int64]SourceStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[int64]SourceStats, len(r.sources))
	for id, c := range r.sources {
		out[id] = SourceStats{
			MessagesProcessed: c.processed.Load(),
			SignalsDetected:   c.detections.Load(),
			LastMessageAt:     c.lastMessageMS.Load(),
		}
	}
	return out
}
