package pipeline

import (
	"sync/atomic"

	"signal-pipeline/internal/domain"
)

// DefaultQueueCapacity bounds the ingestion queue. Arrivals beyond it are
// dropped rather than blocking the source adapters.
const DefaultQueueCapacity = 10000

// Queue is the bounded buffer between source adapters and workers.
type Queue struct {
	ch      chan *domain.RawMessage
	dropped atomic.Uint64
}

// NewQueue creates a queue with the given capacity. Non-positive capacities
// fall back to DefaultQueueCapacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{ch: make(chan *domain.RawMessage, capacity)}
}

// Enqueue offers a message to the queue without blocking. Returns false if
// the queue is full; the message is dropped and counted.
func (q *Queue) Enqueue(msg *domain.RawMessage) bool {
	select {
	case q.ch <- msg:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// C returns the receive side of the queue for worker loops.
func (q *Queue) C() <-chan *domain.RawMessage {
	return q.ch
}

// Len returns the current number of queued messages.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}

// Dropped returns the total number of messages rejected because the queue
// was full.
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
