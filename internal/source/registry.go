package source

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
)

// ErrAlreadyAttached is returned when an adapter for the same source user
// is already running.
var ErrAlreadyAttached = errors.New("source already attached")

// ErrNotAttached is returned when detaching a source that is not running.
var ErrNotAttached = errors.New("source not attached")

type running struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Registry runs attached adapters, one per source user, each under its own
// cancelable context.
type Registry struct {
	mu       sync.Mutex
	sink     Sink
	adapters map[int64]*running
	logger   *log.Logger
	closed   bool
}

// NewRegistry creates a registry feeding sink.
func NewRegistry(sink Sink, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		sink:     sink,
		adapters: make(map[int64]*running),
		logger:   logger,
	}
}

// Attach starts the adapter in its own goroutine. Returns
// ErrAlreadyAttached if the source user already has a running adapter.
func (r *Registry) Attach(adapter Adapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("attach source %d: registry closed", adapter.SourceUserID())
	}

	id := adapter.SourceUserID()
	if _, exists := r.adapters[id]; exists {
		return fmt.Errorf("attach source %d: %w", id, ErrAlreadyAttached)
	}

	ctx, cancel := context.WithCancel(context.Background())
	run := &running{cancel: cancel, done: make(chan struct{})}
	r.adapters[id] = run

	go func() {
		defer close(run.done)
		if err := adapter.Run(ctx, r.sink); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Printf("source: adapter for %d stopped: %v", id, err)
		}
	}()

	r.logger.Printf("source: attached adapter for %d", id)
	return nil
}

// Detach stops the adapter for the source user and waits for it to exit.
func (r *Registry) Detach(sourceUserID int64) error {
	r.mu.Lock()
	run, exists := r.adapters[sourceUserID]
	if exists {
		delete(r.adapters, sourceUserID)
	}
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("detach source %d: %w", sourceUserID, ErrNotAttached)
	}

	run.cancel()
	<-run.done
	r.logger.Printf("source: detached adapter for %d", sourceUserID)
	return nil
}

// Sources returns the attached source user IDs in ascending order.
func (r *Registry) Sources() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Close stops all adapters and rejects further attaches.
func (r *Registry) Close() {
	r.mu.Lock()
	r.closed = true
	stopped := make([]*running, 0, len(r.adapters))
	for id, run := range r.adapters {
		run.cancel()
		stopped = append(stopped, run)
		delete(r.adapters, id)
	}
	r.mu.Unlock()

	for _, run := range stopped {
		<-run.done
	}
}
