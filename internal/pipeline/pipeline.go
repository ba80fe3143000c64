// Package pipeline wires the ingestion queue, dedup cache, and worker pool
// that turn raw chat messages into persisted, dispatched signals.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"signal-pipeline/internal/dispatch"
	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/extract"
	"signal-pipeline/internal/observability"
	"signal-pipeline/internal/storage"
)

// DefaultWorkers is the worker pool size.
const DefaultWorkers = 4

// Dispatcher fans a detection out to channel subscribers.
type Dispatcher interface {
	Dispatch(ctx context.Context, channelID int64, det *domain.Detection) dispatch.Result
}

// Pusher delivers live-feed events to a subscriber's connected clients.
type Pusher interface {
	SendToSubscriber(subscriberID int64, payload any) error
}

// Options configures a Pipeline.
type Options struct {
	Signals    storage.SignalStore         // required
	Archive    storage.DetectionEventStore // optional best-effort archive
	Dispatcher Dispatcher                  // optional, notifications skipped when nil
	Pusher     Pusher                      // optional, live feed skipped when nil

	Workers       int           // defaults to DefaultWorkers
	QueueCapacity int           // defaults to DefaultQueueCapacity
	DedupTTL      time.Duration // defaults to DefaultDedupTTL
	SweepInterval time.Duration // defaults to DefaultSweepInterval

	Logger  *log.Logger            // defaults to log.Default()
	Metrics *observability.Metrics // optional
}

// Pipeline owns the queue, the dedup cache, and the workers draining them.
type Pipeline struct {
	signals    storage.SignalStore
	archive    storage.DetectionEventStore
	dispatcher Dispatcher
	pusher     Pusher

	queue *Queue
	cache *DedupCache
	stats *statsRegistry

	workers       int
	sweepInterval time.Duration

	logger  *log.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Signals == nil {
		return nil, fmt.Errorf("pipeline: signal store is required")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	sweepInterval := opts.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Pipeline{
		signals:       opts.Signals,
		archive:       opts.Archive,
		dispatcher:    opts.Dispatcher,
		pusher:        opts.Pusher,
		queue:         NewQueue(opts.QueueCapacity),
		cache:         NewDedupCache(opts.DedupTTL),
		stats:         newStatsRegistry(),
		workers:       workers,
		sweepInterval: sweepInterval,
		logger:        logger,
		metrics:       opts.Metrics,
	}, nil
}

// Enqueue offers a message to the pipeline without blocking. Returns false
// when the queue is full and the message was dropped.
func (p *Pipeline) Enqueue(msg *domain.RawMessage) bool {
	if msg == nil {
		return false
	}

	ok := p.queue.Enqueue(msg)
	if p.metrics != nil {
		source := strconv.FormatInt(msg.SourceUserID, 10)
		if ok {
			p.metrics.MessagesEnqueued.WithLabelValues(source).Inc()
		} else {
			p.metrics.MessagesDropped.WithLabelValues(source).Inc()
		}
		p.metrics.QueueDepth.Set(float64(p.queue.Len()))
	}
	if !ok {
		p.logger.Printf("pipeline: queue full, dropped message %d from channel %d", msg.MessageID, msg.ChannelID)
	}
	return ok
}

// Run starts the workers and the dedup sweeper and blocks until ctx is
// canceled. Messages still queued at shutdown are abandoned.
func (p *Pipeline) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.workerLoop(ctx, id)
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.sweepLoop(ctx)
	}()

	p.logger.Printf("pipeline: started %d workers, queue capacity %d", p.workers, p.queue.Cap())
	wg.Wait()
	return ctx.Err()
}

// Stats returns a per-source snapshot of processing counters.
func (p *Pipeline) Stats() map[int64]SourceStats {
	return p.stats.snapshot()
}

// QueueDepth returns the number of messages currently waiting.
func (p *Pipeline) QueueDepth() int {
	return p.queue.Len()
}

// Dropped returns the number of messages rejected by the full queue.
func (p *Pipeline) Dropped() uint64 {
	return p.queue.Dropped()
}

func (p *Pipeline) workerLoop(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.queue.C():
			p.process(ctx, id, msg)
		}
	}
}

func (p *Pipeline) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(p.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := p.cache.Sweep()
			if removed > 0 {
				p.logger.Printf("pipeline: swept %d expired dedup entries", removed)
			}
			if p.metrics != nil {
				p.metrics.DedupSwept.Add(float64(removed))
				p.metrics.DedupEntries.Set(float64(p.cache.Len()))
			}
		}
	}
}

// process runs one message through extraction, persistence, dispatch, and
// the live feed. A panic in any step is contained to the message.
func (p *Pipeline) process(ctx context.Context, workerID int, msg *domain.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("pipeline: worker %d panic on message %d/%d: %v\n%s",
				workerID, msg.ChannelID, msg.MessageID, r, debug.Stack())
		}
	}()

	start := time.Now()

	counters := p.stats.get(msg.SourceUserID)
	counters.processed.Add(1)
	counters.lastMessageMS.Store(msg.ReceivedAt)

	if p.metrics != nil {
		p.metrics.MessagesProcessed.Inc()
		p.metrics.QueueDepth.Set(float64(p.queue.Len()))
		p.metrics.LastMessageTimestamp.Set(float64(msg.ReceivedAt) / 1000)
	}

	det, persisted, isNew := p.cache.LookupOrExtract(msg.Key(), func() *domain.Detection {
		extractStart := time.Now()
		d := extract.Extract(msg.Text, msg.ChannelName)
		if p.metrics != nil {
			p.metrics.ExtractionLatency.Observe(time.Since(extractStart).Seconds())
		}
		return d
	})
	if p.metrics != nil {
		if !isNew {
			p.metrics.DedupHits.Inc()
		} else if det != nil {
			p.metrics.DetectionsTotal.WithLabelValues(string(det.SignalType)).Inc()
		}
		p.metrics.DedupEntries.Set(float64(p.cache.Len()))
	}

	valid := extract.IsValid(det)
	if valid && isNew {
		counters.detections.Add(1)
	}

	// A duplicate within the TTL retries a failed save but never
	// re-inserts a persisted signal.
	if valid && !persisted {
		p.persist(ctx, msg, det)
	}

	// Every valid arrival dispatches, duplicates included; the
	// per-subscriber cooldown is what curbs repeat notifications.
	if valid && p.dispatcher != nil {
		res := p.dispatcher.Dispatch(ctx, msg.ChannelID, det)
		p.logger.Printf("pipeline: %s %s in channel %d: %d/%d notified, %d rate limited, %d filtered, %d errors",
			det.Sentiment, det.TokenSymbol, msg.ChannelID,
			res.Notified, res.TotalSubscribers, res.RateLimited, res.Filtered, len(res.Errors))
	}

	// The live feed sees every processed message, signal or not.
	if p.pusher != nil {
		if err := p.pusher.SendToSubscriber(msg.SourceUserID, map[string]any{
			"type":     "channel_activity",
			"activity": domain.NewActivityEvent(msg, det),
		}); err != nil && p.metrics != nil {
			p.metrics.PushSendFailures.Inc()
		}
	}

	if p.metrics != nil {
		p.metrics.ProcessingLatency.Observe(time.Since(start).Seconds())
	}
}

// persist saves the signal and marks the dedup entry on success or on a
// duplicate-key conflict from a concurrent writer. Any other failure leaves
// the entry unmarked so a later duplicate retries the save.
func (p *Pipeline) persist(ctx context.Context, msg *domain.RawMessage, det *domain.Detection) {
	sig := &domain.Signal{
		ID:           uuid.NewString(),
		ChannelID:    msg.ChannelID,
		MessageID:    msg.MessageID,
		SourceUserID: msg.SourceUserID,
		Detection:    *det,
		CreatedAt:    time.Now().UnixMilli(),
	}

	err := p.signals.Insert(ctx, sig)
	switch {
	case err == nil:
		p.cache.MarkPersisted(msg.Key())
		if p.metrics != nil {
			p.metrics.SignalsSaved.Inc()
		}
		p.archiveEvent(ctx, sig)
	case errors.Is(err, storage.ErrDuplicateKey):
		// Another instance won the race; the signal is persisted.
		p.cache.MarkPersisted(msg.Key())
	default:
		p.logger.Printf("pipeline: save signal %d/%d: %v", msg.ChannelID, msg.MessageID, err)
		if p.metrics != nil {
			p.metrics.SignalSaveErrors.Inc()
		}
	}
}

func (p *Pipeline) archiveEvent(ctx context.Context, sig *domain.Signal) {
	if p.archive == nil {
		return
	}
	if err := p.archive.InsertBatch(ctx, []*domain.Signal{sig}); err != nil {
		p.logger.Printf("pipeline: archive signal %s: %v", sig.ID, err)
		if p.metrics != nil {
			p.metrics.ArchiveErrors.Inc()
		}
		return
	}
	if p.metrics != nil {
		p.metrics.EventsArchived.Inc()
	}
}
