// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	MessagesEnqueued  *prometheus.CounterVec
	MessagesDropped   *prometheus.CounterVec
	MessagesProcessed prometheus.Counter
	QueueDepth        prometheus.Gauge
	ProcessingLatency prometheus.Histogram

	// Dedup metrics
	DedupHits    prometheus.Counter
	DedupEntries prometheus.Gauge
	DedupSwept   prometheus.Counter

	// Extraction metrics
	DetectionsTotal   *prometheus.CounterVec
	ExtractionLatency prometheus.Histogram

	// Storage metrics
	SignalsSaved     prometheus.Counter
	SignalSaveErrors prometheus.Counter
	EventsArchived   prometheus.Counter
	ArchiveErrors    prometheus.Counter

	// Dispatch metrics
	NotificationsSent        *prometheus.CounterVec
	NotificationsRateLimited prometheus.Counter
	NotificationsFiltered    prometheus.Counter
	DispatchErrors           prometheus.Counter
	DispatchLatency          prometheus.Histogram

	// Push metrics
	PushClients      prometheus.Gauge
	PushSendFailures prometheus.Counter

	// Health metrics
	LastMessageTimestamp prometheus.Gauge
	UptimeSeconds        prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "signal_pipeline"
	}

	return &Metrics{
		// Ingestion metrics
		MessagesEnqueued: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "messages_enqueued_total",
			Help:      "Total number of messages accepted into the queue by source",
		}, []string{"source"}),
		MessagesDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "messages_dropped_total",
			Help:      "Total number of messages dropped because the queue was full",
		}, []string{"source"}),
		MessagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "messages_processed_total",
			Help:      "Total number of messages taken off the queue by workers",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "queue_depth",
			Help:      "Current number of messages waiting in the queue",
		}),
		ProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "processing_latency_seconds",
			Help:      "Per-message worker processing latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Dedup metrics
		DedupHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dedup",
			Name:      "hits_total",
			Help:      "Total number of messages recognized as duplicates",
		}),
		DedupEntries: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dedup",
			Name:      "entries",
			Help:      "Current number of entries in the dedup cache",
		}),
		DedupSwept: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dedup",
			Name:      "swept_total",
			Help:      "Total number of expired dedup entries removed by sweeps",
		}),

		// Extraction metrics
		DetectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "detections_total",
			Help:      "Total number of detections by signal type",
		}, []string{"signal_type"}),
		ExtractionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "latency_seconds",
			Help:      "Signal extraction latency in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),

		// Storage metrics
		SignalsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "signals_saved_total",
			Help:      "Total number of signals persisted",
		}),
		SignalSaveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "signal_save_errors_total",
			Help:      "Total number of failed signal saves",
		}),
		EventsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "events_archived_total",
			Help:      "Total number of detection events archived",
		}),
		ArchiveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "archive_errors_total",
			Help:      "Total number of failed archive writes",
		}),

		// Dispatch metrics
		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "notifications_sent_total",
			Help:      "Total number of notifications delivered by path",
		}, []string{"path"}),
		NotificationsRateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "rate_limited_total",
			Help:      "Total number of notifications suppressed by the cooldown",
		}),
		NotificationsFiltered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "filtered_total",
			Help:      "Total number of notifications suppressed by subscription filters",
		}),
		DispatchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "errors_total",
			Help:      "Total number of delivery errors",
		}),
		DispatchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "latency_seconds",
			Help:      "Per-detection fan-out latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Push metrics
		PushClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "push",
			Name:      "clients",
			Help:      "Current number of connected realtime clients",
		}),
		PushSendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "push",
			Name:      "send_failures_total",
			Help:      "Total number of failed realtime pushes",
		}),

		// Health metrics
		LastMessageTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_message_timestamp",
			Help:      "Unix timestamp of the last message processed",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
