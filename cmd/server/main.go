// Package main runs the signal pipeline as a single process:
// source adapters feed the ingestion queue, workers extract and persist
// signals, and the dispatcher fans notifications out to subscribers.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"signal-pipeline/internal/delivery"
	"signal-pipeline/internal/dispatch"
	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/observability"
	"signal-pipeline/internal/pipeline"
	"signal-pipeline/internal/push"
	"signal-pipeline/internal/source"
	"signal-pipeline/internal/storage"
	chstore "signal-pipeline/internal/storage/clickhouse"
	"signal-pipeline/internal/storage/memory"
	"signal-pipeline/internal/storage/migrations"
	pgstore "signal-pipeline/internal/storage/postgres"
)

// stores holds the storage implementations selected at startup.
type stores struct {
	signals       storage.SignalStore
	subscriptions storage.SubscriptionStore
	notifications storage.NotificationStore
	archive       storage.DetectionEventStore // nil without ClickHouse
}

func main() {
	// .env values become defaults; real env vars win.
	_ = godotenv.Load()

	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (optional archive)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	httpAddr := flag.String("http-addr", envOr("HTTP_ADDR", ":8080"), "HTTP address for health, metrics, status and websocket")
	workers := flag.Int("workers", 4, "Worker pool size")
	queueCapacity := flag.Int("queue-capacity", pipeline.DefaultQueueCapacity, "Ingestion queue capacity")
	dedupTTL := flag.Duration("dedup-ttl", pipeline.DefaultDedupTTL, "Dedup cache entry TTL")
	sweepInterval := flag.Duration("sweep-interval", pipeline.DefaultSweepInterval, "Dedup cache sweep interval")
	cooldown := flag.Duration("notify-cooldown", dispatch.DefaultCooldown, "Per subscriber+channel notification cooldown")
	channels := flag.String("channels", "100:alpha-calls,200:beta-calls", "Comma-separated id:name channel list for synthetic sources")
	syntheticSources := flag.Int("synthetic-sources", 0, "Number of synthetic source adapters to attach")
	syntheticInterval := flag.Duration("synthetic-interval", 2*time.Second, "Synthetic message emit interval")
	seedSubscriber := flag.Int64("seed-subscriber", 0, "Subscriber ID to auto-subscribe to every channel (dev)")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	channelList, err := parseChannels(*channels)
	if err != nil {
		logger.Fatalf("Invalid --channels: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	metrics := observability.NewMetrics("")

	hub := push.NewHub(push.Options{Logger: logger, Metrics: metrics})

	dispatcher, err := dispatch.New(dispatch.Options{
		Subscriptions: st.subscriptions,
		Notifications: st.notifications,
		Pusher:        hub,
		Email:         &delivery.LogEmailSender{Logger: logger},
		Echo:          &delivery.LogEchoSender{Logger: logger},
		Cooldown:      *cooldown,
		Logger:        logger,
		Metrics:       metrics,
	})
	if err != nil {
		logger.Fatalf("Failed to create dispatcher: %v", err)
	}

	pipe, err := pipeline.New(pipeline.Options{
		Signals:       st.signals,
		Archive:       st.archive,
		Dispatcher:    dispatcher,
		Pusher:        hub,
		Workers:       *workers,
		QueueCapacity: *queueCapacity,
		DedupTTL:      *dedupTTL,
		SweepInterval: *sweepInterval,
		Logger:        logger,
		Metrics:       metrics,
	})
	if err != nil {
		logger.Fatalf("Failed to create pipeline: %v", err)
	}

	if *seedSubscriber != 0 {
		seedSubscriptions(ctx, logger, st.subscriptions, *seedSubscriber, channelList)
	}

	registry := source.NewRegistry(pipe, logger)
	defer registry.Close()
	for i := 1; i <= *syntheticSources; i++ {
		adapter := source.NewSyntheticAdapter(int64(i), channelList, nil, *syntheticInterval)
		if err := registry.Attach(adapter); err != nil {
			logger.Fatalf("Failed to attach synthetic source %d: %v", i, err)
		}
	}

	startedAt := time.Now()
	go startHTTPServer(*httpAddr, logger, hub, pipe, startedAt)
	go trackUptime(ctx, metrics)

	// Graceful shutdown on first signal, forced on second or after 30s.
	done := make(chan error, 1)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	err = pipe.Run(ctx)
	done <- err

	if err != nil && err != context.Canceled {
		logger.Fatalf("Pipeline error: %v", err)
	}
	logger.Println("Shutdown complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseChannels parses "100:alpha-calls,200:beta-calls".
func parseChannels(s string) ([]source.Channel, error) {
	var out []source.Channel
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idStr, name, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("channel %q: want id:name", part)
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", part, err)
		}
		out = append(out, source.Channel{ID: id, Name: name})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no channels configured")
	}
	return out, nil
}

// createStores selects storage backends. ClickHouse is optional; without it
// the archive path is disabled.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*stores, func(), error) {
	if useMemory {
		st := &stores{
			signals:       memory.NewSignalStore(),
			subscriptions: memory.NewSubscriptionStore(),
			notifications: memory.NewNotificationStore(),
		}
		return st, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	st := &stores{
		signals:       pgstore.NewSignalStore(pool),
		subscriptions: pgstore.NewSubscriptionStore(pool),
		notifications: pgstore.NewNotificationStore(pool),
	}
	cleanup := func() { pool.Close() }

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		st.archive = chstore.NewDetectionEventStore(conn)
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	}

	return st, cleanup, nil
}

// seedSubscriptions subscribes one subscriber to every configured channel,
// a development convenience so notifications flow out of the box.
func seedSubscriptions(ctx context.Context, logger *log.Logger, subs storage.SubscriptionStore, subscriberID int64, channels []source.Channel) {
	for _, ch := range channels {
		err := subs.Upsert(ctx, &domain.Subscription{
			SubscriberID: subscriberID,
			ChannelID:    ch.ID,
			IsActive:     true,
			CreatedAt:    time.Now().UnixMilli(),
		})
		if err != nil {
			logger.Printf("Seed subscription for channel %d: %v", ch.ID, err)
		}
	}
	logger.Printf("Seeded subscriber %d on %d channels", subscriberID, len(channels))
}

func trackUptime(ctx context.Context, metrics *observability.Metrics) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UptimeSeconds.Inc()
		}
	}
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status      string                         `json:"status"`
	Uptime      string                         `json:"uptime"`
	QueueDepth  int                            `json:"queue_depth"`
	Dropped     uint64                         `json:"dropped_messages"`
	PushClients int                            `json:"push_clients"`
	Sources     map[int64]pipeline.SourceStats `json:"sources"`
}

func startHTTPServer(addr string, logger *log.Logger, hub *push.Hub, pipe *pipeline.Pipeline, startedAt time.Time) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{
			Status:      "running",
			Uptime:      time.Since(startedAt).Round(time.Second).String(),
			QueueDepth:  pipe.QueueDepth(),
			Dropped:     pipe.Dropped(),
			PushClients: hub.Clients(),
			Sources:     pipe.Stats(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Printf("Encode status: %v", err)
		}
	})

	// Realtime feed: /ws?subscriber=<id>
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("subscriber"), 10, 64)
		if err != nil || id == 0 {
			http.Error(w, "subscriber query parameter required", http.StatusBadRequest)
			return
		}
		hub.Serve(id, w, r)
	})

	logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("HTTP server error: %v", err)
	}
}
