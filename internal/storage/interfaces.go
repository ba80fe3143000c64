package storage

import (
	"context"

	"signal-pipeline/internal/domain"
)

// SignalStore provides access to persisted signal detections.
type SignalStore interface {
	// Insert saves a signal. Returns ErrDuplicateKey if a signal with the
	// same (channel_id, message_id) pair already exists.
	Insert(ctx context.Context, s *domain.Signal) error

	// GetByID retrieves a signal by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Signal, error)

	// GetByChannel retrieves the most recent signals for a channel,
	// ordered by created_at DESC, at most limit rows.
	GetByChannel(ctx context.Context, channelID int64, limit int) ([]*domain.Signal, error)

	// GetRecent retrieves the most recent signals across all channels,
	// ordered by created_at DESC, at most limit rows.
	GetRecent(ctx context.Context, limit int) ([]*domain.Signal, error)
}

// SubscriptionStore provides access to channel subscriptions.
type SubscriptionStore interface {
	// Upsert creates or replaces the subscription for
	// (subscriber_id, channel_id).
	Upsert(ctx context.Context, sub *domain.Subscription) error

	// ListActive retrieves all active subscriptions for a channel.
	ListActive(ctx context.Context, channelID int64) ([]*domain.Subscription, error)

	// ListBySubscriber retrieves all subscriptions of one subscriber,
	// active or not.
	ListBySubscriber(ctx context.Context, subscriberID int64) ([]*domain.Subscription, error)

	// Deactivate marks the subscription inactive. Returns ErrNotFound
	// if no subscription exists for the pair.
	Deactivate(ctx context.Context, subscriberID, channelID int64) error
}

// NotificationStore provides access to per-subscriber notification records.
type NotificationStore interface {
	// Create saves a new notification. Returns ErrDuplicateKey if the ID exists.
	Create(ctx context.Context, n *domain.Notification) error

	// ListBySubscriber retrieves notifications for a subscriber,
	// ordered by created_at DESC, at most limit rows.
	ListBySubscriber(ctx context.Context, subscriberID int64, limit int) ([]*domain.Notification, error)

	// MarkRead marks a notification as read. Returns ErrNotFound if the
	// notification does not exist or belongs to another subscriber.
	MarkRead(ctx context.Context, subscriberID int64, id string) error

	// CountUnread returns the number of unread notifications for a subscriber.
	CountUnread(ctx context.Context, subscriberID int64) (int, error)
}

// DetectionEventStore is an append-only archive of extraction outcomes,
// kept for offline analysis. Writes are best-effort batches.
type DetectionEventStore interface {
	// InsertBatch appends detection events. Duplicates are not rejected.
	InsertBatch(ctx context.Context, events []*domain.Signal) error
}
