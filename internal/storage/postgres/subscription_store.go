package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

// SubscriptionStore implements storage.SubscriptionStore using PostgreSQL.
type SubscriptionStore struct {
	pool *Pool
}

// NewSubscriptionStore creates a new SubscriptionStore.
func NewSubscriptionStore(pool *Pool) *SubscriptionStore {
	return &SubscriptionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SubscriptionStore = (*SubscriptionStore)(nil)

// Upsert creates or replaces the subscription for (subscriber_id, channel_id).
func (s *SubscriptionStore) Upsert(ctx context.Context, sub *domain.Subscription) error {
	if sub == nil || sub.SubscriberID == 0 || sub.ChannelID == 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO subscriptions (
			subscriber_id, channel_id, is_active, min_confidence,
			sentiment_filter, notify_email, notify_echo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (subscriber_id, channel_id) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			min_confidence = EXCLUDED.min_confidence,
			sentiment_filter = EXCLUDED.sentiment_filter,
			notify_email = EXCLUDED.notify_email,
			notify_echo = EXCLUDED.notify_echo
	`

	_, err := s.pool.Exec(ctx, query,
		sub.SubscriberID,
		sub.ChannelID,
		sub.IsActive,
		sub.MinConfidence,
		sub.SentimentFilter,
		sub.NotifyEmail,
		sub.NotifyEcho,
		sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// ListActive retrieves all active subscriptions for a channel.
func (s *SubscriptionStore) ListActive(ctx context.Context, channelID int64) ([]*domain.Subscription, error) {
	query := `
		SELECT subscriber_id, channel_id, is_active, min_confidence,
		       sentiment_filter, notify_email, notify_echo, created_at
		FROM subscriptions
		WHERE channel_id = $1 AND is_active
		ORDER BY subscriber_id ASC
	`

	rows, err := s.pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("list active subscriptions: %w", err)
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

// ListBySubscriber retrieves all subscriptions of one subscriber.
func (s *SubscriptionStore) ListBySubscriber(ctx context.Context, subscriberID int64) ([]*domain.Subscription, error) {
	query := `
		SELECT subscriber_id, channel_id, is_active, min_confidence,
		       sentiment_filter, notify_email, notify_echo, created_at
		FROM subscriptions
		WHERE subscriber_id = $1
		ORDER BY channel_id ASC
	`

	rows, err := s.pool.Query(ctx, query, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by subscriber: %w", err)
	}
	defer rows.Close()

	return scanSubscriptions(rows)
}

// Deactivate marks the subscription inactive. Returns ErrNotFound if no
// subscription exists for the pair.
func (s *SubscriptionStore) Deactivate(ctx context.Context, subscriberID, channelID int64) error {
	query := `
		UPDATE subscriptions
		SET is_active = FALSE
		WHERE subscriber_id = $1 AND channel_id = $2
	`

	tag, err := s.pool.Exec(ctx, query, subscriberID, channelID)
	if err != nil {
		return fmt.Errorf("deactivate subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanSubscriptions scans multiple rows into a slice of Subscription.
func scanSubscriptions(rows pgx.Rows) ([]*domain.Subscription, error) {
	var subs []*domain.Subscription

	for rows.Next() {
		var sub domain.Subscription
		err := rows.Scan(
			&sub.SubscriberID,
			&sub.ChannelID,
			&sub.IsActive,
			&sub.MinConfidence,
			&sub.SentimentFilter,
			&sub.NotifyEmail,
			&sub.NotifyEcho,
			&sub.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan subscription row: %w", err)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription rows: %w", err)
	}
	return subs, nil
}
