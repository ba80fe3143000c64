package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

// NotificationStore implements storage.NotificationStore using PostgreSQL.
type NotificationStore struct {
	pool *Pool
}

// NewNotificationStore creates a new NotificationStore.
func NewNotificationStore(pool *Pool) *NotificationStore {
	return &NotificationStore{pool: pool}
}

// Compile-time interface check.
var _ storage.NotificationStore = (*NotificationStore)(nil)

// Create saves a new notification. Returns ErrDuplicateKey if the ID exists.
func (s *NotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	if n == nil || n.ID == "" || n.SubscriberID == 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO notifications (
			id, subscriber_id, type, title, message, data,
			token_symbol, contract_address, channel_name, is_read, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		n.ID,
		n.SubscriberID,
		n.Type,
		n.Title,
		n.Message,
		n.Data,
		n.TokenSymbol,
		n.ContractAddress,
		n.ChannelName,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// ListBySubscriber retrieves notifications for a subscriber, newest first.
func (s *NotificationStore) ListBySubscriber(ctx context.Context, subscriberID int64, limit int) ([]*domain.Notification, error) {
	query := `
		SELECT id, subscriber_id, type, title, message, data,
		       token_symbol, contract_address, channel_name, is_read, created_at
		FROM notifications
		WHERE subscriber_id = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, subscriberID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// MarkRead marks a notification as read. Returns ErrNotFound if the
// notification does not exist or belongs to another subscriber.
func (s *NotificationStore) MarkRead(ctx context.Context, subscriberID int64, id string) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND subscriber_id = $2
	`

	tag, err := s.pool.Exec(ctx, query, id, subscriberID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountUnread returns the number of unread notifications for a subscriber.
func (s *NotificationStore) CountUnread(ctx context.Context, subscriberID int64) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE subscriber_id = $1 AND NOT is_read`

	var count int
	if err := s.pool.QueryRow(ctx, query, subscriberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// scanNotifications scans multiple rows into a slice of Notification.
func scanNotifications(rows pgx.Rows) ([]*domain.Notification, error) {
	var notifications []*domain.Notification

	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.ID,
			&n.SubscriberID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.Data,
			&n.TokenSymbol,
			&n.ContractAddress,
			&n.ChannelName,
			&n.Read,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}
	return notifications, nil
}
