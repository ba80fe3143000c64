package memory

import (
	"context"
	"sort"
	"sync"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

// NotificationStore is an in-memory implementation of storage.NotificationStore.
type NotificationStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Notification // keyed by notification ID
}

// NewNotificationStore creates a new in-memory notification store.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{
		data: make(map[string]*domain.Notification),
	}
}

// Create saves a new notification. Returns ErrDuplicateKey if the ID exists.
func (s *NotificationStore) Create(_ context.Context, n *domain.Notification) error {
	if n == nil || n.ID == "" || n.SubscriberID == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[n.ID]; exists {
		return storage.ErrDuplicateKey
	}

	nCopy := *n
	s.data[n.ID] = &nCopy
	return nil
}

// ListBySubscriber retrieves notifications for a subscriber, newest first.
func (s *NotificationStore) ListBySubscriber(_ context.Context, subscriberID int64, limit int) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Notification
	for _, n := range s.data {
		if n.SubscriberID == subscriberID {
			nCopy := *n
			result = append(result, &nCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MarkRead marks a notification as read. Returns ErrNotFound if the
// notification does not exist or belongs to another subscriber.
func (s *NotificationStore) MarkRead(_ context.Context, subscriberID int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.data[id]
	if !exists || n.SubscriberID != subscriberID {
		return storage.ErrNotFound
	}
	n.Read = true
	return nil
}

// CountUnread returns the number of unread notifications for a subscriber.
func (s *NotificationStore) CountUnread(_ context.Context, subscriberID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.data {
		if n.SubscriberID == subscriberID && !n.Read {
			count++
		}
	}
	return count, nil
}
