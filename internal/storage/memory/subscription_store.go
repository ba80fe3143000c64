package memory

import (
	"context"
	"sort"
	"sync"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

type subscriptionKey struct {
	subscriberID int64
	channelID    int64
}

// SubscriptionStore is an in-memory implementation of storage.SubscriptionStore.
type SubscriptionStore struct {
	mu   sync.RWMutex
	data map[subscriptionKey]*domain.Subscription
}

// NewSubscriptionStore creates a new in-memory subscription store.
func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		data: make(map[subscriptionKey]*domain.Subscription),
	}
}

// Upsert creates or replaces the subscription for (subscriber_id, channel_id).
func (s *SubscriptionStore) Upsert(_ context.Context, sub *domain.Subscription) error {
	if sub == nil || sub.SubscriberID == 0 || sub.ChannelID == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subCopy := *sub
	s.data[subscriptionKey{subscriberID: sub.SubscriberID, channelID: sub.ChannelID}] = &subCopy
	return nil
}

// ListActive retrieves all active subscriptions for a channel.
func (s *SubscriptionStore) ListActive(_ context.Context, channelID int64) ([]*domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Subscription
	for _, sub := range s.data {
		if sub.ChannelID == channelID && sub.IsActive {
			subCopy := *sub
			result = append(result, &subCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SubscriberID < result[j].SubscriberID
	})
	return result, nil
}

// ListBySubscriber retrieves all subscriptions of one subscriber.
func (s *SubscriptionStore) ListBySubscriber(_ context.Context, subscriberID int64) ([]*domain.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Subscription
	for _, sub := range s.data {
		if sub.SubscriberID == subscriberID {
			subCopy := *sub
			result = append(result, &subCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ChannelID < result[j].ChannelID
	})
	return result, nil
}

// Deactivate marks the subscription inactive. Returns ErrNotFound if no
// subscription exists for the pair.
func (s *SubscriptionStore) Deactivate(_ context.Context, subscriberID, channelID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.data[subscriptionKey{subscriberID: subscriberID, channelID: channelID}]
	if !exists {
		return storage.ErrNotFound
	}
	sub.IsActive = false
	return nil
}
