package memory

import (
	"context"
	"errors"
	"testing"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

func TestSubscriptionStore_UpsertAndList(t *testing.T) {
	store := NewSubscriptionStore()
	ctx := context.Background()

	subs := []*domain.Subscription{
		{SubscriberID: 1, ChannelID: 100, IsActive: true},
		{SubscriberID: 2, ChannelID: 100, IsActive: true},
		{SubscriberID: 3, ChannelID: 100, IsActive: false},
		{SubscriberID: 1, ChannelID: 200, IsActive: true},
	}
	for _, sub := range subs {
		if err := store.Upsert(ctx, sub); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	active, err := store.ListActive(ctx, 100)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active subscriptions, got %d", len(active))
	}
	if active[0].SubscriberID != 1 || active[1].SubscriberID != 2 {
		t.Errorf("wrong subscribers: got %d, %d", active[0].SubscriberID, active[1].SubscriberID)
	}
}

func TestSubscriptionStore_UpsertReplaces(t *testing.T) {
	store := NewSubscriptionStore()
	ctx := context.Background()

	minConf := 80.0
	if err := store.Upsert(ctx, &domain.Subscription{SubscriberID: 1, ChannelID: 100, IsActive: true}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, &domain.Subscription{
		SubscriberID: 1, ChannelID: 100, IsActive: true, MinConfidence: &minConf,
	}); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, err := store.ListBySubscriber(ctx, 1)
	if err != nil {
		t.Fatalf("ListBySubscriber failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(got))
	}
	if got[0].MinConfidence == nil || *got[0].MinConfidence != 80.0 {
		t.Errorf("MinConfidence not replaced: got %v", got[0].MinConfidence)
	}
}

func TestSubscriptionStore_Deactivate(t *testing.T) {
	store := NewSubscriptionStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, &domain.Subscription{SubscriberID: 1, ChannelID: 100, IsActive: true}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Deactivate(ctx, 1, 100); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	active, err := store.ListActive(ctx, 100)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected no active subscriptions, got %d", len(active))
	}

	err = store.Deactivate(ctx, 9, 100)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubscriptionStore_InvalidInput(t *testing.T) {
	store := NewSubscriptionStore()

	err := store.Upsert(context.Background(), &domain.Subscription{SubscriberID: 0, ChannelID: 100})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
