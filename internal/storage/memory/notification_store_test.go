package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

func TestNotificationStore_CreateAndList(t *testing.T) {
	store := NewNotificationStore()
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		n := &domain.Notification{
			ID:           fmt.Sprintf("n-%d", i),
			SubscriberID: 1,
			Type:         domain.NotificationTypeSignal,
			Title:        "BTC signal",
			CreatedAt:    1704067200000 + i*1000,
		}
		if err := store.Create(ctx, n); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	got, err := store.ListBySubscriber(ctx, 1, 3)
	if err != nil {
		t.Fatalf("ListBySubscriber failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(got))
	}
	if got[0].ID != "n-5" {
		t.Errorf("expected newest first, got %s", got[0].ID)
	}
}

func TestNotificationStore_DuplicateID(t *testing.T) {
	store := NewNotificationStore()
	ctx := context.Background()

	n := &domain.Notification{ID: "n-1", SubscriberID: 1, Type: domain.NotificationTypeSignal}
	if err := store.Create(ctx, n); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := store.Create(ctx, n)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestNotificationStore_MarkReadAndCount(t *testing.T) {
	store := NewNotificationStore()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n := &domain.Notification{
			ID:           fmt.Sprintf("n-%d", i),
			SubscriberID: 1,
			Type:         domain.NotificationTypeSignal,
		}
		if err := store.Create(ctx, n); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	if err := store.MarkRead(ctx, 1, "n-2"); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	count, err := store.CountUnread(ctx, 1)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 unread, got %d", count)
	}

	// A subscriber cannot mark another subscriber's notification.
	err = store.MarkRead(ctx, 2, "n-1")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
