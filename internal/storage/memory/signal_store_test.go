package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

func testSignal(id string, channelID, messageID int64) *domain.Signal {
	return &domain.Signal{
		ID:           id,
		ChannelID:    channelID,
		MessageID:    messageID,
		SourceUserID: 42,
		Detection: domain.Detection{
			TokenSymbol: "BTC",
			Sentiment:   domain.SentimentBullish,
			Confidence:  0.75,
			SignalType:  domain.SignalTypeFull,
		},
		CreatedAt: 1704067200000,
	}
}

func TestSignalStore_InsertAndGet(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	sig := testSignal("sig-1", 100, 1)
	if err := store.Insert(ctx, sig); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "sig-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ChannelID != 100 || got.MessageID != 1 {
		t.Errorf("key mismatch: got (%d, %d), want (100, 1)", got.ChannelID, got.MessageID)
	}
	if got.Detection.TokenSymbol != "BTC" {
		t.Errorf("TokenSymbol mismatch: got %s, want BTC", got.Detection.TokenSymbol)
	}
}

func TestSignalStore_DuplicatePair(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	if err := store.Insert(ctx, testSignal("sig-1", 100, 1)); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	// Same (channel_id, message_id) under a fresh ID must be rejected.
	err := store.Insert(ctx, testSignal("sig-2", 100, 1))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	// Same message ID in a different channel is a distinct signal.
	if err := store.Insert(ctx, testSignal("sig-3", 200, 1)); err != nil {
		t.Fatalf("Insert into other channel failed: %v", err)
	}
}

func TestSignalStore_GetByChannel(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		sig := testSignal(fmt.Sprintf("sig-%d", i), 100, i)
		sig.CreatedAt = 1704067200000 + i*1000
		if err := store.Insert(ctx, sig); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}
	if err := store.Insert(ctx, testSignal("other", 200, 1)); err != nil {
		t.Fatalf("Insert other channel failed: %v", err)
	}

	got, err := store.GetByChannel(ctx, 100, 3)
	if err != nil {
		t.Fatalf("GetByChannel failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(got))
	}
	// Newest first.
	if got[0].MessageID != 5 || got[2].MessageID != 3 {
		t.Errorf("wrong order: got messages %d..%d, want 5..3", got[0].MessageID, got[2].MessageID)
	}
}

func TestSignalStore_GetRecent(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		sig := testSignal(fmt.Sprintf("sig-%d", i), i*100, 1)
		sig.CreatedAt = 1704067200000 + i*1000
		if err := store.Insert(ctx, sig); err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}

	got, err := store.GetRecent(ctx, 0)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(got))
	}
	if got[0].ChannelID != 300 {
		t.Errorf("expected newest channel 300 first, got %d", got[0].ChannelID)
	}
}

func TestSignalStore_NotFound(t *testing.T) {
	store := NewSignalStore()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSignalStore_ReturnsCopies(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	if err := store.Insert(ctx, testSignal("sig-1", 100, 1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "sig-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	got.Detection.TokenSymbol = "MUTATED"

	again, err := store.GetByID(ctx, "sig-1")
	if err != nil {
		t.Fatalf("second GetByID failed: %v", err)
	}
	if again.Detection.TokenSymbol != "BTC" {
		t.Errorf("store contents mutated through returned copy: got %s", again.Detection.TokenSymbol)
	}
}

func TestSignalStore_ConcurrentInsert(t *testing.T) {
	store := NewSignalStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sig := testSignal(fmt.Sprintf("sig-%d", i), 100, int64(i))
			if err := store.Insert(ctx, sig); err != nil {
				t.Errorf("Insert %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := store.GetByChannel(ctx, 100, 0)
	if err != nil {
		t.Fatalf("GetByChannel failed: %v", err)
	}
	if len(got) != 50 {
		t.Errorf("expected 50 signals, got %d", len(got))
	}
}
