package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

func TestNotificationStore_CreateAndList(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNotificationStore(pool)
	ctx := context.Background()

	n := &domain.Notification{
		ID:           uuid.NewString(),
		SubscriberID: 1,
		Type:         domain.NotificationTypeSignal,
		Title:        "🚀 Signal: PEPE (ETH)",
		Message:      "PEPE breakout, confidence 85%",
		Data: map[string]any{
			"token_symbol": "PEPE",
			"confidence":   0.85,
		},
		TokenSymbol:     "PEPE",
		ContractAddress: "0x6982508145454ce325ddbe47a25d4ec3d2311933",
		ChannelName:     "alpha-calls",
		CreatedAt:       1700000000000,
	}
	require.NoError(t, store.Create(ctx, n))

	older := &domain.Notification{
		ID:           uuid.NewString(),
		SubscriberID: 1,
		Type:         domain.NotificationTypeSignal,
		Title:        "older",
		CreatedAt:    1699999999000,
	}
	require.NoError(t, store.Create(ctx, older))

	list, err := store.ListBySubscriber(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, n.ID, list[0].ID)
	assert.Equal(t, n.Title, list[0].Title)
	assert.Equal(t, "PEPE", list[0].Data["token_symbol"])
	assert.False(t, list[0].Read)
}

func TestNotificationStore_DuplicateID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNotificationStore(pool)
	ctx := context.Background()

	n := &domain.Notification{
		ID:           uuid.NewString(),
		SubscriberID: 1,
		Type:         domain.NotificationTypeSignal,
		CreatedAt:    1700000000000,
	}
	require.NoError(t, store.Create(ctx, n))

	err := store.Create(ctx, n)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestNotificationStore_MarkReadAndCount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNotificationStore(pool)
	ctx := context.Background()

	ids := make([]string, 3)
	for i := range ids {
		ids[i] = uuid.NewString()
		require.NoError(t, store.Create(ctx, &domain.Notification{
			ID:           ids[i],
			SubscriberID: 1,
			Type:         domain.NotificationTypeSignal,
			CreatedAt:    1700000000000 + int64(i)*1000,
		}))
	}

	require.NoError(t, store.MarkRead(ctx, 1, ids[1]))

	count, err := store.CountUnread(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Other subscribers cannot mark someone else's notification.
	err = store.MarkRead(ctx, 2, ids[0])
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
