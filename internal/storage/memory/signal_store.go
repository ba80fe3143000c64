package memory

import (
	"context"
	"sort"
	"sync"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

type signalKey struct {
	channelID int64
	messageID int64
}

// SignalStore is an in-memory implementation of storage.SignalStore.
type SignalStore struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Signal
	byPair map[signalKey]string // (channel_id, message_id) -> signal ID
}

// NewSignalStore creates a new in-memory signal store.
func NewSignalStore() *SignalStore {
	return &SignalStore{
		byID:   make(map[string]*domain.Signal),
		byPair: make(map[signalKey]string),
	}
}

// Insert saves a signal. Returns ErrDuplicateKey if a signal with the
// same (channel_id, message_id) pair already exists.
func (s *SignalStore) Insert(_ context.Context, sig *domain.Signal) error {
	if sig == nil || sig.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := signalKey{channelID: sig.ChannelID, messageID: sig.MessageID}
	if _, exists := s.byPair[key]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.byID[sig.ID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	sigCopy := *sig
	s.byID[sig.ID] = &sigCopy
	s.byPair[key] = sig.ID
	return nil
}

// GetByID retrieves a signal by its ID. Returns ErrNotFound if not exists.
func (s *SignalStore) GetByID(_ context.Context, id string) (*domain.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, exists := s.byID[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	sigCopy := *sig
	return &sigCopy, nil
}

// GetByChannel retrieves the most recent signals for a channel.
func (s *SignalStore) GetByChannel(_ context.Context, channelID int64, limit int) ([]*domain.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Signal
	for _, sig := range s.byID {
		if sig.ChannelID == channelID {
			sigCopy := *sig
			result = append(result, &sigCopy)
		}
	}
	return recentFirst(result, limit), nil
}

// GetRecent retrieves the most recent signals across all channels.
func (s *SignalStore) GetRecent(_ context.Context, limit int) ([]*domain.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Signal, 0, len(s.byID))
	for _, sig := range s.byID {
		sigCopy := *sig
		result = append(result, &sigCopy)
	}
	return recentFirst(result, limit), nil
}

// recentFirst orders signals by created_at DESC and truncates to limit.
// Equal timestamps fall back to ID order so results are deterministic.
func recentFirst(signals []*domain.Signal, limit int) []*domain.Signal {
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].CreatedAt != signals[j].CreatedAt {
			return signals[i].CreatedAt > signals[j].CreatedAt
		}
		return signals[i].ID < signals[j].ID
	})
	if limit > 0 && len(signals) > limit {
		signals = signals[:limit]
	}
	return signals
}
