package clickhouse

import (
	"context"
	"fmt"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

// DetectionEventStore implements storage.DetectionEventStore using ClickHouse.
// The archive is append-only and best-effort; Postgres remains the system of
// record for deduplicated signals.
type DetectionEventStore struct {
	conn *Conn
}

// NewDetectionEventStore creates a new DetectionEventStore.
func NewDetectionEventStore(conn *Conn) *DetectionEventStore {
	return &DetectionEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DetectionEventStore = (*DetectionEventStore)(nil)

// InsertBatch appends detection events. Duplicates are not rejected.
func (s *DetectionEventStore) InsertBatch(ctx context.Context, events []*domain.Signal) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO detection_events (
			id, channel_id, message_id, source_user_id,
			token_symbol, chain, contract_count,
			sentiment, confidence, signal_type, tags, channel_name, created_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, e := range events {
		d := &e.Detection
		tags := d.Tags
		if tags == nil {
			tags = []string{}
		}
		err = batch.Append(
			e.ID, e.ChannelID, e.MessageID, e.SourceUserID,
			d.TokenSymbol, d.Chain, uint8(len(d.ContractAddresses)),
			string(d.Sentiment), d.Confidence, string(d.SignalType),
			tags, d.ChannelName, e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}
