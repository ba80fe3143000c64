package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"signal-pipeline/internal/domain"
	"signal-pipeline/internal/storage"
)

// SignalStore implements storage.SignalStore using PostgreSQL.
type SignalStore struct {
	pool *Pool
}

// NewSignalStore creates a new SignalStore.
func NewSignalStore(pool *Pool) *SignalStore {
	return &SignalStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SignalStore = (*SignalStore)(nil)

const signalColumns = `
	id, channel_id, message_id, source_user_id,
	token_symbol, token_name, contract_addresses, chain, all_tokens,
	entry_price, target_price, stop_loss, market_cap,
	sentiment, confidence, signal_type, tags, source_text, channel_name,
	created_at
`

// Insert saves a signal. Returns ErrDuplicateKey if a signal with the
// same (channel_id, message_id) pair already exists.
func (s *SignalStore) Insert(ctx context.Context, sig *domain.Signal) error {
	if sig == nil || sig.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO signals (` + signalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	d := &sig.Detection
	_, err := s.pool.Exec(ctx, query,
		sig.ID,
		sig.ChannelID,
		sig.MessageID,
		sig.SourceUserID,
		d.TokenSymbol,
		d.TokenName,
		d.ContractAddresses,
		d.Chain,
		d.AllTokens,
		d.EntryPrice,
		d.TargetPrice,
		d.StopLoss,
		d.MarketCap,
		string(d.Sentiment),
		d.Confidence,
		string(d.SignalType),
		d.Tags,
		d.SourceText,
		d.ChannelName,
		sig.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// GetByID retrieves a signal by its ID. Returns ErrNotFound if not exists.
func (s *SignalStore) GetByID(ctx context.Context, id string) (*domain.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM signals WHERE id = $1`

	row := s.pool.QueryRow(ctx, query, id)
	sig, err := scanSignal(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get signal by id: %w", err)
	}
	return sig, nil
}

// GetByChannel retrieves the most recent signals for a channel.
func (s *SignalStore) GetByChannel(ctx context.Context, channelID int64, limit int) ([]*domain.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM signals
		WHERE channel_id = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, channelID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("get signals by channel: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// GetRecent retrieves the most recent signals across all channels.
func (s *SignalStore) GetRecent(ctx context.Context, limit int) ([]*domain.Signal, error) {
	query := `
		SELECT ` + signalColumns + `
		FROM signals
		ORDER BY created_at DESC, id ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("get recent signals: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

const defaultQueryLimit = 100

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultQueryLimit
	}
	return limit
}

// scanSignal scans a single row into a Signal.
func scanSignal(row pgx.Row) (*domain.Signal, error) {
	var sig domain.Signal
	var sentiment, signalType string

	d := &sig.Detection
	err := row.Scan(
		&sig.ID,
		&sig.ChannelID,
		&sig.MessageID,
		&sig.SourceUserID,
		&d.TokenSymbol,
		&d.TokenName,
		&d.ContractAddresses,
		&d.Chain,
		&d.AllTokens,
		&d.EntryPrice,
		&d.TargetPrice,
		&d.StopLoss,
		&d.MarketCap,
		&sentiment,
		&d.Confidence,
		&signalType,
		&d.Tags,
		&d.SourceText,
		&d.ChannelName,
		&sig.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Sentiment = domain.Sentiment(sentiment)
	d.SignalType = domain.SignalType(signalType)
	return &sig, nil
}

// scanSignals scans multiple rows into a slice of Signal.
func scanSignals(rows pgx.Rows) ([]*domain.Signal, error) {
	var signals []*domain.Signal

	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signal row: %w", err)
		}
		signals = append(signals, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signal rows: %w", err)
	}
	return signals, nil
}
