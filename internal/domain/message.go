package domain

// RawMessage is one chat message as produced by a source adapter.
// It is immutable and lives only on the ingestion queue until a worker
// consumes it.
type RawMessage struct {
	SourceUserID int64  // owner of the source account that received the message
	ChannelID    int64  // chat channel the message arrived in
	ChannelName  string // human-readable channel title
	MessageID    int64  // message ID within the channel
	Text         string // raw message text
	ReceivedAt   int64  // Unix timestamp in milliseconds
}

// DedupKey identifies a message uniquely within one source channel.
// Multiple accounts subscribed to the same channel yield the same key.
type DedupKey struct {
	ChannelID int64
	MessageID int64
}

// Key returns the dedup key for the message.
func (m *RawMessage) Key() DedupKey {
	return DedupKey{ChannelID: m.ChannelID, MessageID: m.MessageID}
}
