package domain

// Signal is a persisted detection together with its source context.
// The (ChannelID, MessageID) pair is the uniqueness key: a message is
// saved at most once no matter how many times it arrives.
type Signal struct {
	ID           string `json:"id"` // UUID assigned at save time
	ChannelID    int64  `json:"channel_id"`
	MessageID    int64  `json:"message_id"`
	SourceUserID int64  `json:"source_user_id"`

	Detection Detection `json:"detection"`

	CreatedAt int64 `json:"created_at"` // Unix ms
}
