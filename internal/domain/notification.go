package domain

// Notification types.
const (
	NotificationTypeSignal   = "signal"
	NotificationTypeTracking = "tracking"
)

// Notification is a persisted in-app notification for one subscriber.
type Notification struct {
	ID              string         // UUID assigned at creation
	SubscriberID    int64          // recipient
	Type            string         // "signal" or "tracking"
	Title           string         // short headline, e.g. "🚀 Signal: PEPE (ETH)"
	Message         string         // one-line body
	Data            map[string]any // structured detection payload
	TokenSymbol     string         // denormalized for filtering, may be empty
	ContractAddress string         // first contract address, may be empty
	ChannelName     string         // originating channel
	Read            bool
	CreatedAt       int64 // Unix timestamp in milliseconds
}
