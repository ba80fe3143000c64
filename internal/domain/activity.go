package domain

// ActivityEvent is the lightweight live-feed payload pushed to a subscriber
// for every processed message, detection or not. Distinct from a
// Notification: it is never persisted and never rate limited.
type ActivityEvent struct {
	ChannelID    int64      `json:"channel_id"`
	ChannelName  string     `json:"channel_name"`
	MessageID    int64      `json:"message_id"`
	TextPreview  string     `json:"text"` // truncated to 500 chars
	Timestamp    int64      `json:"timestamp"`
	HasDetection bool       `json:"has_signal"`
	SignalType   SignalType `json:"signal_type,omitempty"`
	TokenSymbol  string     `json:"token_symbol,omitempty"`
	Contracts    []string   `json:"contract_addresses,omitempty"`
	Chain        string     `json:"chain,omitempty"`
	Sentiment    Sentiment  `json:"sentiment,omitempty"`
}

// ActivityPreviewLen caps the raw-text preview carried by an ActivityEvent.
const ActivityPreviewLen = 500

// NewActivityEvent builds the live-feed event for a processed message.
// det may be nil when nothing was detected.
func NewActivityEvent(msg *RawMessage, det *Detection) *ActivityEvent {
	ev := &ActivityEvent{
		ChannelID:   msg.ChannelID,
		ChannelName: msg.ChannelName,
		MessageID:   msg.MessageID,
		TextPreview: truncate(msg.Text, ActivityPreviewLen),
		Timestamp:   msg.ReceivedAt,
	}
	if det != nil {
		ev.HasDetection = true
		ev.SignalType = det.SignalType
		ev.TokenSymbol = det.TokenSymbol
		ev.Contracts = det.ContractAddresses
		ev.Chain = det.Chain
		ev.Sentiment = det.Sentiment
	}
	return ev
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Cut on a rune boundary so previews stay valid UTF-8.
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
