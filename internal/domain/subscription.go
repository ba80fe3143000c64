package domain

// Subscription is one subscriber's per-channel notification config.
// Owned by account management; read-only to the pipeline.
type Subscription struct {
	SubscriberID    int64    // subscriber (user) ID
	ChannelID       int64    // source channel the subscription covers
	IsActive        bool     // inactive subscriptions are never dispatched to
	MinConfidence   *float64 // minimum confidence on a 0-100 scale, nil = no filter
	SentimentFilter *string  // required sentiment ("BULLISH", ...), nil = all
	NotifyEmail     bool     // deliver via email in addition to in-app
	NotifyEcho      bool     // echo into the subscriber's own chat account
	CreatedAt       int64    // Unix timestamp in milliseconds
}

// Matches reports whether a detection passes the subscription's filters.
// Rate limiting is a separate concern handled by the dispatcher.
func (s *Subscription) Matches(d *Detection) bool {
	if d == nil {
		return false
	}
	if s.MinConfidence != nil && d.Confidence*100 < *s.MinConfidence {
		return false
	}
	if s.SentimentFilter != nil && *s.SentimentFilter != "" {
		if Sentiment(*s.SentimentFilter) != d.Sentiment {
			return false
		}
	}
	return true
}
