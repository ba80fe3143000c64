package source

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"signal-pipeline/internal/domain"
)

// Channel names a monitored chat channel.
type Channel struct {
	ID   int64
	Name string
}

// defaultCorpus mixes real-looking signal calls with chatter so a demo
// exercises every extraction path.
var defaultCorpus = []string{
	"$PEPE looking bullish 🚀 entry: $0.0000012 target: $0.0000018",
	"new gem on solana: GJtJpWbescxcmaVdKkKp6AABoDikdNkNeSwgtzcrgkzs ape in",
	"0x6982508145454ce325ddbe47a25d4ec3d2311933 stealth launch, dyor",
	"BTC breaking out, entry around $45,000, sl $42k",
	"gm everyone, market looking quiet today",
	"$DOGE dump incoming 📉 exit now",
	"https://dexscreener.com/ethereum/0x514910771af9ca656af840dff83e8264ecf986ca printing hard",
	"anyone watching SOL? accumulation zone imo",
	"rug alert, stay away from that one",
	"$WIF mcap $150m, whale wallets loading 🐋",
}

// SyntheticAdapter replays a corpus of messages on an interval. It stands in
// for a real chat-client session in development and load testing.
type SyntheticAdapter struct {
	sourceUserID int64
	channels     []Channel
	corpus       []string
	interval     time.Duration

	nextMessageID atomic.Int64
}

// NewSyntheticAdapter creates an adapter emitting one message per interval,
// rotating through channels. An empty corpus falls back to the built-in one.
func NewSyntheticAdapter(sourceUserID int64, channels []Channel, corpus []string, interval time.Duration) *SyntheticAdapter {
	if len(corpus) == 0 {
		corpus = defaultCorpus
	}
	if interval <= 0 {
		interval = time.Second
	}
	if len(channels) == 0 {
		channels = []Channel{{ID: 1, Name: "synthetic"}}
	}
	return &SyntheticAdapter{
		sourceUserID: sourceUserID,
		channels:     channels,
		corpus:       corpus,
		interval:     interval,
	}
}

// SourceUserID implements Adapter.
func (a *SyntheticAdapter) SourceUserID() int64 { return a.sourceUserID }

// Run implements Adapter.
func (a *SyntheticAdapter) Run(ctx context.Context, sink Sink) error {
	rng := rand.New(rand.NewSource(a.sourceUserID + time.Now().UnixNano()))

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			id := a.nextMessageID.Add(1)
			ch := a.channels[int(id)%len(a.channels)]
			sink.Enqueue(&domain.RawMessage{
				SourceUserID: a.sourceUserID,
				ChannelID:    ch.ID,
				ChannelName:  ch.Name,
				MessageID:    id,
				Text:         a.corpus[rng.Intn(len(a.corpus))],
				ReceivedAt:   time.Now().UnixMilli(),
			})
		}
	}
}
