// Package source defines the adapter contract for message sources and a
// registry that runs one adapter per monitored account.
package source

import (
	"context"

	"signal-pipeline/internal/domain"
)

// Sink accepts raw messages for processing. Enqueue must not block; it
// reports whether the message was accepted.
type Sink interface {
	Enqueue(msg *domain.RawMessage) bool
}

// Adapter produces raw messages for one source account. Implementations
// own their transport (chat client session, replay file, test corpus) and
// must stop promptly when ctx is canceled.
type Adapter interface {
	// SourceUserID identifies the account whose channels this adapter reads.
	SourceUserID() int64

	// Run feeds messages into sink until ctx is canceled. A nil return or
	// ctx.Err() means a clean stop; anything else is an adapter failure.
	Run(ctx context.Context, sink Sink) error
}
