// Package delivery defines the outbound delivery paths used by the
// dispatcher and provides logging implementations for development.
package delivery

import (
	"context"
	"log"
)

// Pusher delivers realtime payloads to a subscriber's connected clients.
// Implementations must not block on slow consumers.
type Pusher interface {
	SendToSubscriber(subscriberID int64, payload any) error
}

// EmailSender delivers a notification by email.
type EmailSender interface {
	Send(ctx context.Context, subscriberID int64, subject, htmlBody string) error
}

// EchoSender posts a notification back into the subscriber's own chat
// account ("saved messages" style self-echo).
type EchoSender interface {
	SendToSelf(ctx context.Context, subscriberID int64, html string) error
}

// NopPusher discards all pushes. Used when no realtime hub is configured.
type NopPusher struct{}

func (NopPusher) SendToSubscriber(int64, any) error { return nil }

// LogEmailSender writes emails to the logger instead of sending them.
type LogEmailSender struct {
	Logger *log.Logger
}

func (s *LogEmailSender) Send(_ context.Context, subscriberID int64, subject, _ string) error {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("email to subscriber %d: %s", subscriberID, subject)
	return nil
}

// LogEchoSender writes chat echoes to the logger instead of sending them.
type LogEchoSender struct {
	Logger *log.Logger
}

func (s *LogEchoSender) SendToSelf(_ context.Context, subscriberID int64, _ string) error {
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("chat echo to subscriber %d", subscriberID)
	return nil
}
