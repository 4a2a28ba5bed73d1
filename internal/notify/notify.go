// Package notify holds the outbound notification adapters: SMS providers and
// email transports. Provider SDK calls stay inside this package; callers only
// see SMSSender and EmailSender.
package notify

import (
	"context"
	"errors"

	"voice-webhooks/internal/message"
)

// ErrNotConfigured is returned by a send when a required credential or
// address is missing. It is a send failure, not a startup error.
var ErrNotConfigured = errors.New("notify: provider not configured")

// SMSSender sends a text message and returns the provider's message id.
type SMSSender interface {
	Name() string
	SendSMS(ctx context.Context, msg message.OutboundMessage) (string, error)
}

// EmailSender delivers an email. Empty From/To on the email are filled from
// the sender's configuration.
type EmailSender interface {
	Name() string
	SendEmail(ctx context.Context, e message.Email) error
}

// SendGuard claims a key once. Claim reports false when the key was already
// claimed, meaning the send already happened.
type SendGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
}
