// Package mail delivers the contact relay's emails through SMTP or
// SendGrid, trying providers in order until one accepts the message.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/citycare/citycare/internal/logging"
	"github.com/citycare/citycare/internal/server/config"
)

// ErrNoProvider is returned when no mail provider is configured.
var ErrNoProvider = errors.New("no mail provider configured")

type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Name() string
	Send(ctx context.Context, m Message) error
}

// Fallback sends through the first provider that succeeds.
type Fallback struct {
	senders []Sender
	logger  logging.Logger
}

func NewFallback(logger logging.Logger, senders ...Sender) *Fallback {
	return &Fallback{senders: senders, logger: logger.With("module", "mail")}
}

// NewFromConfig builds the provider chain: SMTP when SMTPHost is set, then
// SendGrid when SendGridAPIKey is set.
func NewFromConfig(c config.MailConfig, logger logging.Logger) *Fallback {
	var senders []Sender
	if c.SMTPHost != "" {
		senders = append(senders, NewSMTPSender(c))
	}
	if c.SendGridAPIKey != "" {
		senders = append(senders, NewSendGridSender(c))
	}
	return NewFallback(logger, senders...)
}

// Configured reports whether at least one provider is available.
func (f *Fallback) Configured() bool { return len(f.senders) > 0 }

func (f *Fallback) Name() string { return "fallback" }

func (f *Fallback) Send(ctx context.Context, m Message) error {
	if len(f.senders) == 0 {
		return ErrNoProvider
	}
	var errs []error
	for _, s := range f.senders {
		err := s.Send(ctx, m)
		if err == nil {
			return nil
		}
		f.logger.Warn(ctx, "mail provider failed", "provider", s.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	return errors.Join(errs...)
}
