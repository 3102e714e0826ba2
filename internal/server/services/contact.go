package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/logging"
	"github.com/citycare/citycare/internal/server/mail"
)

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// ContactService relays contact form messages to the city's inbox.
type ContactService struct {
	sender    mail.Sender
	recipient string
	logger    logging.Logger
}

func NewContactService(sender mail.Sender, recipient string, logger logging.Logger) *ContactService {
	return &ContactService{sender: sender, recipient: recipient, logger: logger.With("module", "contact")}
}

// Send delivers the notification to the configured recipient, then a
// confirmation to the submitter. Only the notification must succeed.
func (s *ContactService) Send(ctx context.Context, m ContactMessage) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Message = strings.TrimSpace(m.Message)
	if m.Name == "" || m.Email == "" || m.Message == "" {
		return fmt.Errorf("%w: missing fields", common.ErrorValidation)
	}

	if err := s.sender.Send(ctx, notification(s.recipient, m)); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	if err := s.sender.Send(ctx, confirmation(m)); err != nil {
		s.logger.Warn(ctx, "confirmation mail failed", "to", m.Email, "error", err)
	}
	return nil
}

func notification(to string, m ContactMessage) mail.Message {
	return mail.Message{
		To:      to,
		ReplyTo: m.Email,
		Subject: "New contact form message from " + m.Name,
		Text:    fmt.Sprintf("%s\n\nFrom: %s <%s>", m.Message, m.Name, m.Email),
		HTML: fmt.Sprintf("<p><strong>From:</strong> %s &lt;%s&gt;</p><p><strong>Message:</strong></p><div>%s</div>",
			html.EscapeString(m.Name), html.EscapeString(m.Email),
			strings.ReplaceAll(html.EscapeString(m.Message), "\n", "<br/>")),
	}
}

func confirmation(m ContactMessage) mail.Message {
	body := "Thanks for contacting us. We'll review your message and get back to you shortly."
	return mail.Message{
		To:      m.Email,
		Subject: "We've received your message",
		Text:    fmt.Sprintf("Hi %s,\n\n%s\n\n— CityCare Team", m.Name, body),
		HTML:    fmt.Sprintf("<p>Hi %s,</p><p>%s</p><p>— CityCare Team</p>", html.EscapeString(m.Name), body),
	}
}
