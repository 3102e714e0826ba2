package mail

import (
	"context"
	"fmt"

	"github.com/citycare/citycare/internal/server/config"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendEmail posts m to the SendGrid API and returns the HTTP status and body.
var sendEmail = func(ctx context.Context, apiKey string, m *sgmail.SGMailV3) (int, string, error) {
	resp, err := sendgrid.NewSendClient(apiKey).SendWithContext(ctx, m)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, resp.Body, nil
}

type SendGridSender struct {
	config config.MailConfig
}

func NewSendGridSender(c config.MailConfig) *SendGridSender {
	return &SendGridSender{config: c}
}

func (s *SendGridSender) Name() string { return "sendgrid" }

func (s *SendGridSender) message(m Message) *sgmail.SGMailV3 {
	from := s.config.SendGridFrom
	if from == "" {
		from = s.config.SMTPFrom
	}
	msg := sgmail.NewSingleEmail(sgmail.NewEmail("CityCare", from), m.Subject, sgmail.NewEmail("", m.To), m.Text, m.HTML)
	if m.ReplyTo != "" {
		msg.SetReplyTo(sgmail.NewEmail("", m.ReplyTo))
	}
	return msg
}

func (s *SendGridSender) Send(ctx context.Context, m Message) error {
	status, body, err := sendEmail(ctx, s.config.SendGridAPIKey, s.message(m))
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("sendgrid status %d: %s", status, body)
	}
	return nil
}
