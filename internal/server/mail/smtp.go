package mail

import (
	"context"
	"fmt"

	"github.com/citycare/citycare/internal/server/config"
	gomail "github.com/wneessen/go-mail"
)

var dialAndSend = func(ctx context.Context, c *gomail.Client, msgs ...*gomail.Msg) error {
	return c.DialAndSendWithContext(ctx, msgs...)
}

type SMTPSender struct {
	config config.MailConfig
}

func NewSMTPSender(c config.MailConfig) *SMTPSender {
	return &SMTPSender{config: c}
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) from() string {
	if s.config.SMTPFrom != "" {
		return s.config.SMTPFrom
	}
	return s.config.SMTPUser
}

func (s *SMTPSender) options() []gomail.Option {
	opts := []gomail.Option{gomail.WithPort(s.config.SMTPPort)}
	if s.config.SMTPUser != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.config.SMTPUser),
			gomail.WithPassword(s.config.SMTPPass),
		)
	}
	if s.config.SMTPSecure {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	return opts
}

func (s *SMTPSender) message(m Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.from()); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	if m.ReplyTo != "" {
		if err := msg.ReplyTo(m.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to: %w", err)
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Text)
	if m.HTML != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, m.HTML)
	}
	return msg, nil
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := s.message(m)
	if err != nil {
		return err
	}
	client, err := gomail.NewClient(s.config.SMTPHost, s.options()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return dialAndSend(ctx, client, msg)
}
