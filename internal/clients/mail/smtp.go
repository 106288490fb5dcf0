package mail

import (
	"context"
	"fmt"

	"outreach-server/internal/observability"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// dialer is the part of gomail.Dialer used by SMTPSender.
type dialer interface {
	Dial() (gomail.SendCloser, error)
}

type SMTPSender struct {
	dialer dialer
	from   string
	logger *observability.Logger
}

func NewSMTPSender(cfg SMTPConfig, logger *observability.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// Send opens one SMTP session per message. A failed dial or login is a transport
// failure; a rejection after the session is up belongs to this recipient.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	ctx = withMessageFields(ctx, msg)

	if err := checkAttachment(msg.AttachmentPath); err != nil {
		return err
	}
	m := buildMessage(s.from, msg)

	sc, err := s.dialer.Dial()
	if err != nil {
		s.logger.Error(ctx, "failed to connect to smtp server", err)
		return fmt.Errorf("%w: failed to connect to smtp server: %w", ErrTransport, err)
	}
	defer sc.Close()

	if err := gomail.Send(sc, m); err != nil {
		s.logger.Error(ctx, "failed to send email", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info(ctx, "email sent successfully")
	return nil
}

func buildMessage(from string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if msg.AttachmentPath != "" {
		m.Attach(msg.AttachmentPath)
	}
	return m
}
