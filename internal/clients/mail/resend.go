package mail

import (
	"context"
	"fmt"

	"outreach-server/internal/observability"

	"github.com/resendlabs/resend-go"
)

type ResendSender struct {
	client *resend.Client
	from   string
	logger *observability.Logger
}

func NewResendSender(apiKey, from string, logger *observability.Logger) (*ResendSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required: %w", ErrTransport)
	}
	client := resend.NewClient(apiKey)
	if client == nil {
		return nil, fmt.Errorf("failed to create Resend client")
	}

	return &ResendSender{
		client: client,
		from:   from,
		logger: logger,
	}, nil
}

// Send delivers msg as a plain text email. Local attachments are not supported.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	ctx = withMessageFields(ctx, msg)

	if msg.AttachmentPath != "" {
		return ErrAttachmentsUnsupported
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Body,
	}

	res, err := s.client.Emails.Send(params)
	if err != nil {
		s.logger.Error(ctx, "failed to send email", err)
		return transportError(fmt.Errorf("failed to send email: %w", err))
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "email_id", Value: res.Id})
	s.logger.Info(ctx, "email sent successfully")
	return nil
}
