package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"

	"outreach-server/internal/config"
	"outreach-server/internal/observability"
)

// ErrTransport marks failures of the mail transport itself (unreachable server,
// rejected credentials). A run that hits one is aborted and retried later instead
// of failing the recipient.
var ErrTransport = errors.New("mail transport unavailable")

// ErrAttachmentUnavailable marks a campaign attachment that cannot be read. Every message of
// the campaign would fail the same way, so callers treat it like ErrTransport.
var ErrAttachmentUnavailable = errors.New("campaign attachment unavailable")

// ErrAttachmentsUnsupported is returned by providers that cannot send local files.
var ErrAttachmentsUnsupported = errors.New("mail provider does not support attachments")

// Message is one outbound plain text email
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentPath string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the sender selected by cfg.Provider.
func New(ctx context.Context, cfg config.MailConfig, logger *observability.Logger) (Sender, error) {
	from := formatAddress(cfg.FromName, cfg.FromAddress)

	switch cfg.Provider {
	case config.MailProviderResend:
		return NewResendSender(cfg.ResendAPIKey, from, logger)
	case config.MailProviderSMTP:
		return NewSMTPSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     from,
		}, logger), nil
	case config.MailProviderGmail:
		return NewGmailSender(ctx, GmailConfig{
			ClientID:        cfg.GmailClientID,
			ClientSecret:    cfg.GmailClientSecret,
			RefreshToken:    cfg.GmailRefreshToken,
			CredentialsFile: cfg.GmailCredentialsFile,
			From:            from,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

func formatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// transportError wraps err with ErrTransport when it comes from the network
// layer rather than from the provider rejecting this particular message.
func transportError(err error) error {
	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return err
}

func checkAttachment(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAttachmentUnavailable, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrAttachmentUnavailable, path)
	}
	return nil
}

func withMessageFields(ctx context.Context, msg Message) context.Context {
	return observability.WithFields(ctx,
		observability.Field{Key: "email_to", Value: msg.To},
		observability.Field{Key: "email_subject", Value: msg.Subject},
	)
}
