package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"

	"outreach-server/internal/observability"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GmailConfig holds the credentials of the sending mailbox. Either a refresh token
// with client id/secret, or a credentials file, is required. A credentials file of
// type "installed" or "web" is combined with RefreshToken; any other type
// (service account, authorized user) is used as is.
type GmailConfig struct {
	ClientID        string
	ClientSecret    string
	RefreshToken    string
	CredentialsFile string
	From            string

	// ClientOptions are appended when building the Gmail service.
	ClientOptions []option.ClientOption
}

// GmailSender implements Sender using the Gmail API.
type GmailSender struct {
	service *gmail.Service
	from    string
	logger  *observability.Logger
}

func NewGmailSender(ctx context.Context, cfg GmailConfig, logger *observability.Logger) (*GmailSender, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}

	opts := cfg.ClientOptions
	if len(opts) == 0 {
		client, err := gmailHTTPClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = []option.ClientOption{option.WithHTTPClient(client)}
	}

	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: gmail: failed to create service: %w", ErrTransport, err)
	}

	return &GmailSender{
		service: svc,
		from:    cfg.From,
		logger:  logger,
	}, nil
}

func gmailHTTPClient(ctx context.Context, cfg GmailConfig) (*http.Client, error) {
	if cfg.CredentialsFile == "" {
		if cfg.RefreshToken == "" {
			return nil, fmt.Errorf("%w: gmail: refresh token or credentials file is required", ErrTransport)
		}
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailSendScope},
		}
		return oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}), nil
	}

	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: gmail: failed to read credentials file: %w", ErrTransport, err)
	}

	if oauthCfg, err := google.ConfigFromJSON(data, gmail.GmailSendScope); err == nil {
		if cfg.RefreshToken == "" {
			return nil, fmt.Errorf("%w: gmail: client credentials need GMAIL_REFRESH_TOKEN", ErrTransport)
		}
		return oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}), nil
	}

	creds, err := google.CredentialsFromJSON(ctx, data, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("%w: gmail: failed to parse credentials: %w", ErrTransport, err)
	}
	return oauth2.NewClient(ctx, creds.TokenSource), nil
}

// Send builds the MIME message, attachment included, and posts it raw.
func (g *GmailSender) Send(ctx context.Context, msg Message) error {
	ctx = withMessageFields(ctx, msg)

	if err := checkAttachment(msg.AttachmentPath); err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := buildMessage(g.from, msg).WriteTo(&buf); err != nil {
		return fmt.Errorf("gmail: failed to build message: %w", err)
	}

	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(buf.Bytes()),
	}

	res, err := g.service.Users.Messages.Send("me", gmailMsg).Context(ctx).Do()
	if err != nil {
		g.logger.Error(ctx, "failed to send email", err)
		return gmailError(err)
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "email_id", Value: res.Id})
	g.logger.Info(ctx, "email sent successfully")
	return nil
}

// gmailError separates credential, quota and server failures, which affect every
// recipient, from rejections of a single message.
func gmailError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized,
			apiErr.Code == http.StatusForbidden,
			apiErr.Code == http.StatusTooManyRequests,
			apiErr.Code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: gmail: failed to send email: %w", ErrTransport, err)
		}
		return fmt.Errorf("gmail: failed to send email: %w", err)
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: gmail: failed to refresh token: %w", ErrTransport, err)
	}
	return transportError(fmt.Errorf("gmail: failed to send email: %w", err))
}
