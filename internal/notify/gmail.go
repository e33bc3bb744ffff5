package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender sends mail as the account that granted the refresh token.
type GmailSender struct {
	config GmailConfig
	opts   Options
}

func NewGmailSender(c GmailConfig, opts Options) *GmailSender {
	return &GmailSender{config: c, opts: opts}
}

func (s *GmailSender) service(ctx context.Context) (*gmail.Service, error) {
	endpoint := google.Endpoint
	if s.opts.GoogleTokenURL != "" {
		endpoint.TokenURL = s.opts.GoogleTokenURL
	}

	oauthConfig := &oauth2.Config{
		ClientID:     s.config.ClientID,
		ClientSecret: s.config.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}
	if s.opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.opts.HTTPClient)
	}
	tokens := oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: s.config.RefreshToken})

	clientOpts := []option.ClientOption{option.WithTokenSource(tokens)}
	if s.opts.GmailEndpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(s.opts.GmailEndpoint))
	}

	svc, err := gmail.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return svc, nil
}

func (s *GmailSender) Send(ctx context.Context, msg Message) error {
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}

	raw := base64.URLEncoding.EncodeToString([]byte(s.rfc822(msg)))
	if _, err := svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send gmail message: %w", err)
	}

	return nil
}

func (s *GmailSender) rfc822(msg Message) string {
	var b strings.Builder
	if s.config.From != "" {
		b.WriteString("From: " + s.config.From + "\r\n")
	}
	b.WriteString("To: " + s.config.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return b.String()
}
