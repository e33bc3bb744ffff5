// Package notify delivers short notifications over the channels an owner
// has configured: Gmail, Slack, SMS and Telegram.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/go-playground/validator/v10"
)

var ErrUnsupportedKind = errors.New("unsupported notification kind")

type Message struct {
	Subject string
	Body    string
}

func (m Message) Text() string {
	if m.Subject == "" {
		return m.Body
	}
	if m.Body == "" {
		return m.Subject
	}
	return m.Subject + "\n\n" + m.Body
}

// TestMessage is what the integration test endpoint sends.
var TestMessage = Message{
	Subject: "Test message from Smart Stock",
	Body:    "🧪 Test message from Smart Stock Ordering App",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the channel configuration of one notification kind.
type Config interface {
	Kind() domain.IntegrationKind
	Validate() error
}

type (
	GmailConfig    domain.GmailSettings
	SlackConfig    domain.SlackSettings
	SMSConfig      domain.SMSSettings
	TelegramConfig domain.TelegramSettings
)

func (GmailConfig) Kind() domain.IntegrationKind    { return domain.IntegrationGmail }
func (SlackConfig) Kind() domain.IntegrationKind    { return domain.IntegrationSlack }
func (SMSConfig) Kind() domain.IntegrationKind      { return domain.IntegrationSMS }
func (TelegramConfig) Kind() domain.IntegrationKind { return domain.IntegrationTelegram }

func (c GmailConfig) Validate() error    { return validate.Struct(c) }
func (c SlackConfig) Validate() error    { return validate.Struct(c) }
func (c SMSConfig) Validate() error      { return validate.Struct(c) }
func (c TelegramConfig) Validate() error { return validate.Struct(c) }

// ConfigFromSetting extracts the channel configuration of a stored setting.
func ConfigFromSetting(s domain.IntegrationSetting) (Config, error) {
	if err := s.CheckTag(); err != nil {
		return nil, err
	}

	switch s.Kind {
	case domain.IntegrationGmail:
		return GmailConfig(*s.Gmail), nil
	case domain.IntegrationSlack:
		return SlackConfig(*s.Slack), nil
	case domain.IntegrationSMS:
		return SMSConfig(*s.SMS), nil
	case domain.IntegrationTelegram:
		return TelegramConfig(*s.Telegram), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, s.Kind)
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Options overrides provider endpoints, mostly for tests.
type Options struct {
	HTTPClient       *http.Client
	TwilioBaseURL    string
	GmailEndpoint    string
	GoogleTokenURL   string
	TelegramEndpoint string
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

func NewSender(cfg Config, opts Options) (Sender, error) {
	switch c := cfg.(type) {
	case GmailConfig:
		return NewGmailSender(c, opts), nil
	case SlackConfig:
		return NewSlackSender(c, opts), nil
	case SMSConfig:
		if c.Provider != "twilio" {
			return nil, fmt.Errorf("%w: sms provider %q", ErrUnsupportedKind, c.Provider)
		}
		return NewTwilioSender(c, opts), nil
	case TelegramConfig:
		return NewTelegramSender(c, opts), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedKind, cfg)
}

type Result struct {
	Kind    domain.IntegrationKind `json:"kind"`
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
}

// Dispatcher sends one message to several channels at once.
type Dispatcher struct {
	opts Options
}

func NewDispatcher(opts Options) *Dispatcher {
	return &Dispatcher{opts: opts}
}

// Dispatch sends msg over every config and reports each channel's outcome
// in the order the configs were given. One failing channel does not stop
// the others.
func (d *Dispatcher) Dispatch(ctx context.Context, configs []Config, msg Message) []Result {
	results := make([]Result, len(configs))

	var wg sync.WaitGroup
	for i, cfg := range configs {
		wg.Add(1)
		go func(i int, cfg Config) {
			defer wg.Done()

			results[i] = Result{Kind: cfg.Kind()}
			sender, err := NewSender(cfg, d.opts)
			if err == nil {
				err = sender.Send(ctx, msg)
			}
			if err != nil {
				results[i].Error = err.Error()
				return
			}
			results[i].Success = true
		}(i, cfg)
	}
	wg.Wait()

	return results
}
