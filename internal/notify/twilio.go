package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const twilioBaseURL = "https://api.twilio.com"

// TwilioSender sends SMS through the Twilio Messages REST resource.
type TwilioSender struct {
	config  SMSConfig
	client  *http.Client
	baseURL string
}

func NewTwilioSender(c SMSConfig, opts Options) *TwilioSender {
	baseURL := opts.TwilioBaseURL
	if baseURL == "" {
		baseURL = twilioBaseURL
	}
	return &TwilioSender{config: c, client: opts.httpClient(), baseURL: baseURL}
}

func (s *TwilioSender) Send(ctx context.Context, msg Message) error {
	form := url.Values{}
	form.Set("From", s.config.From)
	form.Set("To", s.config.PhoneNumber)
	form.Set("Body", msg.Text())

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, url.PathEscape(s.config.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.config.AccountSID, s.config.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("sms provider error: %s", apiErr.Message)
		}
		return fmt.Errorf("sms provider error: status %d", resp.StatusCode)
	}

	return nil
}
