package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type SlackSender struct {
	config SlackConfig
	client *http.Client
}

func NewSlackSender(c SlackConfig, opts Options) *SlackSender {
	return &SlackSender{config: c, client: opts.httpClient()}
}

type slackPayload struct {
	Text      string `json:"text"`
	Channel   string `json:"channel,omitempty"`
	Username  string `json:"username"`
	IconEmoji string `json:"icon_emoji"`
}

func (s *SlackSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(slackPayload{
		Text:      msg.Text(),
		Channel:   s.config.Channel,
		Username:  "Smart Stock Bot",
		IconEmoji: ":package:",
	})
	if err != nil {
		return fmt.Errorf("failed to encode slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("slack webhook failed: %s", strings.TrimSpace(string(data)))
	}

	return nil
}
