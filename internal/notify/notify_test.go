package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Beka01247/smart-stock/internal/domain"
)

func TestSlackSender(t *testing.T) {
	var payload slackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	sender := NewSlackSender(SlackConfig{WebhookURL: srv.URL, Channel: "#stock"}, Options{})
	if err := sender.Send(context.Background(), Message{Subject: "Low stock", Body: "Flour is low"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if payload.Channel != "#stock" || payload.Text != "Low stock\n\nFlour is low" || payload.Username != "Smart Stock Bot" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestSlackSenderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_token", http.StatusForbidden)
	}))
	defer srv.Close()

	err := NewSlackSender(SlackConfig{WebhookURL: srv.URL}, Options{}).Send(context.Background(), TestMessage)
	if err == nil || !strings.Contains(err.Error(), "invalid_token") {
		t.Fatalf("expected slack error, got %v", err)
	}
}

func TestTwilioSender(t *testing.T) {
	var path, user, pass, to, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		user, pass, _ = r.BasicAuth()
		r.ParseForm()
		to = r.PostForm.Get("To")
		body = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid": "SM1"}`))
	}))
	defer srv.Close()

	sender := NewTwilioSender(SMSConfig{
		Provider:    "twilio",
		AccountSID:  "AC123",
		AuthToken:   "token",
		From:        "+15550000000",
		PhoneNumber: "+15551112222",
	}, Options{TwilioBaseURL: srv.URL})

	if err := sender.Send(context.Background(), Message{Body: "Order placed"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if path != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("unexpected path %s", path)
	}
	if user != "AC123" || pass != "token" {
		t.Errorf("unexpected credentials %s:%s", user, pass)
	}
	if to != "+15551112222" || body != "Order placed" {
		t.Errorf("unexpected form to=%s body=%s", to, body)
	}
}

func TestTwilioSenderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code": 21211, "message": "The 'To' number is not valid."}`))
	}))
	defer srv.Close()

	sender := NewTwilioSender(SMSConfig{Provider: "twilio", AccountSID: "AC1"}, Options{TwilioBaseURL: srv.URL})
	err := sender.Send(context.Background(), TestMessage)
	if err == nil || !strings.Contains(err.Error(), "is not valid") {
		t.Fatalf("expected provider message, got %v", err)
	}
}

func TestTelegramSender(t *testing.T) {
	var sentText, sentChat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			w.Write([]byte(`{"ok": true, "result": {"id": 1, "is_bot": true, "first_name": "stock", "username": "stock_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			r.ParseForm()
			sentText = r.PostForm.Get("text")
			sentChat = r.PostForm.Get("chat_id")
			w.Write([]byte(`{"ok": true, "result": {"message_id": 7, "date": 0, "chat": {"id": 42, "type": "private"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	sender := NewTelegramSender(TelegramConfig{BotToken: "123:abc", ChatID: 42}, Options{
		TelegramEndpoint: srv.URL + "/bot%s/%s",
	})
	if err := sender.Send(context.Background(), Message{Subject: "Import done"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if sentText != "Import done" || sentChat != "42" {
		t.Fatalf("unexpected message text=%q chat=%q", sentText, sentChat)
	}
}

func TestGmailSender(t *testing.T) {
	var raw, auth string
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostForm.Get("refresh_token") != "refresh" {
			t.Errorf("unexpected refresh token %q", r.PostForm.Get("refresh_token"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "access", "token_type": "Bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/send", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		var msg struct {
			Raw string `json:"raw"`
		}
		json.NewDecoder(r.Body).Decode(&msg)
		raw = msg.Raw
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "m1"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	sender := NewGmailSender(GmailConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "refresh",
		To:           "chef@example.com",
	}, Options{
		HTTPClient:     srv.Client(),
		GoogleTokenURL: srv.URL + "/token",
		GmailEndpoint:  srv.URL + "/",
	})

	if err := sender.Send(context.Background(), Message{Subject: "Order placed", Body: "ORD-1234"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	if auth != "Bearer access" {
		t.Errorf("unexpected authorization %q", auth)
	}
	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if !strings.Contains(string(decoded), "To: chef@example.com\r\n") || !strings.HasSuffix(string(decoded), "ORD-1234") {
		t.Errorf("unexpected message %q", decoded)
	}
}

func TestConfigFromSetting(t *testing.T) {
	setting := domain.IntegrationSetting{
		Kind:  domain.IntegrationSlack,
		Slack: &domain.SlackSettings{WebhookURL: "https://hooks.slack.test/x"},
	}
	cfg, err := ConfigFromSetting(setting)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Kind() != domain.IntegrationSlack {
		t.Fatalf("unexpected kind %s", cfg.Kind())
	}

	setting.SMS = &domain.SMSSettings{}
	if _, err := ConfigFromSetting(setting); err == nil {
		t.Fatal("expected error for a setting carrying two payloads")
	}
}

func TestDispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	results := NewDispatcher(Options{}).Dispatch(context.Background(), []Config{
		SlackConfig{WebhookURL: srv.URL},
		SMSConfig{Provider: "carrier-pigeon"},
	}, TestMessage)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Success || results[0].Kind != domain.IntegrationSlack {
		t.Errorf("unexpected slack result %+v", results[0])
	}
	if results[1].Success || !strings.Contains(results[1].Error, "carrier-pigeon") {
		t.Errorf("unexpected sms result %+v", results[1])
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"slack ok", SlackConfig{WebhookURL: "https://hooks.slack.com/services/x"}, false},
		{"slack bad url", SlackConfig{WebhookURL: "not a url"}, true},
		{"sms ok", SMSConfig{Provider: "twilio", AccountSID: "AC1", AuthToken: "t", From: "+15550001111", PhoneNumber: "+15552223333"}, false},
		{"sms unknown provider", SMSConfig{Provider: "other", AccountSID: "AC1", AuthToken: "t", From: "+15550001111", PhoneNumber: "+15552223333"}, true},
		{"telegram missing chat", TelegramConfig{BotToken: "123:abc"}, true},
		{"gmail missing token", GmailConfig{ClientID: "id", ClientSecret: "s", To: "a@b.co"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
