package domain

import "fmt"

type IntegrationKind string

const (
	IntegrationGmail    IntegrationKind = "gmail"
	IntegrationSlack    IntegrationKind = "slack"
	IntegrationSMS      IntegrationKind = "sms"
	IntegrationTelegram IntegrationKind = "telegram"
)

type GmailSettings struct {
	ClientID     string `bson:"clientId" json:"clientId" validate:"required"`
	ClientSecret string `bson:"clientSecret" json:"clientSecret" validate:"required"`
	RefreshToken string `bson:"refreshToken" json:"refreshToken" validate:"required"`
	From         string `bson:"from,omitempty" json:"from,omitempty" validate:"omitempty,email"`
	To           string `bson:"to" json:"to" validate:"required,email"`
}

type SlackSettings struct {
	WebhookURL string `bson:"webhookUrl" json:"webhookUrl" validate:"required,url"`
	Channel    string `bson:"channel,omitempty" json:"channel,omitempty"`
}

type SMSSettings struct {
	Provider    string `bson:"provider" json:"provider" validate:"required,oneof=twilio"`
	AccountSID  string `bson:"accountSid" json:"accountSid" validate:"required"`
	AuthToken   string `bson:"authToken" json:"authToken" validate:"required"`
	From        string `bson:"from" json:"from" validate:"required,e164"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber" validate:"required,e164"`
}

type TelegramSettings struct {
	BotToken string `bson:"botToken" json:"botToken" validate:"required"`
	ChatID   int64  `bson:"chatId" json:"chatId" validate:"required"`
}

// IntegrationSetting is a tagged record: exactly the field named by Kind is set.
type IntegrationSetting struct {
	Meta     `bson:",inline"`
	Kind     IntegrationKind   `bson:"kind" json:"kind" validate:"required,oneof=gmail slack sms telegram"`
	Enabled  bool              `bson:"enabled" json:"enabled"`
	Gmail    *GmailSettings    `bson:"gmail,omitempty" json:"gmail,omitempty"`
	Slack    *SlackSettings    `bson:"slack,omitempty" json:"slack,omitempty"`
	SMS      *SMSSettings      `bson:"sms,omitempty" json:"sms,omitempty"`
	Telegram *TelegramSettings `bson:"telegram,omitempty" json:"telegram,omitempty"`
}

// CheckTag verifies that the payload matching Kind is present and no other is.
func (s *IntegrationSetting) CheckTag() error {
	set := map[IntegrationKind]bool{
		IntegrationGmail:    s.Gmail != nil,
		IntegrationSlack:    s.Slack != nil,
		IntegrationSMS:      s.SMS != nil,
		IntegrationTelegram: s.Telegram != nil,
	}

	if _, known := set[s.Kind]; !known {
		return fmt.Errorf("unknown integration kind %q", s.Kind)
	}
	for kind, present := range set {
		if kind == s.Kind && !present {
			return fmt.Errorf("%s settings are missing", s.Kind)
		}
		if kind != s.Kind && present {
			return fmt.Errorf("%s settings given for a %s integration", kind, s.Kind)
		}
	}
	return nil
}

type IntegrationSettingPatch struct {
	Enabled *bool `bson:"enabled,omitempty" json:"enabled,omitempty"`
}
