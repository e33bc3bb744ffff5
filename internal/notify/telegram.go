package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramSender struct {
	config TelegramConfig
	opts   Options
}

func NewTelegramSender(c TelegramConfig, opts Options) *TelegramSender {
	return &TelegramSender{config: c, opts: opts}
}

func (s *TelegramSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	endpoint := s.opts.TelegramEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(s.config.BotToken, endpoint, s.opts.httpClient())
	if err != nil {
		return fmt.Errorf("failed to connect telegram bot: %w", err)
	}

	if _, err := bot.Send(tgbotapi.NewMessage(s.config.ChatID, msg.Text())); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}
