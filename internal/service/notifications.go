package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/notify"
	"github.com/Beka01247/smart-stock/internal/queue"
	"github.com/Beka01247/smart-stock/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var ErrNoChannelDelivered = errors.New("no notification channel accepted the message")

type Notifications struct {
	settings   repo.RecordRepository[domain.IntegrationSetting]
	broker     queue.Broker
	dispatcher *notify.Dispatcher
	opts       notify.Options
	logger     *zap.SugaredLogger
	now        func() time.Time
}

func NewNotifications(
	settings repo.RecordRepository[domain.IntegrationSetting],
	broker queue.Broker,
	opts notify.Options,
	logger *zap.SugaredLogger,
) *Notifications {
	return &Notifications{
		settings:   settings,
		broker:     broker,
		dispatcher: notify.NewDispatcher(opts),
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Notify queues a message; the notification worker delivers it.
func (s *Notifications) Notify(ctx context.Context, owner, event, subject, body string) error {
	message := domain.NotificationMessage{
		Event:     event,
		OwnerID:   owner,
		Subject:   subject,
		Body:      body,
		Timestamp: s.now().UTC(),
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueNotifications, messageBytes); err != nil {
		s.logger.Errorw("failed to publish notification", "event", event, "user_id", owner, "error", err)
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	s.logger.Infow("notification queued", "event", event, "user_id", owner)
	return nil
}

// Process delivers a queued message to every enabled channel of its owner.
// It fails only when channels exist and none of them accepted the message,
// so that the broker retries it.
func (s *Notifications) Process(ctx context.Context, message domain.NotificationMessage) ([]notify.Result, error) {
	configs, err := s.enabledConfigs(ctx, message.OwnerID)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		s.logger.Infow("no notification channels enabled", "event", message.Event, "user_id", message.OwnerID)
		return []notify.Result{}, nil
	}

	results := s.dispatcher.Dispatch(ctx, configs, notify.Message{Subject: message.Subject, Body: message.Body})

	delivered := 0
	for _, r := range results {
		if r.Success {
			delivered++
			continue
		}
		s.logger.Warnw("notification channel failed", "kind", r.Kind, "event", message.Event, "error", r.Error)
	}
	if delivered == 0 {
		return results, ErrNoChannelDelivered
	}

	s.logger.Infow("notification delivered", "event", message.Event, "user_id", message.OwnerID, "channels", delivered)
	return results, nil
}

func (s *Notifications) enabledConfigs(ctx context.Context, owner string) ([]notify.Config, error) {
	settings, err := s.settings.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load integration settings: %w", err)
	}

	configs := make([]notify.Config, 0, len(settings))
	for _, setting := range settings {
		if !setting.Enabled {
			continue
		}
		cfg, err := notify.ConfigFromSetting(setting)
		if err != nil {
			s.logger.Warnw("skipping invalid integration setting", "id", setting.ID.Hex(), "error", err)
			continue
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// Test sends the test message synchronously over one channel.
func (s *Notifications) Test(ctx context.Context, cfg notify.Config) notify.Result {
	result := notify.Result{Kind: cfg.Kind()}

	err := cfg.Validate()
	var sender notify.Sender
	if err == nil {
		sender, err = notify.NewSender(cfg, s.opts)
	}
	if err == nil {
		err = sender.Send(ctx, notify.TestMessage)
	}
	if err != nil {
		s.logger.Warnw("integration test failed", "kind", cfg.Kind(), "error", err)
		result.Error = err.Error()
		return result
	}

	result.Success = true
	return result
}

func (s *Notifications) Settings(ctx context.Context, owner string) ([]domain.IntegrationSetting, error) {
	return s.settings.ListByOwner(ctx, owner)
}

// SaveSetting stores the owner's setting of a kind, replacing the one
// already there.
func (s *Notifications) SaveSetting(ctx context.Context, owner string, setting *domain.IntegrationSetting) (*domain.IntegrationSetting, error) {
	if err := setting.CheckTag(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := Validate.Struct(setting); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := s.settings.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load integration settings: %w", err)
	}
	for _, e := range existing {
		if e.Kind != setting.Kind {
			continue
		}
		patch := bson.M{
			"enabled":           setting.Enabled,
			string(setting.Kind): settingPayload(setting),
		}
		updated, err := s.settings.UpdateByID(ctx, owner, e.ID.Hex(), patch)
		if err != nil {
			return nil, err
		}
		s.logger.Infow("integration setting updated", "kind", setting.Kind, "user_id", owner)
		return updated, nil
	}

	setting.OwnerID = owner
	if err := s.settings.Create(ctx, setting); err != nil {
		return nil, err
	}
	s.logger.Infow("integration setting created", "kind", setting.Kind, "user_id", owner)
	return setting, nil
}

func settingPayload(s *domain.IntegrationSetting) any {
	switch s.Kind {
	case domain.IntegrationGmail:
		return s.Gmail
	case domain.IntegrationSlack:
		return s.Slack
	case domain.IntegrationSMS:
		return s.SMS
	case domain.IntegrationTelegram:
		return s.Telegram
	}
	return nil
}

func (s *Notifications) DeleteSetting(ctx context.Context, owner, id string) error {
	return s.settings.DeleteByID(ctx, owner, id)
}
