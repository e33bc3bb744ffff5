package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/notify"
	"github.com/Beka01247/smart-stock/internal/queue"
	"go.uber.org/zap"
)

// MessageProcessor delivers one queued notification.
type MessageProcessor interface {
	Process(ctx context.Context, message domain.NotificationMessage) ([]notify.Result, error)
}

type NotificationWorker struct {
	notifications MessageProcessor
	broker        queue.Broker
	logger        *zap.SugaredLogger
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewNotificationWorker(
	notifications MessageProcessor,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *NotificationWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &NotificationWorker{
		notifications: notifications,
		broker:        broker,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (w *NotificationWorker) Start() error {
	w.logger.Info("starting notification worker")

	return w.broker.Subscribe(w.ctx, queue.QueueNotifications, w.handleMessage)
}

func (w *NotificationWorker) Stop() {
	w.logger.Info("stopping notification worker")
	w.cancel()
}

func (w *NotificationWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.NotificationMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal notification", "error", err)
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	w.logger.Infow("processing notification", "event", msg.Event, "user_id", msg.OwnerID)

	results, err := w.notifications.Process(ctx, msg)
	if err != nil {
		w.logger.Errorw("failed to deliver notification", "event", msg.Event, "user_id", msg.OwnerID, "error", err)
		return err
	}

	w.logger.Infow("notification processed", "event", msg.Event, "channels", len(results))
	return nil
}
