package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/queue"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TaskProcessor runs one queued sales import.
type TaskProcessor interface {
	ProcessTask(ctx context.Context, taskID primitive.ObjectID) error
}

type SalesImportWorker struct {
	imports TaskProcessor
	broker  queue.Broker
	logger  *zap.SugaredLogger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewSalesImportWorker(
	imports TaskProcessor,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *SalesImportWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &SalesImportWorker{
		imports: imports,
		broker:  broker,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (w *SalesImportWorker) Start() error {
	w.logger.Info("starting sales import worker")

	return w.broker.Subscribe(w.ctx, queue.QueueSalesImport, w.handleMessage)
}

func (w *SalesImportWorker) Stop() {
	w.logger.Info("stopping sales import worker")
	w.cancel()
}

func (w *SalesImportWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.SalesImportMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal message", "error", err)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	w.logger.Infow("processing sales import message", "task_id", msg.TaskID)

	taskID, err := primitive.ObjectIDFromHex(msg.TaskID)
	if err != nil {
		w.logger.Errorw("invalid task ID", "task_id", msg.TaskID, "error", err)
		return fmt.Errorf("invalid task ID: %w", err)
	}

	if err := w.imports.ProcessTask(ctx, taskID); err != nil {
		w.logger.Errorw("failed to process import task", "task_id", msg.TaskID, "error", err)
		return err
	}

	return nil
}
