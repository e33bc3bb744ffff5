package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Beka01247/smart-stock/internal/analytics"
	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/parser"
	"github.com/Beka01247/smart-stock/internal/queue"
	"github.com/Beka01247/smart-stock/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SalesSource reads sales rows from a spreadsheet.
type SalesSource interface {
	ParseSales(ctx context.Context, spreadsheetID, readRange string) ([]domain.SalesRecord, error)
}

type Importing struct {
	tasks    repo.ImportTaskRepository
	sales    repo.RecordRepository[domain.SalesRecord]
	source   SalesSource
	broker   queue.Broker
	notifier Notifier
	logger   *zap.SugaredLogger
}

// NewImporting builds the import service. source may be nil when no
// spreadsheet credentials are configured; CSV uploads still work.
func NewImporting(
	tasks repo.ImportTaskRepository,
	sales repo.RecordRepository[domain.SalesRecord],
	source SalesSource,
	broker queue.Broker,
	notifier Notifier,
	logger *zap.SugaredLogger,
) *Importing {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Importing{
		tasks:    tasks,
		sales:    sales,
		source:   source,
		broker:   broker,
		notifier: notifier,
		logger:   logger,
	}
}

// Enabled reports whether spreadsheet imports can run.
func (s *Importing) Enabled() bool {
	return s.source != nil
}

func (s *Importing) CreateTask(ctx context.Context, owner, spreadsheetID, readRange string) (*domain.ImportTask, error) {
	if s.source == nil {
		return nil, ErrImportUnavailable
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet_id is required", ErrInvalidInput)
	}
	if readRange == "" {
		readRange = parser.DefaultRange
	}

	task := &domain.ImportTask{
		OwnerID:       owner,
		Status:        domain.StatusQueued,
		SpreadsheetID: spreadsheetID,
		Range:         readRange,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create import task: %w", err)
	}

	messageBytes, err := json.Marshal(domain.SalesImportMessage{TaskID: task.ID.Hex()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueSalesImport, messageBytes); err != nil {
		_ = s.tasks.UpdateStatus(ctx, task.ID, domain.StatusFailed, err.Error())
		return nil, fmt.Errorf("failed to publish message: %w", err)
	}

	s.logger.Infow("import task created", "task_id", task.ID.Hex(), "spreadsheet_id", spreadsheetID)
	return task, nil
}

// Task returns the owner's import task. Tasks of other owners are not found.
func (s *Importing) Task(ctx context.Context, owner, id string) (*domain.ImportTask, error) {
	taskID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != owner {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

// ProcessTask runs a queued import. A redelivered task that already
// completed is skipped.
func (s *Importing) ProcessTask(ctx context.Context, taskID primitive.ObjectID) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	switch task.Status {
	case domain.StatusCompleted:
		s.logger.Infow("import task already completed", "task_id", taskID.Hex())
		return nil
	case domain.StatusProcessing, domain.StatusFailed:
		if err := s.tasks.IncrementRetryCount(ctx, taskID); err != nil {
			return fmt.Errorf("failed to increment retry count: %w", err)
		}
	}

	if err := s.tasks.UpdateStatus(ctx, taskID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Infow("processing import task", "task_id", taskID.Hex())

	if s.source == nil {
		return s.fail(ctx, task, ErrImportUnavailable)
	}

	records, err := s.source.ParseSales(ctx, task.SpreadsheetID, task.Range)
	if err != nil {
		return s.fail(ctx, task, fmt.Errorf("failed to parse sales: %w", err))
	}

	imported, err := s.store(ctx, task.OwnerID, records)
	if err != nil {
		return s.fail(ctx, task, err)
	}

	if err := s.tasks.Complete(ctx, taskID, imported); err != nil {
		s.logger.Errorw("failed to complete task", "task_id", taskID.Hex(), "error", err)
		return fmt.Errorf("failed to complete task: %w", err)
	}

	s.logger.Infow("import task completed", "task_id", taskID.Hex(), "imported", imported)

	subject := "Sales import completed"
	body := fmt.Sprintf("Imported %d sales records from spreadsheet %s.", imported, task.SpreadsheetID)
	if err := s.notifier.Notify(ctx, task.OwnerID, domain.EventImportCompleted, subject, body); err != nil {
		s.logger.Warnw("failed to queue import notification", "task_id", taskID.Hex(), "error", err)
	}
	return nil
}

func (s *Importing) fail(ctx context.Context, task *domain.ImportTask, cause error) error {
	s.logger.Errorw("import task failed", "task_id", task.ID.Hex(), "error", cause)
	_ = s.tasks.UpdateStatus(ctx, task.ID, domain.StatusFailed, cause.Error())

	body := fmt.Sprintf("Importing spreadsheet %s failed: %v", task.SpreadsheetID, cause)
	if err := s.notifier.Notify(ctx, task.OwnerID, domain.EventImportFailed, "Sales import failed", body); err != nil {
		s.logger.Warnw("failed to queue import notification", "task_id", task.ID.Hex(), "error", err)
	}
	return cause
}

type CSVImport struct {
	Imported int                    `json:"imported"`
	Summary  analytics.SalesSummary `json:"summary"`
}

// ImportCSV stores the sales rows of an uploaded file directly.
func (s *Importing) ImportCSV(ctx context.Context, owner string, r io.Reader) (*CSVImport, error) {
	records, err := parser.ParseSalesCSV(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	imported, err := s.store(ctx, owner, records)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("csv sales imported", "user_id", owner, "imported", imported)
	return &CSVImport{Imported: imported, Summary: analytics.SummarizeSales(records)}, nil
}

func (s *Importing) store(ctx context.Context, owner string, records []domain.SalesRecord) (int, error) {
	for i := range records {
		records[i].OwnerID = owner
		if err := s.sales.Create(ctx, &records[i]); err != nil {
			return i, fmt.Errorf("failed to save sales record %d: %w", i+1, err)
		}
	}
	return len(records), nil
}
