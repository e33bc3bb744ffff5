package memory

import (
	"context"
	"sort"

	"github.com/Beka01247/smart-stock/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImportTaskRepository struct {
	storage *Storage
}

func (r *ImportTaskRepository) Create(ctx context.Context, task *domain.ImportTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	task.CreatedAt = r.storage.timestamp()
	task.UpdatedAt = task.CreatedAt
	r.storage.tasks[task.ID] = *task

	return nil
}

func (r *ImportTaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ImportTask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.storage.mu.RLock()
	defer r.storage.mu.RUnlock()

	task, ok := r.storage.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	return &task, nil
}

func (r *ImportTaskRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ImportTaskStatus, errorMsg string) error {
	return r.update(ctx, id, func(task *domain.ImportTask) {
		task.Status = status
		if errorMsg != "" {
			task.ErrorMessage = errorMsg
		}
	})
}

func (r *ImportTaskRepository) Complete(ctx context.Context, id primitive.ObjectID, imported int) error {
	return r.update(ctx, id, func(task *domain.ImportTask) {
		task.Status = domain.StatusCompleted
		task.Imported = imported
	})
}

func (r *ImportTaskRepository) IncrementRetryCount(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, func(task *domain.ImportTask) {
		task.RetryCount++
	})
}

func (r *ImportTaskRepository) update(ctx context.Context, id primitive.ObjectID, fn func(*domain.ImportTask)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()

	task, ok := r.storage.tasks[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&task)
	task.UpdatedAt = r.storage.timestamp()
	r.storage.tasks[id] = task

	return nil
}

type StockAuditRepository struct {
	storage *Storage
}

func (r *StockAuditRepository) Create(ctx context.Context, audit *domain.StockAudit) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.storage.mu.Lock()
	defer r.storage.mu.Unlock()

	if audit.ID.IsZero() {
		audit.ID = primitive.NewObjectID()
	}
	if audit.Timestamp.IsZero() {
		audit.Timestamp = r.storage.timestamp()
	}
	r.storage.audits = append(r.storage.audits, *audit)

	return nil
}

func (r *StockAuditRepository) ListByItem(ctx context.Context, owner, itemID string, limit int) ([]domain.StockAudit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.storage.mu.RLock()
	audits := make([]domain.StockAudit, 0)
	for i := len(r.storage.audits) - 1; i >= 0; i-- {
		audit := r.storage.audits[i]
		if audit.OwnerID == owner && audit.InventoryItemID == itemID {
			audits = append(audits, audit)
		}
	}
	r.storage.mu.RUnlock()

	sort.SliceStable(audits, func(i, j int) bool {
		return audits[i].Timestamp.After(audits[j].Timestamp)
	})

	if limit > 0 && len(audits) > limit {
		audits = audits[:limit]
	}

	return audits, nil
}
