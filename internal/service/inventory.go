package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Beka01247/smart-stock/internal/analytics"
	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/repo"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// Inventory is the inventory CRUD service. Every change of an item's
// current stock is written to the stock audit, and an item dropping to low
// stock raises a notification.
type Inventory struct {
	*Records[domain.InventoryItem, *domain.InventoryItem]
	audits   repo.StockAuditRepository
	notifier Notifier
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewInventory(items repo.RecordRepository[domain.InventoryItem], audits repo.StockAuditRepository, notifier Notifier, logger *zap.SugaredLogger) *Inventory {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Inventory{
		Records:  NewRecords[domain.InventoryItem](domain.CollectionInventory, items, shapeInventoryItem, logger),
		audits:   audits,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func shapeInventoryItem(item *domain.InventoryItem) {
	if item.Category == "" {
		item.Category = "uncategorized"
	}
}

// Update patches an item with the reason "manual".
func (s *Inventory) Update(ctx context.Context, owner, id string, patch *domain.InventoryPatch) (*domain.InventoryItem, error) {
	return s.update(ctx, owner, id, patch, domain.AuditReasonManual)
}

// SetStock records a stock count with a caller-supplied reason.
func (s *Inventory) SetStock(ctx context.Context, owner, id string, stock float64, reason string) (*domain.InventoryItem, error) {
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}
	if reason == "" {
		reason = domain.AuditReasonManual
	}
	return s.update(ctx, owner, id, &domain.InventoryPatch{CurrentStock: &stock}, reason)
}

func (s *Inventory) update(ctx context.Context, owner, id string, patch *domain.InventoryPatch, reason string) (*domain.InventoryItem, error) {
	var before *domain.InventoryItem
	if patch != nil && patch.CurrentStock != nil {
		var err error
		if before, err = s.Get(ctx, owner, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.Records.Update(ctx, owner, id, patch)
	if err != nil {
		return nil, err
	}
	if before == nil || before.CurrentStock == updated.CurrentStock {
		return updated, nil
	}

	audit := &domain.StockAudit{
		OwnerID:         owner,
		InventoryItemID: id,
		Name:            updated.Name,
		OldStock:        before.CurrentStock,
		NewStock:        updated.CurrentStock,
		Reason:          reason,
		Timestamp:       s.now().UTC(),
	}
	if err := s.audits.Create(ctx, audit); err != nil {
		// the stock change itself is already stored
		s.logger.Errorw("failed to create stock audit", "item_id", id, "error", err)
	}

	s.alertLowStock(ctx, owner, *before, *updated)
	return updated, nil
}

func (s *Inventory) alertLowStock(ctx context.Context, owner string, before, after domain.InventoryItem) {
	status := analytics.StockStatus(after)
	if status == analytics.StatusOK || status == analytics.StockStatus(before) {
		return
	}

	subject := fmt.Sprintf("Low stock: %s", after.Name)
	if status == analytics.StatusOutOfStock {
		subject = fmt.Sprintf("Out of stock: %s", after.Name)
	}
	body := fmt.Sprintf("%s is at %g %s (minimum %g %s).", after.Name, after.CurrentStock, after.Unit, after.MinStock, after.Unit)

	if err := s.notifier.Notify(ctx, owner, domain.EventLowStock, subject, body); err != nil {
		s.logger.Warnw("failed to queue low stock notification", "item_id", after.ID.Hex(), "error", err)
	}
}

// History lists the item's stock changes, newest first.
func (s *Inventory) History(ctx context.Context, owner, id string, limit int) ([]domain.StockAudit, error) {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	audits, err := s.audits.ListByItem(ctx, owner, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock history: %w", err)
	}
	return audits, nil
}
