package repo

import (
	"context"

	"github.com/Beka01247/smart-stock/internal/domain"
)

type StockAuditRepository interface {
	Create(ctx context.Context, audit *domain.StockAudit) error
	ListByItem(ctx context.Context, owner, itemID string, limit int) ([]domain.StockAudit, error)
}
