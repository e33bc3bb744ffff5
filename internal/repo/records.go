package repo

import (
	"context"

	"github.com/Beka01247/smart-stock/internal/domain"
)

// RecordRepository stores owner-partitioned records of one collection.
// Every call is scoped to owner; records of other owners behave as absent.
type RecordRepository[T any] interface {
	Create(ctx context.Context, record *T) error
	ListByOwner(ctx context.Context, owner string) ([]T, error)
	GetByID(ctx context.Context, owner, id string) (*T, error)
	UpdateByID(ctx context.Context, owner, id string, patch any) (*T, error)
	DeleteByID(ctx context.Context, owner, id string) error
}

type Repositories struct {
	Inventory      RecordRepository[domain.InventoryItem]
	Suppliers      RecordRepository[domain.Supplier]
	MenuItems      RecordRepository[domain.MenuItem]
	Sales          RecordRepository[domain.SalesRecord]
	OrderTemplates RecordRepository[domain.OrderTemplate]
	SupplierOrders RecordRepository[domain.SupplierOrder]
	Integrations   RecordRepository[domain.IntegrationSetting]
	ImportTasks    ImportTaskRepository
	StockAudit     StockAuditRepository
}
