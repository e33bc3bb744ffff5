package mongo

import (
	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/repo"
)

// Repositories builds every repository over the storage database.
func (s *Storage) Repositories() repo.Repositories {
	db := s.Database()

	return repo.Repositories{
		Inventory:      NewRecordRepository[domain.InventoryItem](db, domain.CollectionInventory),
		Suppliers:      NewRecordRepository[domain.Supplier](db, domain.CollectionSuppliers),
		MenuItems:      NewRecordRepository[domain.MenuItem](db, domain.CollectionMenuItems),
		Sales:          NewRecordRepository[domain.SalesRecord](db, domain.CollectionSales),
		OrderTemplates: NewRecordRepository[domain.OrderTemplate](db, domain.CollectionOrderTemplates),
		SupplierOrders: NewRecordRepository[domain.SupplierOrder](db, domain.CollectionSupplierOrders),
		Integrations:   NewRecordRepository[domain.IntegrationSetting](db, domain.CollectionIntegrationSettings),
		ImportTasks:    NewImportTaskRepository(db),
		StockAudit:     NewStockAuditRepository(db),
	}
}
