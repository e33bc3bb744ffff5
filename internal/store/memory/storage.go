// Package memory is an in-process store with the same semantics as the
// mongo store. It backs the server when no MONGO_URI is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Storage struct {
	mu          sync.RWMutex
	collections map[string]map[primitive.ObjectID]bson.Raw
	tasks       map[primitive.ObjectID]domain.ImportTask
	audits      []domain.StockAudit
	now         func() time.Time
}

func New() *Storage {
	return &Storage{
		collections: make(map[string]map[primitive.ObjectID]bson.Raw),
		tasks:       make(map[primitive.ObjectID]domain.ImportTask),
		now:         time.Now,
	}
}

func (s *Storage) Ping(context.Context) error {
	return nil
}

func (s *Storage) Close(context.Context) error {
	return nil
}

func (s *Storage) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Storage) Repositories() repo.Repositories {
	return repo.Repositories{
		Inventory:      NewRecordRepository[domain.InventoryItem](s, domain.CollectionInventory),
		Suppliers:      NewRecordRepository[domain.Supplier](s, domain.CollectionSuppliers),
		MenuItems:      NewRecordRepository[domain.MenuItem](s, domain.CollectionMenuItems),
		Sales:          NewRecordRepository[domain.SalesRecord](s, domain.CollectionSales),
		OrderTemplates: NewRecordRepository[domain.OrderTemplate](s, domain.CollectionOrderTemplates),
		SupplierOrders: NewRecordRepository[domain.SupplierOrder](s, domain.CollectionSupplierOrders),
		Integrations:   NewRecordRepository[domain.IntegrationSetting](s, domain.CollectionIntegrationSettings),
		ImportTasks:    &ImportTaskRepository{storage: s},
		StockAudit:     &StockAuditRepository{storage: s},
	}
}
