package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("record not found")

// Meta is embedded in every owner-partitioned record.
type Meta struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (m *Meta) Metadata() *Meta {
	return m
}

// Record is satisfied by pointers to every stored record type.
type Record[T any] interface {
	*T
	Metadata() *Meta
}

// Collection names and the field each collection is listed by.
const (
	CollectionInventory           = "inventory"
	CollectionSuppliers           = "suppliers"
	CollectionMenuItems           = "menuItems"
	CollectionSales               = "sales"
	CollectionOrderTemplates      = "orderTemplates"
	CollectionSupplierOrders      = "supplierOrders"
	CollectionIntegrationSettings = "integrationSettings"
	CollectionImportTasks         = "importTasks"
)

// Ordering names the field a collection is listed by.
type Ordering struct {
	Field      string
	Descending bool
}

var CollectionOrdering = map[string]Ordering{
	CollectionInventory:           {Field: "name"},
	CollectionSuppliers:           {Field: "name"},
	CollectionMenuItems:           {Field: "name"},
	CollectionSales:               {Field: "date", Descending: true},
	CollectionOrderTemplates:      {Field: "supplierName"},
	CollectionSupplierOrders:      {Field: "createdAt", Descending: true},
	CollectionIntegrationSettings: {Field: "kind"},
}
