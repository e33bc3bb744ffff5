package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CollectionStockAudit = "stockAudit"

const AuditReasonManual = "manual"

// StockAudit records one change of an inventory item's current stock.
type StockAudit struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID         string             `bson:"userId" json:"userId"`
	InventoryItemID string             `bson:"inventoryItemId" json:"inventoryItemId"`
	Name            string             `bson:"name" json:"name"`
	OldStock        float64            `bson:"oldStock" json:"oldStock"`
	NewStock        float64            `bson:"newStock" json:"newStock"`
	Reason          string             `bson:"reason" json:"reason"`
	Timestamp       time.Time          `bson:"timestamp" json:"timestamp"`
}
