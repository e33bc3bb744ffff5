package domain

type OrderItem struct {
	Name     string  `bson:"name" json:"name" validate:"required"`
	SKU      string  `bson:"sku,omitempty" json:"sku,omitempty"`
	Quantity float64 `bson:"quantity" json:"quantity" validate:"gt=0"`
	Unit     string  `bson:"unit,omitempty" json:"unit,omitempty"`
	Price    float64 `bson:"price" json:"price" validate:"gte=0"`
}

type OrderTemplate struct {
	Meta                  `bson:",inline"`
	SupplierID            string      `bson:"supplierId" json:"supplierId" validate:"required"`
	SupplierName          string      `bson:"supplierName" json:"supplierName"`
	Items                 []OrderItem `bson:"items" json:"items" validate:"required,min=1,dive"`
	Notes                 string      `bson:"notes,omitempty" json:"notes,omitempty"`
	PreferredDeliveryDays []string    `bson:"preferredDeliveryDays,omitempty" json:"preferredDeliveryDays,omitempty"`
	MinimumOrderValue     float64     `bson:"minimumOrderValue" json:"minimumOrderValue" validate:"gte=0"`
}

type OrderTemplatePatch struct {
	SupplierID            *string      `bson:"supplierId,omitempty" json:"supplierId,omitempty" validate:"omitempty,min=1"`
	SupplierName          *string      `bson:"supplierName,omitempty" json:"supplierName,omitempty"`
	Items                 *[]OrderItem `bson:"items,omitempty" json:"items,omitempty" validate:"omitempty,min=1,dive"`
	Notes                 *string      `bson:"notes,omitempty" json:"notes,omitempty"`
	PreferredDeliveryDays *[]string    `bson:"preferredDeliveryDays,omitempty" json:"preferredDeliveryDays,omitempty"`
	MinimumOrderValue     *float64     `bson:"minimumOrderValue,omitempty" json:"minimumOrderValue,omitempty" validate:"omitempty,gte=0"`
}

type SupplierOrderStatus string

const (
	OrderPending     SupplierOrderStatus = "pending"
	OrderSubmitted   SupplierOrderStatus = "submitted"
	OrderSentViaAPI  SupplierOrderStatus = "sent_via_api"
	OrderOfflineMode SupplierOrderStatus = "offline"
	OrderConfirmed   SupplierOrderStatus = "confirmed"
	OrderDelivered   SupplierOrderStatus = "delivered"
	OrderCancelled   SupplierOrderStatus = "cancelled"
)

// Open reports whether the supplier has not yet confirmed the order.
func (s SupplierOrderStatus) Open() bool {
	switch s {
	case OrderPending, OrderSubmitted, OrderSentViaAPI, OrderOfflineMode:
		return true
	}
	return false
}

// CanBecome reports whether an order in status s may move to next. Open
// orders may be confirmed, delivered or cancelled; confirmed orders may be
// delivered or cancelled; delivered and cancelled orders are final.
func (s SupplierOrderStatus) CanBecome(next SupplierOrderStatus) bool {
	switch {
	case s == next:
		return true
	case s.Open():
		return next == OrderPending || next == OrderConfirmed || next == OrderDelivered || next == OrderCancelled
	case s == OrderConfirmed:
		return next == OrderDelivered || next == OrderCancelled
	}
	return false
}

// SupplierOrder records an order placed with a supplier.
type SupplierOrder struct {
	Meta            `bson:",inline"`
	OrderID         string              `bson:"orderId" json:"orderId"`
	ExternalOrderID string              `bson:"externalOrderId,omitempty" json:"externalOrderId,omitempty"`
	SupplierID      string              `bson:"supplierId" json:"supplierId"`
	SupplierName    string              `bson:"supplierName" json:"supplierName"`
	Items           []OrderItem         `bson:"items" json:"items"`
	TotalCost       float64             `bson:"totalCost" json:"totalCost"`
	Status          SupplierOrderStatus `bson:"status" json:"status"`
	DeliveryDate    string              `bson:"deliveryDate,omitempty" json:"deliveryDate,omitempty"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Fallback        bool                `bson:"fallback" json:"fallback"`
	Batch           bool                `bson:"batch,omitempty" json:"batch,omitempty"`
}

type SupplierOrderStatusPatch struct {
	Status *SupplierOrderStatus `bson:"status,omitempty" json:"status,omitempty"`
}
