package domain

type InventoryItem struct {
	Meta         `bson:",inline"`
	Name         string  `bson:"name" json:"name" validate:"required,max=200"`
	Category     string  `bson:"category" json:"category"`
	Unit         string  `bson:"unit" json:"unit"`
	CurrentStock float64 `bson:"currentStock" json:"currentStock" validate:"gte=0"`
	MinStock     float64 `bson:"minStock" json:"minStock" validate:"gte=0"`
	PackSize     float64 `bson:"packSize" json:"packSize" validate:"gte=0"`
	UnitCost     float64 `bson:"unitCost" json:"unitCost" validate:"gte=0"`
	SupplierID   string  `bson:"supplierId,omitempty" json:"supplierId,omitempty"`
	SupplierName string  `bson:"supplierName,omitempty" json:"supplierName,omitempty"`
}

type InventoryPatch struct {
	Name         *string  `bson:"name,omitempty" json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category     *string  `bson:"category,omitempty" json:"category,omitempty"`
	Unit         *string  `bson:"unit,omitempty" json:"unit,omitempty"`
	CurrentStock *float64 `bson:"currentStock,omitempty" json:"currentStock,omitempty" validate:"omitempty,gte=0"`
	MinStock     *float64 `bson:"minStock,omitempty" json:"minStock,omitempty" validate:"omitempty,gte=0"`
	PackSize     *float64 `bson:"packSize,omitempty" json:"packSize,omitempty" validate:"omitempty,gte=0"`
	UnitCost     *float64 `bson:"unitCost,omitempty" json:"unitCost,omitempty" validate:"omitempty,gte=0"`
	SupplierID   *string  `bson:"supplierId,omitempty" json:"supplierId,omitempty"`
	SupplierName *string  `bson:"supplierName,omitempty" json:"supplierName,omitempty"`
}
