package domain

// SalesRecord is one row of sales: how much of an item sold on a day.
// Date is kept as YYYY-MM-DD so records sort lexically.
type SalesRecord struct {
	Meta     `bson:",inline"`
	Date     string  `bson:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Item     string  `bson:"item" json:"item" validate:"required"`
	Quantity float64 `bson:"quantity" json:"quantity" validate:"gte=0"`
	Revenue  float64 `bson:"revenue" json:"revenue" validate:"gte=0"`
	Source   string  `bson:"source,omitempty" json:"source,omitempty"`
}

type SalesPatch struct {
	Date     *string  `bson:"date,omitempty" json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Item     *string  `bson:"item,omitempty" json:"item,omitempty" validate:"omitempty,min=1"`
	Quantity *float64 `bson:"quantity,omitempty" json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Revenue  *float64 `bson:"revenue,omitempty" json:"revenue,omitempty" validate:"omitempty,gte=0"`
}
