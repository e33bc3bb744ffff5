package domain

// Ingredient copies the inventory item id and its display name.
type Ingredient struct {
	InventoryItemID string  `bson:"inventoryItemId,omitempty" json:"inventoryItemId,omitempty"`
	Name            string  `bson:"name" json:"name" validate:"required"`
	Quantity        float64 `bson:"quantity" json:"quantity" validate:"gt=0"`
	Unit            string  `bson:"unit,omitempty" json:"unit,omitempty"`
}

type MenuItem struct {
	Meta        `bson:",inline"`
	Name        string       `bson:"name" json:"name" validate:"required,max=200"`
	Category    string       `bson:"category" json:"category"`
	Price       float64      `bson:"price" json:"price" validate:"gte=0"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Ingredients []Ingredient `bson:"ingredients" json:"ingredients" validate:"dive"`
}

type MenuItemPatch struct {
	Name        *string       `bson:"name,omitempty" json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category    *string       `bson:"category,omitempty" json:"category,omitempty"`
	Price       *float64      `bson:"price,omitempty" json:"price,omitempty" validate:"omitempty,gte=0"`
	Description *string       `bson:"description,omitempty" json:"description,omitempty"`
	Ingredients *[]Ingredient `bson:"ingredients,omitempty" json:"ingredients,omitempty" validate:"omitempty,dive"`
}
