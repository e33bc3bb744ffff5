package analytics

import (
	"testing"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func inventoryItem(name string, current, min, unitCost float64) domain.InventoryItem {
	item := domain.InventoryItem{
		Name:         name,
		Category:     "produce",
		Unit:         "kg",
		CurrentStock: current,
		MinStock:     min,
		UnitCost:     unitCost,
	}
	item.ID = primitive.NewObjectID()
	return item
}

func TestStockStatus(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		min     float64
		want    Status
	}{
		{"empty", 0, 5, StatusOutOfStock},
		{"negative", -1, 5, StatusOutOfStock},
		{"at minimum", 5, 5, StatusLow},
		{"below minimum", 2, 5, StatusLow},
		{"healthy", 6, 5, StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StockStatus(inventoryItem("x", tt.current, tt.min, 1))
			if got != tt.want {
				t.Errorf("StockStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarizeInventory(t *testing.T) {
	items := []domain.InventoryItem{
		inventoryItem("Tomatoes", 10, 5, 2.5),
		inventoryItem("Basil", 1, 2, 12.1),
		inventoryItem("Flour", 0, 10, 0.8),
	}
	items[2].Category = ""

	sum := SummarizeInventory(items)

	if sum.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", sum.TotalItems)
	}
	// 10*2.5 + 1*12.1
	if sum.TotalValue != 37.1 {
		t.Errorf("TotalValue = %v, want 37.1", sum.TotalValue)
	}
	if sum.OKCount != 1 || sum.LowStockCount != 1 || sum.OutOfStockCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", sum.OKCount, sum.LowStockCount, sum.OutOfStockCount)
	}
	if sum.Categories["produce"] != 2 || sum.Categories["uncategorized"] != 1 {
		t.Errorf("Categories = %v", sum.Categories)
	}
	if len(sum.LowStock) != 2 {
		t.Fatalf("LowStock len = %d, want 2", len(sum.LowStock))
	}
	if sum.LowStock[0].Name != "Flour" || sum.LowStock[1].Name != "Basil" {
		t.Errorf("LowStock order = %s, %s", sum.LowStock[0].Name, sum.LowStock[1].Name)
	}
}

func TestSummarizeInventoryEmpty(t *testing.T) {
	sum := SummarizeInventory(nil)
	if sum.LowStock == nil || sum.Categories == nil {
		t.Error("expected non-nil collections")
	}
	if sum.TotalValue != 0 {
		t.Errorf("TotalValue = %v, want 0", sum.TotalValue)
	}
}

func TestCostMenu(t *testing.T) {
	tomatoes := inventoryItem("Tomatoes", 10, 5, 2.5)
	mozzarella := inventoryItem("Mozzarella", 10, 5, 8)

	menu := []domain.MenuItem{
		{
			Name:  "Margherita",
			Price: 12,
			Ingredients: []domain.Ingredient{
				{InventoryItemID: tomatoes.ID.Hex(), Name: "tomato", Quantity: 0.2},
				{Name: " MOZZARELLA ", Quantity: 0.25},
				{Name: "Love", Quantity: 1},
			},
		},
		{Name: "Water", Price: 0},
	}

	got := CostMenu(menu, []domain.InventoryItem{tomatoes, mozzarella})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	pizza := got[0]
	// 0.2*2.5 + 0.25*8
	if pizza.Cost != 2.5 {
		t.Errorf("Cost = %v, want 2.5", pizza.Cost)
	}
	if pizza.Profit != 9.5 {
		t.Errorf("Profit = %v, want 9.5", pizza.Profit)
	}
	if pizza.MarginPercent != 79.17 {
		t.Errorf("MarginPercent = %v, want 79.17", pizza.MarginPercent)
	}
	if !pizza.Ingredients[1].Matched || pizza.Ingredients[1].InventoryItemID != mozzarella.ID.Hex() {
		t.Errorf("mozzarella not matched by name: %+v", pizza.Ingredients[1])
	}
	if pizza.Ingredients[2].Matched || pizza.Ingredients[2].Cost != 0 {
		t.Errorf("unknown ingredient should cost nothing: %+v", pizza.Ingredients[2])
	}

	if got[1].MarginPercent != 0 {
		t.Errorf("zero price margin = %v, want 0", got[1].MarginPercent)
	}
}

func TestSummarizeSales(t *testing.T) {
	records := []domain.SalesRecord{
		{Date: "2024-01-02", Item: "Pizza", Quantity: 3, Revenue: 36},
		{Date: "2024-01-01", Item: "Pizza", Quantity: 2, Revenue: 24},
		{Date: "2024-01-01", Item: "Salad", Quantity: 4, Revenue: 30.1},
	}

	sum := SummarizeSales(records)

	if sum.Records != 3 {
		t.Errorf("Records = %d, want 3", sum.Records)
	}
	if sum.TotalRevenue != 90.1 || sum.TotalQuantity != 9 {
		t.Errorf("totals = %v/%v, want 90.1/9", sum.TotalRevenue, sum.TotalQuantity)
	}
	if sum.From != "2024-01-01" || sum.To != "2024-01-02" {
		t.Errorf("range = %s..%s", sum.From, sum.To)
	}
	if sum.AverageDailyRevenue != 45.05 {
		t.Errorf("AverageDailyRevenue = %v, want 45.05", sum.AverageDailyRevenue)
	}
	if len(sum.Items) != 2 || sum.Items[0].Item != "Pizza" || sum.Items[0].Revenue != 60 {
		t.Errorf("Items = %+v", sum.Items)
	}
	if len(sum.Days) != 2 || sum.Days[0].Date != "2024-01-01" || sum.Days[0].Revenue != 54.1 {
		t.Errorf("Days = %+v", sum.Days)
	}
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	d := BuildDashboard(
		[]domain.InventoryItem{inventoryItem("Tomatoes", 1, 5, 2)},
		[]domain.MenuItem{{Name: "Soup", Price: 5}},
		[]domain.SalesRecord{{Date: "2024-01-02", Item: "Soup", Quantity: 1, Revenue: 5}},
		now,
	)
	if d.Inventory.LowStockCount != 1 || len(d.Menu) != 1 || d.Sales.TotalRevenue != 5 {
		t.Errorf("unexpected dashboard: %+v", d)
	}
	if !d.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v", d.GeneratedAt)
	}
}
