package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOutOfStock Status = "out_of_stock"
	StatusLow        Status = "low"
	StatusOK         Status = "ok"
)

func StockStatus(item domain.InventoryItem) Status {
	switch {
	case item.CurrentStock <= 0:
		return StatusOutOfStock
	case item.CurrentStock <= item.MinStock:
		return StatusLow
	default:
		return StatusOK
	}
}

type LowStockItem struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit,omitempty"`
	CurrentStock float64 `json:"currentStock"`
	MinStock     float64 `json:"minStock"`
	Status       Status  `json:"status"`
}

type InventorySummary struct {
	TotalItems      int            `json:"totalItems"`
	TotalValue      float64        `json:"totalValue"`
	OKCount         int            `json:"okCount"`
	LowStockCount   int            `json:"lowStockCount"`
	OutOfStockCount int            `json:"outOfStockCount"`
	Categories      map[string]int `json:"categories"`
	LowStock        []LowStockItem `json:"lowStock"`
}

// SummarizeInventory values stock at unit cost. LowStock lists every item
// that is not ok, out of stock first.
func SummarizeInventory(items []domain.InventoryItem) InventorySummary {
	sum := InventorySummary{
		TotalItems: len(items),
		Categories: make(map[string]int),
		LowStock:   make([]LowStockItem, 0),
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.CurrentStock).Mul(decimal.NewFromFloat(item.UnitCost)))

		category := item.Category
		if category == "" {
			category = "uncategorized"
		}
		sum.Categories[category]++

		status := StockStatus(item)
		switch status {
		case StatusOutOfStock:
			sum.OutOfStockCount++
		case StatusLow:
			sum.LowStockCount++
		default:
			sum.OKCount++
			continue
		}
		sum.LowStock = append(sum.LowStock, LowStockItem{
			ID:           item.ID.Hex(),
			Name:         item.Name,
			Unit:         item.Unit,
			CurrentStock: item.CurrentStock,
			MinStock:     item.MinStock,
			Status:       status,
		})
	}
	sum.TotalValue = round2(total)

	sort.SliceStable(sum.LowStock, func(i, j int) bool {
		a, b := sum.LowStock[i], sum.LowStock[j]
		if a.Status != b.Status {
			return a.Status == StatusOutOfStock
		}
		return a.Name < b.Name
	})
	return sum
}

type IngredientCost struct {
	Name            string  `json:"name"`
	InventoryItemID string  `json:"inventoryItemId,omitempty"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit,omitempty"`
	UnitCost        float64 `json:"unitCost"`
	Cost            float64 `json:"cost"`
	Matched         bool    `json:"matched"`
}

type MenuCost struct {
	MenuItemID    string           `json:"menuItemId"`
	Name          string           `json:"name"`
	Category      string           `json:"category,omitempty"`
	Price         float64          `json:"price"`
	Cost          float64          `json:"cost"`
	Profit        float64          `json:"profit"`
	MarginPercent float64          `json:"marginPercent"`
	Ingredients   []IngredientCost `json:"ingredients"`
}

// CostMenu prices each recipe from the inventory unit costs. Ingredients
// are matched by inventory id first, then by case-insensitive name; an
// unmatched ingredient costs nothing.
func CostMenu(menu []domain.MenuItem, inventory []domain.InventoryItem) []MenuCost {
	byID := make(map[string]domain.InventoryItem, len(inventory))
	byName := make(map[string]domain.InventoryItem, len(inventory))
	for _, item := range inventory {
		byID[item.ID.Hex()] = item
		if _, ok := byName[normalize(item.Name)]; !ok {
			byName[normalize(item.Name)] = item
		}
	}

	out := make([]MenuCost, 0, len(menu))
	for _, m := range menu {
		cost := decimal.Zero
		ingredients := make([]IngredientCost, 0, len(m.Ingredients))
		for _, ing := range m.Ingredients {
			line := IngredientCost{
				Name:            ing.Name,
				InventoryItemID: ing.InventoryItemID,
				Quantity:        ing.Quantity,
				Unit:            ing.Unit,
			}
			inv, ok := byID[ing.InventoryItemID]
			if !ok {
				inv, ok = byName[normalize(ing.Name)]
			}
			if ok {
				c := decimal.NewFromFloat(ing.Quantity).Mul(decimal.NewFromFloat(inv.UnitCost))
				line.Matched = true
				line.InventoryItemID = inv.ID.Hex()
				line.UnitCost = inv.UnitCost
				line.Cost = round2(c)
				cost = cost.Add(c)
			}
			ingredients = append(ingredients, line)
		}

		price := decimal.NewFromFloat(m.Price)
		profit := price.Sub(cost)
		margin := decimal.Zero
		if price.IsPositive() {
			margin = profit.Div(price).Mul(decimal.NewFromInt(100))
		}
		out = append(out, MenuCost{
			MenuItemID:    m.ID.Hex(),
			Name:          m.Name,
			Category:      m.Category,
			Price:         m.Price,
			Cost:          round2(cost),
			Profit:        round2(profit),
			MarginPercent: round2(margin),
			Ingredients:   ingredients,
		})
	}
	return out
}

type ItemSales struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type DaySales struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type SalesSummary struct {
	Records             int         `json:"records"`
	TotalRevenue        float64     `json:"totalRevenue"`
	TotalQuantity       float64     `json:"totalQuantity"`
	AverageDailyRevenue float64     `json:"averageDailyRevenue"`
	From                string      `json:"from,omitempty"`
	To                  string      `json:"to,omitempty"`
	Items               []ItemSales `json:"items"`
	Days                []DaySales  `json:"days"`
}

// SummarizeSales totals the records per item (highest revenue first) and
// per day (oldest first). The daily average is over days with sales.
func SummarizeSales(records []domain.SalesRecord) SalesSummary {
	type acc struct{ qty, rev decimal.Decimal }
	items := make(map[string]*acc)
	days := make(map[string]*acc)
	add := func(m map[string]*acc, key string, r domain.SalesRecord) {
		a, ok := m[key]
		if !ok {
			a = &acc{qty: decimal.Zero, rev: decimal.Zero}
			m[key] = a
		}
		a.qty = a.qty.Add(decimal.NewFromFloat(r.Quantity))
		a.rev = a.rev.Add(decimal.NewFromFloat(r.Revenue))
	}

	totalQty, totalRev := decimal.Zero, decimal.Zero
	for _, r := range records {
		add(items, r.Item, r)
		add(days, r.Date, r)
		totalQty = totalQty.Add(decimal.NewFromFloat(r.Quantity))
		totalRev = totalRev.Add(decimal.NewFromFloat(r.Revenue))
	}

	sum := SalesSummary{
		Records:       len(records),
		TotalRevenue:  round2(totalRev),
		TotalQuantity: round2(totalQty),
		Items:         make([]ItemSales, 0, len(items)),
		Days:          make([]DaySales, 0, len(days)),
	}
	for name, a := range items {
		sum.Items = append(sum.Items, ItemSales{Item: name, Quantity: round2(a.qty), Revenue: round2(a.rev)})
	}
	sort.Slice(sum.Items, func(i, j int) bool {
		if sum.Items[i].Revenue != sum.Items[j].Revenue {
			return sum.Items[i].Revenue > sum.Items[j].Revenue
		}
		return sum.Items[i].Item < sum.Items[j].Item
	})
	for date, a := range days {
		sum.Days = append(sum.Days, DaySales{Date: date, Quantity: round2(a.qty), Revenue: round2(a.rev)})
	}
	sort.Slice(sum.Days, func(i, j int) bool { return sum.Days[i].Date < sum.Days[j].Date })

	if n := len(sum.Days); n > 0 {
		sum.From = sum.Days[0].Date
		sum.To = sum.Days[n-1].Date
		sum.AverageDailyRevenue = round2(totalRev.Div(decimal.NewFromInt(int64(n))))
	}
	return sum
}

type Dashboard struct {
	Inventory   InventorySummary `json:"inventory"`
	Menu        []MenuCost       `json:"menu"`
	Sales       SalesSummary     `json:"sales"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

func BuildDashboard(items []domain.InventoryItem, menu []domain.MenuItem, sales []domain.SalesRecord, now time.Time) Dashboard {
	return Dashboard{
		Inventory:   SummarizeInventory(items),
		Menu:        CostMenu(menu, items),
		Sales:       SummarizeSales(sales),
		GeneratedAt: now,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
