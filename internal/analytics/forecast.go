package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultForecastDays   = 7
	DefaultForecastWindow = 7
	DefaultCoverDays      = 7

	// MaxForecastDays bounds both the projected days and the averaging window.
	MaxForecastDays = 365

	dateLayout = "2006-01-02"
	// leadTimeDays is how long a supplier takes to deliver.
	leadTimeDays = 1
)

type ForecastPoint struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
}

type ItemForecast struct {
	Item        string          `json:"item"`
	DailyDemand float64         `json:"dailyDemand"`
	Total       float64         `json:"total"`
	Points      []ForecastPoint `json:"points"`
}

type Projection struct {
	Start  string         `json:"start,omitempty"`
	Days   int            `json:"days"`
	Window int            `json:"window"`
	Items  []ItemForecast `json:"items"`
}

// Forecast projects each item's demand for the given number of days after
// the latest sales date. Daily demand is the mean quantity over the last
// window calendar days ending on that date; days without sales count as
// zero. Records with unparseable dates are ignored. days and window are
// clamped to MaxForecastDays.
func Forecast(records []domain.SalesRecord, days, window int) Projection {
	if days <= 0 {
		days = DefaultForecastDays
	}
	if window <= 0 {
		window = DefaultForecastWindow
	}
	days = min(days, MaxForecastDays)
	window = min(window, MaxForecastDays)
	f := Projection{Days: days, Window: window, Items: make([]ItemForecast, 0)}

	var latest time.Time
	type sale struct {
		day  time.Time
		item string
		qty  float64
	}
	sales := make([]sale, 0, len(records))
	for _, r := range records {
		day, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			continue
		}
		if day.After(latest) {
			latest = day
		}
		sales = append(sales, sale{day: day, item: r.Item, qty: r.Quantity})
	}
	if len(sales) == 0 {
		return f
	}

	first := latest.AddDate(0, 0, -(window - 1))
	totals := make(map[string]decimal.Decimal)
	for _, s := range sales {
		if _, ok := totals[s.item]; !ok {
			totals[s.item] = decimal.Zero
		}
		if s.day.Before(first) {
			continue
		}
		totals[s.item] = totals[s.item].Add(decimal.NewFromFloat(s.qty))
	}

	start := latest.AddDate(0, 0, 1)
	f.Start = start.Format(dateLayout)
	for item, total := range totals {
		daily := total.Div(decimal.NewFromInt(int64(window))).Round(2)
		fc := ItemForecast{
			Item:        item,
			DailyDemand: daily.InexactFloat64(),
			Total:       round2(daily.Mul(decimal.NewFromInt(int64(days)))),
			Points:      make([]ForecastPoint, days),
		}
		for i := range fc.Points {
			fc.Points[i] = ForecastPoint{
				Date:     start.AddDate(0, 0, i).Format(dateLayout),
				Quantity: fc.DailyDemand,
			}
		}
		f.Items = append(f.Items, fc)
	}
	sort.Slice(f.Items, func(i, j int) bool { return f.Items[i].Item < f.Items[j].Item })
	return f
}

// Demand is the expected daily consumption keyed by inventory item id or,
// when the id is unknown, by lower-cased name.
type Demand map[string]float64

// IngredientDemand turns a forecast of menu sales into ingredient demand.
// Sold items that are not on the menu are treated as inventory items sold
// directly.
func IngredientDemand(f Projection, menu []domain.MenuItem) Demand {
	recipes := make(map[string]domain.MenuItem, len(menu))
	for _, m := range menu {
		recipes[normalize(m.Name)] = m
	}

	acc := make(map[string]decimal.Decimal)
	add := func(key string, v decimal.Decimal) {
		if cur, ok := acc[key]; ok {
			acc[key] = cur.Add(v)
			return
		}
		acc[key] = v
	}
	for _, item := range f.Items {
		daily := decimal.NewFromFloat(item.DailyDemand)
		m, ok := recipes[normalize(item.Item)]
		if !ok {
			add(normalize(item.Item), daily)
			continue
		}
		for _, ing := range m.Ingredients {
			key := ing.InventoryItemID
			if key == "" {
				key = normalize(ing.Name)
			}
			add(key, daily.Mul(decimal.NewFromFloat(ing.Quantity)))
		}
	}

	d := make(Demand, len(acc))
	for k, v := range acc {
		d[k] = round2(v)
	}
	return d
}

func (d Demand) For(item domain.InventoryItem) float64 {
	if v, ok := d[item.ID.Hex()]; ok {
		return v
	}
	return d[normalize(item.Name)]
}

type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

var urgencyRank = map[Urgency]int{
	UrgencyCritical: 0,
	UrgencyHigh:     1,
	UrgencyMedium:   2,
	UrgencyLow:      3,
}

type Suggestion struct {
	InventoryItemID string  `json:"inventoryItemId"`
	Name            string  `json:"name"`
	Unit            string  `json:"unit,omitempty"`
	SupplierID      string  `json:"supplierId,omitempty"`
	SupplierName    string  `json:"supplierName,omitempty"`
	CurrentStock    float64 `json:"currentStock"`
	MinStock        float64 `json:"minStock"`
	DailyDemand     float64 `json:"dailyDemand"`
	Target          float64 `json:"target"`
	PackSize        float64 `json:"packSize"`
	Packs           int     `json:"packs"`
	OrderQuantity   float64 `json:"orderQuantity"`
	EstimatedCost   float64 `json:"estimatedCost"`
	Urgency         Urgency `json:"urgency"`
}

// SuggestOrders lists the items whose stock is below
// max(minStock, dailyDemand*coverDays), with the whole packs needed to
// reach that target. Most urgent first.
func SuggestOrders(items []domain.InventoryItem, demand Demand, coverDays int) []Suggestion {
	if coverDays <= 0 {
		coverDays = DefaultCoverDays
	}

	out := make([]Suggestion, 0)
	for _, item := range items {
		daily := demand.For(item)
		target := math.Max(item.MinStock, daily*float64(coverDays))
		if item.CurrentStock >= target {
			continue
		}

		packSize := item.PackSize
		if packSize <= 0 {
			packSize = 1
		}
		packs := int(math.Ceil((target - item.CurrentStock) / packSize))
		qty := decimal.NewFromFloat(packSize).Mul(decimal.NewFromInt(int64(packs)))

		out = append(out, Suggestion{
			InventoryItemID: item.ID.Hex(),
			Name:            item.Name,
			Unit:            item.Unit,
			SupplierID:      item.SupplierID,
			SupplierName:    item.SupplierName,
			CurrentStock:    item.CurrentStock,
			MinStock:        item.MinStock,
			DailyDemand:     daily,
			Target:          round2(decimal.NewFromFloat(target)),
			PackSize:        packSize,
			Packs:           packs,
			OrderQuantity:   round2(qty),
			EstimatedCost:   round2(qty.Mul(decimal.NewFromFloat(item.UnitCost))),
			Urgency:         urgencyOf(item, daily),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Urgency != out[j].Urgency {
			return urgencyRank[out[i].Urgency] < urgencyRank[out[j].Urgency]
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// urgencyOf grades how soon the item runs out relative to the supplier
// lead time.
func urgencyOf(item domain.InventoryItem, daily float64) Urgency {
	if item.CurrentStock <= 0 {
		return UrgencyCritical
	}
	if daily <= 0 {
		if item.CurrentStock <= item.MinStock/2 {
			return UrgencyHigh
		}
		return UrgencyLow
	}
	switch days := item.CurrentStock / daily; {
	case days < leadTimeDays:
		return UrgencyCritical
	case days < leadTimeDays+3:
		return UrgencyHigh
	case days < leadTimeDays+7:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}
