package supplier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// REST talks to suppliers exposing a JSON API.
type REST struct {
	config Config
	client *http.Client
}

func NewREST(c Config) *REST {
	return &REST{config: c, client: httpClient(c)}
}

func (r *REST) Pricing(ctx context.Context, items []string) ([]Price, error) {
	if r.config.BaseURL == "" {
		return nil, fmt.Errorf("%w: no API base URL", ErrNotConfigured)
	}

	url := r.config.BaseURL + r.config.endpoint("pricing", "/pricing")
	payload := map[string]any{
		"items":    items,
		"currency": "USD",
		"quantity": 1,
	}

	resp, err := postJSON(ctx, r.client, r.config.ID, url, authHeaders(r.config), payload)
	if err != nil {
		return nil, err
	}

	return reshapePricing(r.config.ID, resp), nil
}

func (r *REST) PlaceOrder(ctx context.Context, order Order) (OrderResult, error) {
	if r.config.BaseURL == "" {
		return OrderResult{}, fmt.Errorf("%w: no API base URL", ErrNotConfigured)
	}

	url := r.config.BaseURL + r.config.endpoint("orders", "/orders")
	resp, err := postJSON(ctx, r.client, r.config.ID, url, authHeaders(r.config), orderRequest(order))
	if err != nil {
		return OrderResult{}, err
	}

	return OrderResult{
		Success:           true,
		OrderID:           pickString(resp, "order_id", "id", "orderNumber"),
		Status:            orDefault(pickString(resp, "status"), "pending"),
		TotalCost:         pickNumber(resp, "total", "amount", "total_cost"),
		EstimatedDelivery: pickString(resp, "estimated_delivery", "delivery_date"),
		TrackingNumber:    pickString(resp, "tracking_number", "tracking_id"),
		SupplierOrderID:   pickString(resp, "supplier_order_id"),
		Message:           fmt.Sprintf("Order placed successfully with %s", r.config.Name),
		OrderDate:         now(),
	}, nil
}

// reshapePricing accepts the list shapes {"items"|"products"|"data"|"pricing": [...]}
// and the map shape {"pricing": {"<item name>": {...}}}.
func reshapePricing(supplierID string, resp map[string]any) []Price {
	prices := []Price{}

	for _, key := range []string{"items", "products", "data", "pricing"} {
		raw, ok := resp[key]
		if !ok {
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			break
		}
		for _, entry := range list {
			item, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			minimum := pickNumber(item, "min_qty", "minimum_order")
			if minimum == 0 {
				minimum = 1
			}
			prices = append(prices, Price{
				ItemID:       supplierID + "_" + pickString(item, "sku", "id", "product_id"),
				ItemName:     pickString(item, "name", "description", "product_name"),
				Price:        pickNumber(item, "price", "unit_price", "current_price"),
				Currency:     orDefault(pickString(item, "currency"), "USD"),
				Unit:         orDefault(pickString(item, "unit", "uom"), "each"),
				LastUpdated:  now(),
				SupplierID:   supplierID,
				Availability: availability(pickBool(item, "in_stock", "available")),
				MinimumOrder: minimum,
			})
		}
		return prices
	}

	if byName, ok := resp["pricing"].(map[string]any); ok {
		for name, raw := range byName {
			data, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			prices = append(prices, Price{
				ItemID:      supplierID + "_" + snake(name),
				ItemName:    titleCase(name),
				Price:       pickNumber(data, "price"),
				Currency:    orDefault(pickString(data, "currency"), "USD"),
				Unit:        orDefault(pickString(data, "unit"), "each"),
				LastUpdated: now(),
				SupplierID:  supplierID,
			})
		}
		sortPrices(prices)
	}

	return prices
}

// availability defaults to available when the supplier does not say.
func availability(v *bool) *bool {
	if v != nil {
		return v
	}
	available := true
	return &available
}

type supplierOrderItem struct {
	ProductName   string  `json:"product_name"`
	ProductSKU    string  `json:"product_sku"`
	Quantity      float64 `json:"quantity"`
	UnitOfMeasure string  `json:"unit_of_measure"`
	UnitPrice     float64 `json:"unit_price"`
}

type supplierOrderRequest struct {
	CustomerID            string              `json:"customer_id"`
	CustomerReference     string              `json:"customer_reference"`
	DeliveryAddress       string              `json:"delivery_address"`
	RequestedDeliveryDate string              `json:"requested_delivery_date"`
	SpecialInstructions   string              `json:"special_instructions"`
	OrderItems            []supplierOrderItem `json:"order_items"`
}

func orderRequest(order Order) supplierOrderRequest {
	req := supplierOrderRequest{
		CustomerID:            orDefault(order.CustomerID, "default"),
		CustomerReference:     order.CustomerID,
		DeliveryAddress:       order.DeliveryAddress,
		RequestedDeliveryDate: order.DeliveryDate,
		SpecialInstructions:   order.Notes,
		OrderItems:            make([]supplierOrderItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		req.OrderItems = append(req.OrderItems, supplierOrderItem{
			ProductName:   item.Name,
			ProductSKU:    item.SKU,
			Quantity:      item.Quantity,
			UnitOfMeasure: orDefault(item.Unit, "each"),
			UnitPrice:     item.Price,
		})
	}
	return req
}

func snake(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
