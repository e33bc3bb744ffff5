// Package supplier talks to supplier systems for pricing and order
// placement. Every upstream is wrapped by WithFallback so callers always get
// a well-formed answer.
package supplier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
)

var (
	ErrUnavailable   = errors.New("supplier unavailable")
	ErrNotConfigured = errors.New("supplier integration not configured")
	ErrUnsupported   = errors.New("operation not supported by supplier integration")
)

// now is replaced in tests.
var now = time.Now

type Price struct {
	ItemID       string    `json:"itemId"`
	ItemName     string    `json:"itemName"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Unit         string    `json:"unit"`
	LastUpdated  time.Time `json:"lastUpdated"`
	SupplierID   string    `json:"supplierId"`
	Availability *bool     `json:"availability,omitempty"`
	MinimumOrder float64   `json:"minimum_order,omitempty"`
	Note         string    `json:"note,omitempty"`
}

type Order struct {
	SupplierID      string             `json:"supplier_id" validate:"required"`
	CustomerID      string             `json:"customer_id,omitempty"`
	Items           []domain.OrderItem `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string             `json:"deliveryAddress,omitempty"`
	DeliveryDate    string             `json:"deliveryDate,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

type OrderResult struct {
	Success           bool      `json:"success"`
	OrderID           string    `json:"orderId"`
	Status            string    `json:"status"`
	TotalCost         float64   `json:"totalCost"`
	EstimatedDelivery string    `json:"estimatedDelivery,omitempty"`
	TrackingNumber    string    `json:"trackingNumber,omitempty"`
	SupplierOrderID   string    `json:"supplierOrderId,omitempty"`
	Message           string    `json:"message"`
	OrderDate         time.Time `json:"orderDate"`
	Fallback          bool      `json:"fallback,omitempty"`
}

// Upstream is one supplier system.
type Upstream interface {
	Pricing(ctx context.Context, items []string) ([]Price, error)
	PlaceOrder(ctx context.Context, order Order) (OrderResult, error)
}

// StatusError is returned when a supplier answers with a non-2xx status.
type StatusError struct {
	SupplierID string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("supplier %s responded with status %d: %s", e.SupplierID, e.StatusCode, e.Body)
}

// timestampID builds ids like WH-20240120153000.
func timestampID(prefix string) string {
	return prefix + "-" + now().Format("20060102150405")
}
