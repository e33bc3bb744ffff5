package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Beka01247/smart-stock/internal/analytics"
	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/supplier"
)

// Records is a typed wrapper over one collection endpoint.
type Records[T any] struct {
	client *Client
	path   string
}

func NewRecords[T any](c *Client, path string) *Records[T] {
	return &Records[T]{client: c, path: path}
}

func (r *Records[T]) Path() string {
	return r.path
}

func (r *Records[T]) Create(ctx context.Context, record *T) (*T, error) {
	var out T
	if err := r.client.Do(ctx, http.MethodPost, r.path, record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Records[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.client.Fetch(ctx, r.path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Records[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.client.Fetch(ctx, r.path+"/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Records[T]) Update(ctx context.Context, id string, patch any) (*T, error) {
	var out T
	if err := r.client.Do(ctx, http.MethodPatch, r.path+"/"+url.PathEscape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Records[T]) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Inventory() *Records[domain.InventoryItem] {
	return NewRecords[domain.InventoryItem](c, "/api/inventory")
}

func (c *Client) Suppliers() *Records[domain.Supplier] {
	return NewRecords[domain.Supplier](c, "/api/suppliers")
}

func (c *Client) MenuItems() *Records[domain.MenuItem] {
	return NewRecords[domain.MenuItem](c, "/api/menu-items")
}

func (c *Client) Sales() *Records[domain.SalesRecord] {
	return NewRecords[domain.SalesRecord](c, "/api/sales")
}

func (c *Client) OrderTemplates() *Records[domain.OrderTemplate] {
	return NewRecords[domain.OrderTemplate](c, "/api/order-templates")
}

type PricingRequest struct {
	SupplierID string   `json:"supplier_id"`
	Items      []string `json:"items"`
}

func (c *Client) Pricing(ctx context.Context, supplierID string, items []string) ([]supplier.Price, error) {
	var out []supplier.Price
	err := c.Do(ctx, http.MethodPost, "/api/supplier-integrations/pricing", PricingRequest{SupplierID: supplierID, Items: items}, &out)
	return out, err
}

func (c *Client) PlaceOrder(ctx context.Context, order supplier.Order) (*supplier.OrderResult, error) {
	var out supplier.OrderResult
	if err := c.Do(ctx, http.MethodPost, "/api/supplier-integrations/order", order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Dashboard(ctx context.Context) (*analytics.Dashboard, error) {
	var out analytics.Dashboard
	if err := c.Fetch(ctx, "/api/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
