package supplier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Webhook posts orders to a supplier endpoint. Suppliers without a webhook
// URL take orders by email. Neither offers pricing.
type Webhook struct {
	config Config
	client *http.Client
}

func NewWebhook(c Config) *Webhook {
	return &Webhook{config: c, client: httpClient(c)}
}

func (w *Webhook) Pricing(context.Context, []string) ([]Price, error) {
	return nil, ErrUnsupported
}

func (w *Webhook) PlaceOrder(ctx context.Context, order Order) (OrderResult, error) {
	if w.config.WebhookURL == "" {
		return OrderResult{
			Success:   true,
			OrderID:   timestampID("EMAIL"),
			Status:    "submitted",
			TotalCost: ItemsTotal(order.Items),
			Message:   fmt.Sprintf("Order submitted via email to %s", w.config.Name),
			OrderDate: now(),
		}, nil
	}

	body, err := json.Marshal(order)
	if err != nil {
		return OrderResult{}, fmt.Errorf("failed to encode order: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	if w.config.Secret != "" {
		headers.Set("X-Webhook-Secret", w.config.Secret)
	}

	if _, err := post(ctx, w.client, w.config.ID, w.config.WebhookURL, headers, body); err != nil {
		return OrderResult{}, err
	}

	return OrderResult{
		Success:   true,
		OrderID:   timestampID("WH"),
		Status:    "submitted",
		TotalCost: ItemsTotal(order.Items),
		Message:   fmt.Sprintf("Order submitted via webhook to %s", w.config.Name),
		OrderDate: now(),
	}, nil
}
