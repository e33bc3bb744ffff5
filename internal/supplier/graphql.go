package supplier

import (
	"context"
	"fmt"
	"net/http"
)

type GraphQL struct {
	config Config
	client *http.Client
}

func NewGraphQL(c Config) *GraphQL {
	return &GraphQL{config: c, client: httpClient(c)}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func (g *GraphQL) do(ctx context.Context, queryName string, variables map[string]any) (map[string]any, error) {
	query := g.config.Queries[queryName]
	if g.config.GraphQLURL == "" || query == "" {
		return nil, fmt.Errorf("%w: graphql url or %s query missing", ErrNotConfigured, queryName)
	}

	resp, err := postJSON(ctx, g.client, g.config.ID, g.config.GraphQLURL, authHeaders(g.config), graphQLRequest{
		Query:     query,
		Variables: variables,
	})
	if err != nil {
		return nil, err
	}

	if errs, ok := resp["errors"].([]any); ok && len(errs) > 0 {
		msg := "unknown error"
		if first, ok := errs[0].(map[string]any); ok {
			msg = orDefault(pickString(first, "message"), msg)
		}
		return nil, fmt.Errorf("graphql error from %s: %s", g.config.ID, msg)
	}

	data, ok := resp["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("graphql response from %s has no data", g.config.ID)
	}
	return data, nil
}

func (g *GraphQL) Pricing(ctx context.Context, items []string) ([]Price, error) {
	data, err := g.do(ctx, "pricing", map[string]any{"items": items})
	if err != nil {
		return nil, err
	}

	prices := []Price{}
	list, _ := data["pricing"].([]any)
	for _, entry := range list {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		minimum := pickNumber(item, "minimumOrder")
		if minimum == 0 {
			minimum = 1
		}
		prices = append(prices, Price{
			ItemID:       g.config.ID + "_" + pickString(item, "sku"),
			ItemName:     pickString(item, "name"),
			Price:        pickNumber(item, "price"),
			Currency:     orDefault(pickString(item, "currency"), "USD"),
			Unit:         orDefault(pickString(item, "unit"), "each"),
			LastUpdated:  now(),
			SupplierID:   g.config.ID,
			Availability: availability(pickBool(item, "availability")),
			MinimumOrder: minimum,
		})
	}

	return prices, nil
}

func (g *GraphQL) PlaceOrder(ctx context.Context, order Order) (OrderResult, error) {
	data, err := g.do(ctx, "place_order", map[string]any{"order": orderRequest(order)})
	if err != nil {
		return OrderResult{}, err
	}

	placed, ok := data["placeOrder"].(map[string]any)
	if !ok {
		return OrderResult{}, fmt.Errorf("graphql response from %s has no placeOrder", g.config.ID)
	}

	return OrderResult{
		Success:           true,
		OrderID:           pickString(placed, "orderId"),
		Status:            orDefault(pickString(placed, "status"), "pending"),
		TotalCost:         pickNumber(placed, "total"),
		EstimatedDelivery: pickString(placed, "estimatedDelivery"),
		Message:           fmt.Sprintf("Order placed successfully with %s", g.config.Name),
		OrderDate:         now(),
	}, nil
}
