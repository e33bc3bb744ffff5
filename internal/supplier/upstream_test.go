package supplier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Beka01247/smart-stock/internal/domain"
)

func TestRESTPricingListShape(t *testing.T) {
	var auth string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("X-API-Key")
		if r.URL.Path != "/v1/pricing/bulk" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"products": [
			{"sku": "CB-1", "name": "Coffee Beans", "unit_price": "12.5", "uom": "kg", "in_stock": false},
			{"id": 7, "description": "Milk", "price": 1.2}
		]}`))
	}))
	defer srv.Close()

	rest := NewREST(Config{
		ID:         "acme",
		BaseURL:    srv.URL + "/v1",
		APIKey:     "secret",
		AuthHeader: "X-API-Key",
		AuthPrefix: "Token ",
		Endpoints:  map[string]string{"pricing": "/pricing/bulk"},
	})

	prices, err := rest.Pricing(context.Background(), []string{"coffee beans", "milk"})
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}

	if auth != "Token secret" {
		t.Errorf("unexpected auth header %q", auth)
	}
	if body["currency"] != "USD" {
		t.Errorf("unexpected request body %v", body)
	}
	if len(prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(prices))
	}

	first := prices[0]
	if first.ItemID != "acme_CB-1" || first.Price != 12.5 || first.Unit != "kg" || *first.Availability {
		t.Errorf("unexpected first price %+v", first)
	}
	second := prices[1]
	if second.ItemID != "acme_7" || second.ItemName != "Milk" || second.Unit != "each" || !*second.Availability {
		t.Errorf("unexpected second price %+v", second)
	}
}

func TestRESTPricingMapShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pricing": {"whole milk": {"price": 3.1, "unit": "gal"}, "coffee beans": {"price": 14}}}`))
	}))
	defer srv.Close()

	prices, err := NewREST(Config{ID: "acme", BaseURL: srv.URL}).Pricing(context.Background(), []string{"x"})
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}

	if len(prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(prices))
	}
	if prices[0].ItemID != "acme_coffee_beans" || prices[0].ItemName != "Coffee Beans" {
		t.Errorf("unexpected price %+v", prices[0])
	}
	if prices[1].Unit != "gal" || prices[1].Price != 3.1 {
		t.Errorf("unexpected price %+v", prices[1])
	}
}

func TestRESTStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewREST(Config{ID: "acme", BaseURL: srv.URL}).Pricing(context.Background(), nil)
	se, ok := err.(*StatusError)
	if !ok {
		t.Fatalf("expected *StatusError, got %T %v", err, err)
	}
	if se.StatusCode != http.StatusUnauthorized || se.Body != "bad key" {
		t.Fatalf("unexpected status error %+v", se)
	}
}

func TestRESTPlaceOrder(t *testing.T) {
	var got supplierOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"orderNumber": "SUP-99", "amount": 40, "tracking_id": "TRK"}`))
	}))
	defer srv.Close()

	result, err := NewREST(Config{ID: "acme", Name: "Acme", BaseURL: srv.URL}).PlaceOrder(context.Background(), Order{
		Items:        []domain.OrderItem{{Name: "Milk", Quantity: 4, Price: 10}},
		DeliveryDate: "2024-01-20",
	})
	if err != nil {
		t.Fatalf("order: %v", err)
	}

	if got.CustomerID != "default" || got.RequestedDeliveryDate != "2024-01-20" || len(got.OrderItems) != 1 {
		t.Errorf("unexpected request %+v", got)
	}
	if got.OrderItems[0].UnitOfMeasure != "each" {
		t.Errorf("unexpected unit %q", got.OrderItems[0].UnitOfMeasure)
	}
	if result.OrderID != "SUP-99" || result.Status != "pending" || result.TotalCost != 40 || result.TrackingNumber != "TRK" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestWebhookPlaceOrder(t *testing.T) {
	var secret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret = r.Header.Get("X-Webhook-Secret")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	wh := NewWebhook(Config{ID: "wh", Name: "Hook Foods", WebhookURL: srv.URL, Secret: "s3cret"})
	result, err := wh.PlaceOrder(context.Background(), Order{Items: []domain.OrderItem{{Name: "Eggs", Quantity: 3, Price: 2.5}}})
	if err != nil {
		t.Fatalf("order: %v", err)
	}

	if secret != "s3cret" {
		t.Errorf("expected webhook secret header, got %q", secret)
	}
	if !strings.HasPrefix(result.OrderID, "WH-") || result.Status != "submitted" || result.TotalCost != 7.5 {
		t.Errorf("unexpected result %+v", result)
	}

	if _, err := wh.Pricing(context.Background(), []string{"eggs"}); err != ErrUnsupported {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestGraphQLPricing(t *testing.T) {
	var req graphQLRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&req)
		w.Write([]byte(`{"data": {"pricing": [{"sku": "MLK", "name": "Milk", "price": 2.25, "minimumOrder": 6}]}}`))
	}))
	defer srv.Close()

	g := NewGraphQL(Config{ID: "gq", GraphQLURL: srv.URL, Queries: map[string]string{"pricing": graphQLPricingQuery}})
	prices, err := g.Pricing(context.Background(), []string{"milk"})
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}

	if !strings.Contains(req.Query, "GetPricing") {
		t.Errorf("unexpected query %q", req.Query)
	}
	if len(prices) != 1 || prices[0].ItemID != "gq_MLK" || prices[0].MinimumOrder != 6 {
		t.Errorf("unexpected prices %+v", prices)
	}
}

func TestGraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "unknown item"}]}`))
	}))
	defer srv.Close()

	g := NewGraphQL(Config{ID: "gq", GraphQLURL: srv.URL, Queries: map[string]string{"pricing": graphQLPricingQuery}})
	_, err := g.Pricing(context.Background(), []string{"milk"})
	if err == nil || !strings.Contains(err.Error(), "unknown item") {
		t.Fatalf("expected graphql error, got %v", err)
	}
}

func TestSOAP(t *testing.T) {
	var action, request string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action = r.Header.Get("SOAPAction")
		data, _ := io.ReadAll(r.Body)
		request = string(data)

		w.Header().Set("Content-Type", "text/xml")
		if action == "GetPricing" {
			w.Write([]byte(`<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <GetPricingResponse>
      <Items>
        <Item><Name>Whole Milk</Name><Price>3.40</Price><Unit>gal</Unit></Item>
        <Item><Name>Sugar</Name><Price>n/a</Price></Item>
      </Items>
    </GetPricingResponse>
  </soap:Body>
</soap:Envelope>`))
			return
		}
		w.Write([]byte(`<Envelope><Body><PlaceOrderResponse><OrderId>S-1</OrderId><Total>12.00</Total></PlaceOrderResponse></Body></Envelope>`))
	}))
	defer srv.Close()

	s := NewSOAP(Config{ID: "sp", Name: "Soap Co", SOAPURL: srv.URL, Namespace: "http://example.com/ns"})

	prices, err := s.Pricing(context.Background(), []string{"whole milk"})
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if !strings.Contains(request, "<ns:GetPricing>") || !strings.Contains(request, "<Item>whole milk</Item>") {
		t.Errorf("unexpected soap request %s", request)
	}
	if len(prices) != 1 || prices[0].ItemID != "sp_whole_milk" || prices[0].Price != 3.4 || prices[0].Unit != "gal" {
		t.Errorf("unexpected prices %+v", prices)
	}

	result, err := s.PlaceOrder(context.Background(), Order{Items: []domain.OrderItem{{Name: "Sugar", Quantity: 2, Price: 6}}})
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if action != "PlaceOrder" {
		t.Errorf("unexpected soap action %s", action)
	}
	if result.OrderID != "S-1" || result.Status != "pending" || result.TotalCost != 12 {
		t.Errorf("unexpected result %+v", result)
	}
}
