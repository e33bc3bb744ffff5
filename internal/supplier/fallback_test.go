package supplier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/retry"
	"go.uber.org/zap"
)

func unreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestPricingFallsBackWhenSupplierUnreachable(t *testing.T) {
	registry := NewRegistry(Config{
		ID:            "acme",
		Name:          "Acme Foods",
		Kind:          KindAPI,
		BaseURL:       unreachableURL(t),
		APIKey:        "key",
		RetryAttempts: 2,
	})
	upstream := registry.Upstream("acme", time.Millisecond, zap.NewNop().Sugar())

	prices, err := upstream.Pricing(context.Background(), []string{"coffee beans", "milk"})
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}

	if len(prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(prices))
	}
	for _, p := range prices {
		if p.Note != FallbackNote {
			t.Errorf("expected fallback note on %+v", p)
		}
		if p.Price < 10 || p.Price >= 60 {
			t.Errorf("fallback price out of range: %v", p.Price)
		}
	}
	if prices[0].ItemID != "acme_coffee_beans" || prices[0].ItemName != "Coffee Beans" {
		t.Errorf("unexpected first price %+v", prices[0])
	}
}

func TestFallbackPriceIsStable(t *testing.T) {
	f := Fallback{SupplierID: "acme"}
	first, _ := f.Pricing(context.Background(), []string{"milk"})
	second, _ := f.Pricing(context.Background(), []string{"milk"})
	if first[0].Price != second[0].Price {
		t.Fatalf("fallback price changed between calls: %v != %v", first[0].Price, second[0].Price)
	}
}

func TestUnknownSupplierUsesFallback(t *testing.T) {
	registry := NewRegistry()
	upstream := registry.Upstream("sysco", time.Millisecond, zap.NewNop().Sugar())

	result, err := upstream.PlaceOrder(context.Background(), Order{
		SupplierID: "sysco",
		Items:      []domain.OrderItem{{Name: "Coffee", Quantity: 2, Unit: "lb", Price: 25.99}},
	})
	if err != nil {
		t.Fatalf("order: %v", err)
	}

	if !result.Fallback || result.Status != "pending" {
		t.Errorf("expected pending fallback order, got %+v", result)
	}
	if result.TotalCost != 51.98 {
		t.Errorf("expected total 51.98, got %v", result.TotalCost)
	}
	if len(result.OrderID) < len("MOCK-") || result.OrderID[:5] != "MOCK-" {
		t.Errorf("unexpected order id %s", result.OrderID)
	}
}

func TestItemsTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.OrderItem
		want  float64
	}{
		{"single", []domain.OrderItem{{Quantity: 2, Price: 25.99}}, 51.98},
		{"float drift", []domain.OrderItem{{Quantity: 3, Price: 0.1}, {Quantity: 1, Price: 0.2}}, 0.5},
		{"rounding", []domain.OrderItem{{Quantity: 1.5, Price: 3.333}}, 5},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ItemsTotal(tt.items); got != tt.want {
				t.Errorf("ItemsTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

type flakyUpstream struct {
	failures int32
	calls    atomic.Int32
}

func (f *flakyUpstream) Pricing(ctx context.Context, items []string) ([]Price, error) {
	if f.calls.Add(1) <= f.failures {
		return nil, ErrUnavailable
	}
	return []Price{{ItemID: "real"}}, nil
}

func (f *flakyUpstream) PlaceOrder(ctx context.Context, order Order) (OrderResult, error) {
	return OrderResult{}, ErrUnsupported
}

func TestWithFallbackRetriesPrimary(t *testing.T) {
	primary := &flakyUpstream{failures: 1}
	upstream := WithFallback("acme", primary, Fallback{SupplierID: "acme"}, retry.Policy{Attempts: 3, Delay: time.Millisecond}, zap.NewNop().Sugar())

	prices, err := upstream.Pricing(context.Background(), []string{"milk"})
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if len(prices) != 1 || prices[0].ItemID != "real" {
		t.Fatalf("expected primary answer, got %+v", prices)
	}
	if n := primary.calls.Load(); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestWithFallbackDoesNotRetryUnsupported(t *testing.T) {
	primary := &flakyUpstream{}
	upstream := WithFallback("acme", primary, Fallback{SupplierID: "acme", SupplierName: "Acme"}, retry.Policy{Attempts: 3, Delay: time.Millisecond}, zap.NewNop().Sugar())

	result, err := upstream.PlaceOrder(context.Background(), Order{Items: []domain.OrderItem{{Name: "x", Quantity: 1, Price: 1}}})
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if result.Message != "Order placed with Acme (offline mode)" {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"coffee beans": "Coffee Beans",
		"MILK":         "Milk",
		"half-and-half": "Half-And-Half",
	}
	for in, want := range tests {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
