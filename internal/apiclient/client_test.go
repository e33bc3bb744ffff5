package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Beka01247/smart-stock/internal/domain"
)

func TestDoUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer t0k" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/api/inventory" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"name":"Flour","currentStock":4}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithToken(StaticToken("t0k")))
	items, err := c.Inventory().List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Flour" || items[0].CurrentStock != 4 {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestDoPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	var out struct {
		Status string `json:"status"`
	}
	if err := New(srv.URL).Fetch(context.Background(), "health", &out); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out.Status != "healthy" {
		t.Errorf("Status = %q", out.Status)
	}
}

func TestDoSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		var req PricingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.SupplierID != "sysco" || len(req.Items) != 2 {
			t.Errorf("unexpected body %+v", req)
		}
		w.Write([]byte(`{"data":[{"itemName":"milk","price":12.5},{"itemName":"eggs","price":30}]}`))
	}))
	defer srv.Close()

	prices, err := New(srv.URL).Pricing(context.Background(), "sysco", []string{"milk", "eggs"})
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if len(prices) != 2 || prices[0].Price != 12.5 {
		t.Errorf("unexpected prices %+v", prices)
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"error field", http.StatusNotFound, `{"error":"record not found"}`, "record not found"},
		{"detail field", http.StatusBadRequest, `{"detail":"bad supplier"}`, "bad supplier"},
		{"plain text", http.StatusBadGateway, "upstream down", "upstream down"},
		{"empty", http.StatusServiceUnavailable, "", "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).Suppliers().Get(context.Background(), "abc")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.message {
				t.Errorf("got %+v", apiErr)
			}
			if IsNotFound(err) != (tt.status == http.StatusNotFound) {
				t.Errorf("IsNotFound = %v", IsNotFound(err))
			}
		})
	}
}

func TestDeleteIgnoresEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/sales/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := New(srv.URL).Sales().Delete(context.Background(), "42"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestTokenSourceError(t *testing.T) {
	boom := errors.New("no credentials")
	c := New("http://127.0.0.1:0", WithToken(func(context.Context) (string, error) { return "", boom }))

	if _, err := c.Dashboard(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected token error, got %v", err)
	}
}

func TestRecordsUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		w.Write([]byte(`{"data":{"name":"Flour","minStock":8}}`))
	}))
	defer srv.Close()

	minStock := 8.0
	item, err := New(srv.URL).Inventory().Update(context.Background(), "1", domain.InventoryPatch{MinStock: &minStock})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.MinStock != 8 {
		t.Errorf("MinStock = %v", item.MinStock)
	}
}
