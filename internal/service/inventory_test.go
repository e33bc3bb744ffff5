package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
)

func newInventory(t *testing.T) (*Inventory, *fakeNotifier) {
	t.Helper()
	repos := newRepos()
	n := &fakeNotifier{}
	svc := NewInventory(repos.Inventory, repos.StockAudit, n, testLogger)

	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, n
}

func TestInventoryStockHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInventory(t)

	item, err := svc.Create(ctx, "user-1", &domain.InventoryItem{Name: "Flour", Unit: "kg", CurrentStock: 20, MinStock: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Category != "uncategorized" {
		t.Errorf("category default not applied: %q", item.Category)
	}
	id := item.ID.Hex()

	for _, stock := range []float64{18, 12} {
		stock := stock
		if _, err := svc.Update(ctx, "user-1", id, &domain.InventoryPatch{CurrentStock: &stock}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	// same stock, no audit entry
	same := 12.0
	if _, err := svc.Update(ctx, "user-1", id, &domain.InventoryPatch{CurrentStock: &same}); err != nil {
		t.Fatalf("update: %v", err)
	}
	// other fields only, no audit entry
	unit := "bag"
	if _, err := svc.Update(ctx, "user-1", id, &domain.InventoryPatch{Unit: &unit}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := svc.SetStock(ctx, "user-1", id, 30, "delivery"); err != nil {
		t.Fatalf("set stock: %v", err)
	}

	history, err := svc.History(ctx, "user-1", id, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 audit entries, got %d: %+v", len(history), history)
	}
	if history[0].NewStock != 30 || history[0].OldStock != 12 || history[0].Reason != "delivery" {
		t.Errorf("newest entry wrong: %+v", history[0])
	}
	if history[2].OldStock != 20 || history[2].NewStock != 18 || history[2].Reason != domain.AuditReasonManual {
		t.Errorf("oldest entry wrong: %+v", history[2])
	}

	limited, err := svc.History(ctx, "user-1", id, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limited history: %v, %d entries", err, len(limited))
	}

	if _, err := svc.History(ctx, "user-2", id, 10); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("other owner history: expected ErrNotFound, got %v", err)
	}
}

func TestInventoryLowStockAlert(t *testing.T) {
	ctx := context.Background()
	svc, n := newInventory(t)

	item, err := svc.Create(ctx, "user-1", &domain.InventoryItem{Name: "Milk", Unit: "L", CurrentStock: 10, MinStock: 4})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := item.ID.Hex()

	for _, stock := range []float64{6, 3, 2, 0} {
		if _, err := svc.SetStock(ctx, "user-1", id, stock, ""); err != nil {
			t.Fatalf("set stock %v: %v", stock, err)
		}
	}

	// ok -> low and low -> out of stock; 3 -> 2 stays low
	if got := n.events(); len(got) != 2 || got[0] != domain.EventLowStock || got[1] != domain.EventLowStock {
		t.Fatalf("unexpected notifications %v", got)
	}
	if n.notes[1].subject != "Out of stock: Milk" {
		t.Errorf("unexpected subject %q", n.notes[1].subject)
	}
}

func TestInventorySetStockRejectsNegative(t *testing.T) {
	svc, _ := newInventory(t)
	if _, err := svc.SetStock(context.Background(), "user-1", "000000000000000000000000", -1, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInventoryUpdateMissing(t *testing.T) {
	svc, _ := newInventory(t)
	stock := 1.0
	_, err := svc.Update(context.Background(), "user-1", "65a000000000000000000000", &domain.InventoryPatch{CurrentStock: &stock})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
