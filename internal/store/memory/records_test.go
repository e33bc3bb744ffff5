package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Beka01247/smart-stock/internal/domain"
)

func TestCreateThenList(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	for _, name := range []string{"Flour", "Butter", "Yeast"} {
		item := &domain.InventoryItem{Name: name, Unit: "kg", CurrentStock: 5}
		item.OwnerID = "user-1"
		if err := repos.Inventory.Create(ctx, item); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	other := &domain.InventoryItem{Name: "Sugar"}
	other.OwnerID = "user-2"
	if err := repos.Inventory.Create(ctx, other); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := repos.Inventory.ListByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"Butter", "Flour", "Yeast"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, item := range items {
		if item.Name != want[i] {
			t.Errorf("item %d: expected %s, got %s", i, want[i], item.Name)
		}
		if item.ID.IsZero() || item.CreatedAt.IsZero() {
			t.Errorf("item %d: missing id or creation time", i)
		}
		if item.OwnerID != "user-1" {
			t.Errorf("item %d: leaked owner %s", i, item.OwnerID)
		}
	}
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	for _, date := range []string{"2024-03-02", "2024-03-05", "2024-03-01"} {
		rec := &domain.SalesRecord{Date: date, Item: "Bagel", Quantity: 3, Revenue: 7.5}
		rec.OwnerID = "user-1"
		if err := repos.Sales.Create(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	records, err := repos.Sales.ListByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"2024-03-05", "2024-03-02", "2024-03-01"}
	for i, rec := range records {
		if rec.Date != want[i] {
			t.Errorf("record %d: expected %s, got %s", i, want[i], rec.Date)
		}
	}
}

func TestListEmpty(t *testing.T) {
	items, err := New().Repositories().Suppliers.ListByOwner(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestUpdatePatchesFields(t *testing.T) {
	ctx := context.Background()
	s := New()
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	repos := s.Repositories()

	item := &domain.InventoryItem{Name: "Flour", Unit: "kg", CurrentStock: 10, MinStock: 4}
	item.OwnerID = "user-1"
	if err := repos.Inventory.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	clock = clock.Add(time.Hour)
	zero := 0.0
	updated, err := repos.Inventory.UpdateByID(ctx, "user-1", item.ID.Hex(), domain.InventoryPatch{CurrentStock: &zero})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.CurrentStock != 0 {
		t.Errorf("expected stock 0, got %v", updated.CurrentStock)
	}
	if updated.Name != "Flour" || updated.MinStock != 4 {
		t.Errorf("unpatched fields changed: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(clock) {
		t.Errorf("expected updatedAt %v, got %v", clock, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(item.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", item.CreatedAt, updated.CreatedAt)
	}

	got, err := repos.Inventory.GetByID(ctx, "user-1", item.ID.Hex())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CurrentStock != 0 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	supplier := &domain.Supplier{Name: "Mill & Co"}
	supplier.OwnerID = "user-1"
	if err := repos.Suppliers.Create(ctx, supplier); err != nil {
		t.Fatalf("create: %v", err)
	}

	id := supplier.ID.Hex()
	if _, err := repos.Suppliers.GetByID(ctx, "user-2", id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := repos.Suppliers.UpdateByID(ctx, "user-2", id, map[string]any{"name": "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("update: expected ErrNotFound, got %v", err)
	}
	if err := repos.Suppliers.DeleteByID(ctx, "user-2", id); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}
	if _, err := repos.Suppliers.GetByID(ctx, "user-1", id); err != nil {
		t.Errorf("record of user-1 was touched: %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	item := &domain.MenuItem{Name: "Croissant", Price: 3.2}
	item.OwnerID = "user-1"
	if err := repos.MenuItems.Create(ctx, item); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repos.MenuItems.DeleteByID(ctx, "user-1", item.ID.Hex()); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := repos.MenuItems.DeleteByID(ctx, "user-1", item.ID.Hex()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	items, err := repos.MenuItems.ListByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Repositories().Inventory.Create(ctx, &domain.InventoryItem{Name: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestImportTasks(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	task := &domain.ImportTask{OwnerID: "user-1", Status: domain.StatusQueued, SpreadsheetID: "sheet"}
	if err := repos.ImportTasks.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repos.ImportTasks.IncrementRetryCount(ctx, task.ID); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if err := repos.ImportTasks.Complete(ctx, task.ID, 12); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := repos.ImportTasks.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusCompleted || got.Imported != 12 || got.RetryCount != 1 {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestStockAuditNewestFirst(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		audit := &domain.StockAudit{
			OwnerID:         "user-1",
			InventoryItemID: "item-1",
			NewStock:        float64(i),
			Timestamp:       base.Add(time.Duration(i) * time.Minute),
		}
		if err := repos.StockAudit.Create(ctx, audit); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	audits, err := repos.StockAudit.ListByItem(ctx, "user-1", "item-1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(audits) != 2 || audits[0].NewStock != 2 || audits[1].NewStock != 1 {
		t.Fatalf("unexpected audits: %+v", audits)
	}
}
