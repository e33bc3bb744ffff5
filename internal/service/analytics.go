package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Beka01247/smart-stock/internal/analytics"
	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/repo"
)

// Analytics builds the read-only views over an owner's records.
type Analytics struct {
	inventory repo.RecordRepository[domain.InventoryItem]
	menu      repo.RecordRepository[domain.MenuItem]
	sales     repo.RecordRepository[domain.SalesRecord]
	now       func() time.Time
}

func NewAnalytics(r repo.Repositories) *Analytics {
	return &Analytics{
		inventory: r.Inventory,
		menu:      r.MenuItems,
		sales:     r.Sales,
		now:       time.Now,
	}
}

func (s *Analytics) Dashboard(ctx context.Context, owner string) (*analytics.Dashboard, error) {
	items, err := s.inventory.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	menu, err := s.menu.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	sales, err := s.sales.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	d := analytics.BuildDashboard(items, menu, sales, s.now().UTC())
	return &d, nil
}

func (s *Analytics) Forecast(ctx context.Context, owner string, days, window int) (*analytics.Projection, error) {
	if err := checkHorizon(days, window); err != nil {
		return nil, err
	}
	sales, err := s.sales.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	f := analytics.Forecast(sales, days, window)
	return &f, nil
}

// Suggestions proposes restocking orders from the stock levels and the
// ingredient demand implied by the sales forecast.
func (s *Analytics) Suggestions(ctx context.Context, owner string, coverDays, window int) ([]analytics.Suggestion, error) {
	if err := checkHorizon(coverDays, window); err != nil {
		return nil, err
	}
	items, err := s.inventory.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	menu, err := s.menu.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	sales, err := s.sales.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	demand := analytics.IngredientDemand(analytics.Forecast(sales, coverDays, window), menu)
	return analytics.SuggestOrders(items, demand, coverDays), nil
}

func (s *Analytics) MenuCosts(ctx context.Context, owner string) ([]analytics.MenuCost, error) {
	items, err := s.inventory.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	menu, err := s.menu.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	return analytics.CostMenu(menu, items), nil
}

func checkHorizon(days, window int) error {
	if days > analytics.MaxForecastDays || window > analytics.MaxForecastDays {
		return fmt.Errorf("%w: days and window must be at most %d", ErrInvalidInput, analytics.MaxForecastDays)
	}
	return nil
}
