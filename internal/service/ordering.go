package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Beka01247/smart-stock/internal/analytics"
	"github.com/Beka01247/smart-stock/internal/cache"
	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/repo"
	"github.com/Beka01247/smart-stock/internal/supplier"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const pricingCachePrefix = "pricing:"

type OrderingConfig struct {
	PricingTTL time.Duration
	RetryDelay time.Duration
}

type Ordering struct {
	registry  *supplier.Registry
	cache     *cache.Cache
	orders    repo.RecordRepository[domain.SupplierOrder]
	templates repo.RecordRepository[domain.OrderTemplate]
	analytics *Analytics
	notifier  Notifier
	cfg       OrderingConfig
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewOrdering(
	registry *supplier.Registry,
	c *cache.Cache,
	r repo.Repositories,
	views *Analytics,
	notifier Notifier,
	cfg OrderingConfig,
	logger *zap.SugaredLogger,
) *Ordering {
	if cfg.PricingTTL <= 0 {
		cfg.PricingTTL = 5 * time.Minute
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Ordering{
		registry:  registry,
		cache:     c,
		orders:    r.SupplierOrders,
		templates: r.OrderTemplates,
		analytics: views,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Ordering) Suppliers() []supplier.Config {
	return s.registry.List()
}

func (s *Ordering) upstream(supplierID string) supplier.Upstream {
	return s.registry.Upstream(supplierID, s.cfg.RetryDelay, s.logger)
}

func (s *Ordering) supplierName(supplierID string) string {
	if c, ok := s.registry.Get(supplierID); ok && c.Name != "" {
		return c.Name
	}
	return supplierID
}

// Pricing quotes the items at a supplier. Quotes are cached per supplier
// and item list.
func (s *Ordering) Pricing(ctx context.Context, supplierID string, items []string) ([]supplier.Price, error) {
	supplierID = strings.TrimSpace(supplierID)
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			names = append(names, item)
		}
	}
	if supplierID == "" || len(names) == 0 {
		return nil, fmt.Errorf("%w: supplier_id and at least one item are required", ErrInvalidInput)
	}

	key := pricingKey(supplierID, names)
	if cached, ok := s.cache.Get(key, s.cfg.PricingTTL); ok {
		if prices, ok := cached.([]supplier.Price); ok {
			s.logger.Infow("pricing cache hit", "supplier_id", supplierID, "items", len(names))
			return prices, nil
		}
	}

	prices, err := s.upstream(supplierID).Pricing(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to get pricing: %w", err)
	}

	// fallback quotes stand in for an outage and must not outlive it
	if ctx.Err() == nil && !hasFallbackPrice(prices) {
		s.cache.Set(key, prices)
	}
	return prices, nil
}

// pricingKey quotes every item so names containing the separator cannot
// collide with another item list.
func pricingKey(supplierID string, names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = strconv.Quote(name)
	}
	return pricingCachePrefix + supplierID + ":" + strings.Join(quoted, ",")
}

func hasFallbackPrice(prices []supplier.Price) bool {
	for _, p := range prices {
		if p.Note == supplier.FallbackNote {
			return true
		}
	}
	return false
}

// PlaceOrder sends the order to the supplier, stores it and queues an
// order notification. The total is computed here from the item prices;
// whatever the supplier reports is ignored.
func (s *Ordering) PlaceOrder(ctx context.Context, owner string, order supplier.Order) (*supplier.OrderResult, error) {
	return s.place(ctx, owner, order, false)
}

func (s *Ordering) place(ctx context.Context, owner string, order supplier.Order, batch bool) (*supplier.OrderResult, error) {
	if err := Validate.Struct(order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if order.CustomerID == "" {
		order.CustomerID = owner
	}

	total := supplier.ItemsTotal(order.Items)

	result, err := s.upstream(order.SupplierID).PlaceOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	orderID := "ORD-" + strings.ToUpper(uuid.New().String()[:8])
	result.SupplierOrderID = result.OrderID
	result.OrderID = orderID
	result.TotalCost = total
	if result.OrderDate.IsZero() {
		result.OrderDate = s.now().UTC()
	}

	record := &domain.SupplierOrder{
		OrderID:         orderID,
		ExternalOrderID: result.SupplierOrderID,
		SupplierID:      order.SupplierID,
		SupplierName:    s.supplierName(order.SupplierID),
		Items:           order.Items,
		TotalCost:       total,
		Status:          orderStatus(result),
		DeliveryDate:    order.DeliveryDate,
		Notes:           order.Notes,
		Fallback:        result.Fallback,
		Batch:           batch,
	}
	record.OwnerID = owner
	if err := s.orders.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.logger.Infow("supplier order placed",
		"order_id", orderID,
		"supplier_id", order.SupplierID,
		"total_cost", total,
		"fallback", result.Fallback,
	)

	if err := s.notifier.Notify(ctx, owner, domain.EventOrderPlaced, orderSubject(record), orderBody(record)); err != nil {
		s.logger.Warnw("failed to queue order notification", "order_id", orderID, "error", err)
	}

	return &result, nil
}

func orderStatus(r supplier.OrderResult) domain.SupplierOrderStatus {
	switch {
	case r.Fallback:
		return domain.OrderOfflineMode
	case r.Status == string(domain.OrderSubmitted):
		return domain.OrderSubmitted
	case r.Status == string(domain.OrderPending):
		return domain.OrderPending
	default:
		return domain.OrderSentViaAPI
	}
}

func orderSubject(o *domain.SupplierOrder) string {
	return fmt.Sprintf("Order %s placed with %s", o.OrderID, o.SupplierName)
}

func orderBody(o *domain.SupplierOrder) string {
	var b strings.Builder
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %g %s %s @ %.2f\n", item.Quantity, item.Unit, item.Name, item.Price)
	}
	fmt.Fprintf(&b, "Total: %.2f", o.TotalCost)
	if o.DeliveryDate != "" {
		fmt.Fprintf(&b, "\nDelivery: %s", o.DeliveryDate)
	}
	if o.Fallback {
		b.WriteString("\nThe supplier could not be reached; the order was recorded offline.")
	}
	return b.String()
}

// PlaceFromTemplate places the owner's saved order template. The delivery
// date is the next preferred delivery day after today, when the template
// names any.
func (s *Ordering) PlaceFromTemplate(ctx context.Context, owner, templateID string) (*supplier.OrderResult, error) {
	tmpl, err := s.templates.GetByID(ctx, owner, templateID)
	if err != nil {
		return nil, err
	}

	if total := supplier.ItemsTotal(tmpl.Items); total < tmpl.MinimumOrderValue {
		return nil, fmt.Errorf("%w: order total %.2f is below the template minimum %.2f", ErrInvalidInput, total, tmpl.MinimumOrderValue)
	}

	return s.PlaceOrder(ctx, owner, supplier.Order{
		SupplierID:   tmpl.SupplierID,
		Items:        tmpl.Items,
		DeliveryDate: nextDeliveryDate(s.now(), tmpl.PreferredDeliveryDays),
		Notes:        tmpl.Notes,
	})
}

// nextDeliveryDate returns the first date after from whose weekday is in
// days, formatted YYYY-MM-DD. Unknown day names are ignored.
func nextDeliveryDate(from time.Time, days []string) string {
	want := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.EqualFold(strings.TrimSpace(d), wd.String()) {
				want[wd] = true
			}
		}
	}
	if len(want) == 0 {
		return ""
	}

	for i := 1; i <= 7; i++ {
		day := from.AddDate(0, 0, i)
		if want[day.Weekday()] {
			return day.Format("2006-01-02")
		}
	}
	return ""
}

func (s *Ordering) Orders(ctx context.Context, owner string) ([]domain.SupplierOrder, error) {
	return s.orders.ListByOwner(ctx, owner)
}

// BatchOrder places one order per supplier. Items missing for a supplier
// are taken from the owner's template for it; the delivery date and notes
// likewise default to the template's.
type BatchOrder struct {
	Suppliers    []string                      `json:"suppliers" validate:"required,min=1,dive,required"`
	Items        map[string][]domain.OrderItem `json:"items,omitempty"`
	DeliveryDate string                        `json:"deliveryDate,omitempty"`
	Notes        string                        `json:"notes,omitempty"`
}

type BatchError struct {
	SupplierID string `json:"supplierId"`
	Error      string `json:"error"`
}

type BatchResult struct {
	Success bool                   `json:"success"`
	Orders  []supplier.OrderResult `json:"orders"`
	Errors  []BatchError           `json:"errors"`
}

// PlaceBatch places the batch supplier by supplier. A supplier whose order
// cannot be placed is reported in Errors and does not stop the others.
func (s *Ordering) PlaceBatch(ctx context.Context, owner string, batch BatchOrder) (*BatchResult, error) {
	if err := Validate.Struct(batch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	templates, err := s.templates.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list order templates: %w", err)
	}
	bySupplier := make(map[string]domain.OrderTemplate, len(templates))
	for _, t := range templates {
		if _, ok := bySupplier[t.SupplierID]; !ok {
			bySupplier[t.SupplierID] = t
		}
	}

	res := &BatchResult{Orders: make([]supplier.OrderResult, 0), Errors: make([]BatchError, 0)}
	seen := make(map[string]bool, len(batch.Suppliers))
	for _, id := range batch.Suppliers {
		id = strings.TrimSpace(id)
		if seen[id] {
			continue
		}
		seen[id] = true

		order, err := s.batchOrder(id, batch, bySupplier)
		if err == nil {
			var result *supplier.OrderResult
			result, err = s.place(ctx, owner, order, true)
			if err == nil {
				res.Orders = append(res.Orders, *result)
				continue
			}
		}
		s.logger.Warnw("batch order failed", "supplier_id", id, "error", err)
		res.Errors = append(res.Errors, BatchError{SupplierID: id, Error: err.Error()})
	}

	res.Success = len(res.Orders) > 0
	s.logger.Infow("batch order placed", "user_id", owner, "orders", len(res.Orders), "errors", len(res.Errors))
	return res, nil
}

func (s *Ordering) batchOrder(supplierID string, batch BatchOrder, templates map[string]domain.OrderTemplate) (supplier.Order, error) {
	order := supplier.Order{
		SupplierID:   supplierID,
		Items:        batch.Items[supplierID],
		DeliveryDate: batch.DeliveryDate,
		Notes:        batch.Notes,
	}

	tmpl, ok := templates[supplierID]
	if len(order.Items) == 0 {
		if !ok {
			return order, fmt.Errorf("%w: no items and no order template for supplier %s", ErrInvalidInput, supplierID)
		}
		if total := supplier.ItemsTotal(tmpl.Items); total < tmpl.MinimumOrderValue {
			return order, fmt.Errorf("%w: order total %.2f is below the template minimum %.2f", ErrInvalidInput, total, tmpl.MinimumOrderValue)
		}
		order.Items = tmpl.Items
	}
	if ok && order.DeliveryDate == "" {
		order.DeliveryDate = nextDeliveryDate(s.now(), tmpl.PreferredDeliveryDays)
	}
	if ok && order.Notes == "" {
		order.Notes = tmpl.Notes
	}
	return order, nil
}

// UpdateOrderStatus moves a stored order along its lifecycle. Unknown
// statuses and moves out of a final status are invalid input.
func (s *Ordering) UpdateOrderStatus(ctx context.Context, owner, id string, status domain.SupplierOrderStatus) (*domain.SupplierOrder, error) {
	switch status {
	case domain.OrderPending, domain.OrderConfirmed, domain.OrderDelivered, domain.OrderCancelled:
	default:
		return nil, fmt.Errorf("%w: status must be one of pending, confirmed, delivered, cancelled", ErrInvalidInput)
	}

	order, err := s.orders.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanBecome(status) {
		return nil, fmt.Errorf("%w: order %s cannot move from %s to %s", ErrInvalidInput, order.OrderID, order.Status, status)
	}
	if order.Status == status {
		return order, nil
	}

	updated, err := s.orders.UpdateByID(ctx, owner, id, domain.SupplierOrderStatusPatch{Status: &status})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("supplier order status updated", "order_id", order.OrderID, "from", order.Status, "to", status)
	return updated, nil
}

func (s *Ordering) Suggestions(ctx context.Context, owner string, coverDays, window int) ([]analytics.Suggestion, error) {
	return s.analytics.Suggestions(ctx, owner, coverDays, window)
}

type ConnectionTest struct {
	Success         bool   `json:"success"`
	SupplierID      string `json:"supplier_id"`
	SupplierName    string `json:"supplier_name"`
	IntegrationType string `json:"integration_type"`
	Active          bool   `json:"active"`
	PricingTest     bool   `json:"pricing_test"`
	Fallback        bool   `json:"fallback"`
	Message         string `json:"message"`
}

var connectionTestItems = []string{"coffee", "milk"}

// TestSupplier asks the supplier for a quote. The connection counts as
// working only when the quote did not come from the fallback.
func (s *Ordering) TestSupplier(ctx context.Context, supplierID string) (*ConnectionTest, error) {
	c, ok := s.registry.Get(supplierID)
	if !ok {
		return nil, domain.ErrNotFound
	}

	result := &ConnectionTest{
		SupplierID:      c.ID,
		SupplierName:    c.Name,
		IntegrationType: string(c.Kind),
		Active:          c.Active(),
	}

	prices, err := s.upstream(supplierID).Pricing(ctx, connectionTestItems)
	if err != nil {
		result.Message = "Connection failed: " + err.Error()
		return result, nil
	}

	result.PricingTest = len(prices) > 0
	for _, p := range prices {
		if p.Note == supplier.FallbackNote {
			result.Fallback = true
		}
	}
	result.Success = result.PricingTest && !result.Fallback
	if result.Success {
		result.Message = "Connection successful"
	} else {
		result.Message = "Connection failed, serving fallback pricing"
	}
	return result, nil
}

// ClearPricingCache evicts cached quotes, of one supplier when supplierID
// is set.
func (s *Ordering) ClearPricingCache(supplierID string) int {
	prefix := pricingCachePrefix
	if supplierID != "" {
		prefix += supplierID + ":"
	}
	return s.cache.DeletePrefix(prefix)
}
