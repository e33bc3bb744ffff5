package supplier

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/Beka01247/smart-stock/internal/domain"
	"github.com/Beka01247/smart-stock/internal/retry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const FallbackNote = "Fallback pricing - API unavailable"

// Fallback synthesizes pricing and order responses locally. It never fails.
type Fallback struct {
	SupplierID   string
	SupplierName string
}

func (f Fallback) Pricing(_ context.Context, items []string) ([]Price, error) {
	prices := make([]Price, 0, len(items))
	for _, item := range items {
		prices = append(prices, Price{
			ItemID:      f.SupplierID + "_" + snake(item),
			ItemName:    titleCase(item),
			Price:       fallbackPrice(item),
			Currency:    "USD",
			Unit:        "each",
			LastUpdated: now(),
			SupplierID:  f.SupplierID,
			Note:        FallbackNote,
		})
	}
	return prices, nil
}

func (f Fallback) PlaceOrder(_ context.Context, order Order) (OrderResult, error) {
	return OrderResult{
		Success:           true,
		OrderID:           timestampID("MOCK"),
		Status:            string(domain.OrderPending),
		TotalCost:         ItemsTotal(order.Items),
		EstimatedDelivery: "2-3 business days",
		Message:           fmt.Sprintf("Order placed with %s (offline mode)", orDefault(f.SupplierName, f.SupplierID)),
		OrderDate:         now(),
		Fallback:          true,
	}, nil
}

// fallbackPrice is a stable price between 10 and 59 derived from the item
// name.
func fallbackPrice(item string) float64 {
	h := fnv.New32a()
	h.Write([]byte(item))
	return float64(h.Sum32()%50 + 10)
}

// ItemsTotal sums price times quantity in decimal, rounded to cents.
func ItemsTotal(items []domain.OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromFloat(item.Quantity)))
	}
	return total.Round(2).InexactFloat64()
}

type fallbackUpstream struct {
	primary  Upstream
	fallback Upstream
	policy   retry.Policy
	logger   *zap.SugaredLogger
	name     string
}

// WithFallback tries primary under the retry policy and, when it keeps
// failing, answers from fallback instead.
func WithFallback(name string, primary, fallback Upstream, policy retry.Policy, logger *zap.SugaredLogger) Upstream {
	return &fallbackUpstream{
		primary:  primary,
		fallback: fallback,
		policy:   policy,
		logger:   logger,
		name:     name,
	}
}

func (u *fallbackUpstream) Pricing(ctx context.Context, items []string) ([]Price, error) {
	var prices []Price
	err := retry.Do(ctx, u.policy, func(ctx context.Context) error {
		var err error
		prices, err = u.primary.Pricing(ctx, items)
		return permanentIfUnretryable(err)
	})
	if err == nil {
		return prices, nil
	}

	u.logger.Warnw("supplier pricing failed, using fallback", "supplier_id", u.name, "error", err.Error())
	return u.fallback.Pricing(ctx, items)
}

func (u *fallbackUpstream) PlaceOrder(ctx context.Context, order Order) (OrderResult, error) {
	var result OrderResult
	err := retry.Do(ctx, u.policy, func(ctx context.Context) error {
		var err error
		result, err = u.primary.PlaceOrder(ctx, order)
		return permanentIfUnretryable(err)
	})
	if err == nil {
		return result, nil
	}

	u.logger.Warnw("supplier order failed, using fallback", "supplier_id", u.name, "error", err.Error())
	return u.fallback.PlaceOrder(ctx, order)
}

// Missing configuration and unsupported operations will not change on retry.
func permanentIfUnretryable(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrUnsupported) {
		return retry.Permanent(err)
	}
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != 429 {
		return retry.Permanent(err)
	}
	return err
}

// unavailable is the primary for suppliers nobody configured.
type unavailable struct {
	id string
}

func (u unavailable) Pricing(context.Context, []string) ([]Price, error) {
	return nil, fmt.Errorf("%w: unknown supplier %s", ErrNotConfigured, u.id)
}

func (u unavailable) PlaceOrder(context.Context, Order) (OrderResult, error) {
	return OrderResult{}, fmt.Errorf("%w: unknown supplier %s", ErrNotConfigured, u.id)
}

// Upstream returns the supplier's integration wrapped with the fallback.
// Unknown ids get the fallback alone so callers never hard-fail.
func (r *Registry) Upstream(id string, delay time.Duration, logger *zap.SugaredLogger) Upstream {
	c, ok := r.Get(id)
	if !ok {
		return WithFallback(id, unavailable{id: id}, Fallback{SupplierID: id, SupplierName: id}, retry.Policy{Attempts: 1}, logger)
	}

	var primary Upstream
	switch c.Kind {
	case KindAPI:
		primary = NewREST(c)
	case KindGraphQL:
		primary = NewGraphQL(c)
	case KindSOAP:
		primary = NewSOAP(c)
	case KindWebhook, KindEmail:
		primary = NewWebhook(c)
	default:
		primary = unavailable{id: id}
	}

	attempts := c.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	return WithFallback(id, primary, Fallback{SupplierID: c.ID, SupplierName: c.Name}, retry.Policy{Attempts: attempts, Delay: delay}, logger)
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest: "coffee beans" -> "Coffee Beans".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

func sortPrices(prices []Price) {
	sort.Slice(prices, func(i, j int) bool { return prices[i].ItemID < prices[j].ItemID })
}
