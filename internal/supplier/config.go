package supplier

import (
	"fmt"
	"sort"
	"time"

	"github.com/Beka01247/smart-stock/internal/env"
)

type Kind string

const (
	KindAPI     Kind = "api"
	KindWebhook Kind = "webhook"
	KindGraphQL Kind = "graphql"
	KindSOAP    Kind = "soap"
	KindEmail   Kind = "email"
)

type Contact struct {
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Website       string `json:"website,omitempty"`
	Documentation string `json:"documentation,omitempty"`
}

type Config struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Kind          Kind              `json:"integration_type"`
	BaseURL       string            `json:"-"`
	APIKey        string            `json:"-"`
	AuthHeader    string            `json:"-"`
	AuthPrefix    string            `json:"-"`
	Endpoints     map[string]string `json:"-"`
	WebhookURL    string            `json:"-"`
	Secret        string            `json:"-"`
	OrderEmail    string            `json:"order_email,omitempty"`
	GraphQLURL    string            `json:"-"`
	Queries       map[string]string `json:"-"`
	SOAPURL       string            `json:"-"`
	Namespace     string            `json:"-"`
	SOAPActions   map[string]string `json:"-"`
	Timeout       time.Duration     `json:"-"`
	RetryAttempts int               `json:"-"`
	Features      []string          `json:"features"`
	Contact       Contact           `json:"contact"`
	MinimumOrder  float64           `json:"minimum_order,omitempty"`
	Delivery      string            `json:"delivery_schedule,omitempty"`
}

func (c Config) endpoint(name, fallback string) string {
	if e, ok := c.Endpoints[name]; ok && e != "" {
		return e
	}
	return fallback
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}

// Active reports whether the supplier has enough configuration to be
// called.
func (c Config) Active() bool {
	switch c.Kind {
	case KindAPI:
		return c.BaseURL != "" && c.APIKey != ""
	case KindWebhook:
		return c.WebhookURL != ""
	case KindGraphQL:
		return c.GraphQLURL != "" && c.APIKey != ""
	case KindSOAP:
		return c.SOAPURL != ""
	}
	return false
}

const graphQLPricingQuery = `query GetPricing($items: [String!]!) {
  pricing(items: $items) {
    sku
    name
    price
    currency
    unit
    availability
    minimumOrder
  }
}`

const graphQLPlaceOrderMutation = `mutation PlaceOrder($order: OrderInput!) {
  placeOrder(input: $order) {
    orderId
    status
    total
    estimatedDelivery
  }
}`

// LoadFromEnv builds the registry of known suppliers. URLs and credentials
// come from the environment.
func LoadFromEnv() *Registry {
	return NewRegistry(
		Config{
			ID:         "custom_supplier_1",
			Name:       "Your Custom Supplier",
			Kind:       KindAPI,
			BaseURL:    env.GetString("CUSTOM_SUPPLIER_API_URL", "https://api.yourcustomsupplier.com/v1"),
			APIKey:     env.GetString("CUSTOM_SUPPLIER_API_KEY", ""),
			AuthHeader: env.GetString("CUSTOM_SUPPLIER_AUTH_HEADER", "Authorization"),
			AuthPrefix: env.GetString("CUSTOM_SUPPLIER_AUTH_PREFIX", "Bearer "),
			Endpoints: map[string]string{
				"catalog":      "/products",
				"pricing":      "/pricing/bulk",
				"orders":       "/orders",
				"order_status": "/orders/{order_id}/status",
			},
			Timeout:       env.GetDuration("CUSTOM_SUPPLIER_TIMEOUT", 30*time.Second),
			RetryAttempts: env.GetInt("CUSTOM_SUPPLIER_RETRY_ATTEMPTS", 3),
			Features:      []string{"Real-time Pricing", "Order Placement", "Inventory Sync", "Order Tracking"},
			Contact: Contact{
				Email:         "api-support@yourcustomsupplier.com",
				Phone:         "+1-555-0123",
				Website:       "https://yourcustomsupplier.com",
				Documentation: "https://docs.yourcustomsupplier.com/api",
			},
			MinimumOrder: 100,
			Delivery:     "2-3 business days",
		},
		Config{
			ID:         "webhook_supplier",
			Name:       "Webhook-Based Supplier",
			Kind:       KindWebhook,
			WebhookURL: env.GetString("WEBHOOK_SUPPLIER_URL", ""),
			Secret:     env.GetString("WEBHOOK_SUPPLIER_SECRET", ""),
			OrderEmail: "orders@webhooksupplier.com",
			Features:   []string{"Email Orders", "Price Lists", "Order Confirmation", "Status Updates"},
			Contact: Contact{
				Email: "support@webhooksupplier.com",
				Phone: "+1-555-0456",
			},
		},
		Config{
			ID:         "graphql_supplier",
			Name:       "GraphQL Supplier",
			Kind:       KindGraphQL,
			GraphQLURL: env.GetString("GRAPHQL_SUPPLIER_URL", "https://api.graphqlsupplier.com/graphql"),
			APIKey:     env.GetString("GRAPHQL_SUPPLIER_KEY", ""),
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
			Queries: map[string]string{
				"pricing":     graphQLPricingQuery,
				"place_order": graphQLPlaceOrderMutation,
			},
			Features: []string{"GraphQL API", "Real-time Data", "Complex Queries"},
			Contact:  Contact{Email: "dev@graphqlsupplier.com"},
		},
		Config{
			ID:        "soap_supplier",
			Name:      "SOAP/XML Supplier",
			Kind:      KindSOAP,
			SOAPURL:   env.GetString("SOAP_SUPPLIER_URL", "https://api.soapsupplier.com/soap"),
			Namespace: "http://schemas.soapsupplier.com/",
			SOAPActions: map[string]string{
				"get_pricing":      "GetPricing",
				"place_order":      "PlaceOrder",
				"get_order_status": "GetOrderStatus",
			},
			Features: []string{"SOAP Integration", "XML Data", "Legacy System Support"},
			Contact:  Contact{Email: "integration@soapsupplier.com"},
		},
	)
}

// Registry holds supplier configurations by id.
type Registry struct {
	suppliers map[string]Config
}

func NewRegistry(configs ...Config) *Registry {
	r := &Registry{suppliers: make(map[string]Config, len(configs))}
	for _, c := range configs {
		r.suppliers[c.ID] = c
	}
	return r
}

func (r *Registry) Get(id string) (Config, bool) {
	c, ok := r.suppliers[id]
	return c, ok
}

// List returns every supplier ordered by id.
func (r *Registry) List() []Config {
	list := make([]Config, 0, len(r.suppliers))
	for _, c := range r.suppliers {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (r *Registry) Active() []Config {
	var active []Config
	for _, c := range r.List() {
		if c.Active() {
			active = append(active, c)
		}
	}
	return active
}

// Validate lists configuration problems, one line per problem.
func (r *Registry) Validate() []string {
	var issues []string
	for _, c := range r.List() {
		if c.Name == "" {
			issues = append(issues, fmt.Sprintf("%s: Missing name", c.ID))
		}
		switch c.Kind {
		case "":
			issues = append(issues, fmt.Sprintf("%s: Missing integration_type", c.ID))
		case KindAPI:
			if c.BaseURL == "" {
				issues = append(issues, fmt.Sprintf("%s: Missing base_url for API integration", c.ID))
			}
		case KindGraphQL:
			if c.GraphQLURL == "" {
				issues = append(issues, fmt.Sprintf("%s: Missing graphql_url for GraphQL integration", c.ID))
			}
		case KindSOAP:
			if c.SOAPURL == "" {
				issues = append(issues, fmt.Sprintf("%s: Missing soap_url for SOAP integration", c.ID))
			}
		}
	}
	return issues
}
