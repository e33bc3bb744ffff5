package supplier

import (
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CUSTOM_SUPPLIER_API_URL", "https://supplier.test/v1")
	t.Setenv("CUSTOM_SUPPLIER_API_KEY", "key")
	t.Setenv("WEBHOOK_SUPPLIER_URL", "")
	t.Setenv("GRAPHQL_SUPPLIER_KEY", "")

	registry := LoadFromEnv()

	list := registry.List()
	if len(list) != 4 {
		t.Fatalf("expected 4 suppliers, got %d", len(list))
	}
	if list[0].ID != "custom_supplier_1" {
		t.Errorf("expected suppliers ordered by id, got %s first", list[0].ID)
	}

	c, ok := registry.Get("custom_supplier_1")
	if !ok || c.BaseURL != "https://supplier.test/v1" || c.RetryAttempts != 3 {
		t.Fatalf("unexpected config %+v", c)
	}

	active := map[string]bool{}
	for _, c := range registry.Active() {
		active[c.ID] = true
	}
	if !active["custom_supplier_1"] || !active["soap_supplier"] {
		t.Errorf("expected rest and soap suppliers active, got %v", active)
	}
	if active["webhook_supplier"] || active["graphql_supplier"] {
		t.Errorf("unconfigured suppliers reported active: %v", active)
	}

	if issues := registry.Validate(); len(issues) != 0 {
		t.Errorf("unexpected issues %v", issues)
	}
}

func TestValidate(t *testing.T) {
	registry := NewRegistry(
		Config{ID: "a", Kind: KindAPI},
		Config{ID: "b", Name: "B"},
	)

	issues := registry.Validate()
	want := []string{
		"a: Missing name",
		"a: Missing base_url for API integration",
		"b: Missing integration_type",
	}
	if len(issues) != len(want) {
		t.Fatalf("expected %v, got %v", want, issues)
	}
	for i := range want {
		if issues[i] != want[i] {
			t.Errorf("issue %d: expected %q, got %q", i, want[i], issues[i])
		}
	}
}
