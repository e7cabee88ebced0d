package nested

import "testing"

func TestGetValueLeaf(t *testing.T) {
	data := map[string]any{
		"crm": map[string]any{
			"table": "customers",
		},
	}

	got := GetValue([]string{"crm", "table"}, data)
	if got != "customers" {
		t.Fatalf("expected customers, got %v", got)
	}
}

func TestGetValueTopLevel(t *testing.T) {
	data := map[string]any{"name": "Campaign"}

	if got := GetValue([]string{"name"}, data); got != "Campaign" {
		t.Fatalf("expected Campaign, got %v", got)
	}
}

func TestGetValueMissingKey(t *testing.T) {
	data := map[string]any{
		"crm": map[string]any{
			"table": "customers",
		},
	}

	if got := GetValue([]string{"crm", "column"}, data); got != nil {
		t.Fatalf("expected nil for missing key, got %v", got)
	}
}

func TestGetValuePathPastLeaf(t *testing.T) {
	data := map[string]any{
		"crm": map[string]any{
			"table": "customers",
		},
	}

	if got := GetValue([]string{"crm", "table", "name"}, data); got != nil {
		t.Fatalf("expected nil when descending past a leaf, got %v", got)
	}
}

func TestGetValueNilData(t *testing.T) {
	if got := GetValue([]string{"crm"}, nil); got != nil {
		t.Fatalf("expected nil for nil data, got %v", got)
	}
}

func TestGetValueEmptyPath(t *testing.T) {
	data := map[string]any{"a": 1}

	got := GetValue(nil, data)
	if m, ok := got.(map[string]any); !ok || m["a"] != 1 {
		t.Fatalf("expected the data itself for an empty path, got %v", got)
	}
}
