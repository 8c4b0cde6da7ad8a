package filter

import (
	"strings"
	"testing"

	"github.com/kuberocketai/contenthub/internal/domain/category"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/domain/search"
)

func item(id, name string, categories ...string) content.Item {
	cats := make([]any, len(categories))
	for i, c := range categories {
		cats[i] = c
	}
	return content.Reconstruct(map[string]any{
		"id":         id,
		"name":       name,
		"categories": cats,
	})
}

func testConfig(t *testing.T) search.Config {
	t.Helper()
	cfg, err := search.NewConfig([]string{"name", "description"}, "categories", "", 0, 0, 0)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	return cfg
}

func ids(items []content.Item) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return strings.Join(out, ",")
}

// --- MatchText ---

func TestMatchText(t *testing.T) {
	it := content.Reconstruct(map[string]any{
		"id":          "dev",
		"name":        "Developer",
		"description": "Writes Go code",
		"count":       42,
	})

	tests := []struct {
		name   string
		query  string
		fields []string
		want   bool
	}{
		{"empty query", "", []string{"name"}, true},
		{"whitespace query", "   ", []string{"name"}, true},
		{"name substring", "velo", []string{"name"}, true},
		{"case-insensitive", "go code", []string{"description"}, true},
		{"field not searched", "go", []string{"name"}, false},
		{"absent field skipped", "dev", []string{"missing", "name"}, true},
		{"non-string field skipped", "42", []string{"count"}, false},
		{"no fields", "dev", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchText(it, strings.ToLower(tt.query), tt.fields); got != tt.want {
				t.Errorf("MatchText(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

// --- MatchCategory ---

func TestMatchCategory(t *testing.T) {
	tagged := item("a", "Alpha", "Testing", "Development")
	bare := content.Reconstruct(map[string]any{"id": "b", "name": "Beta"})
	empty := item("c", "Gamma")
	padded := item("d", "Delta", " Testing ", "Dev")

	tests := []struct {
		name     string
		it       content.Item
		selected string
		want     bool
	}{
		{"all matches tagged", tagged, search.All, true},
		{"all matches bare", bare, search.All, true},
		{"empty selection is all", bare, "", true},
		{"exact label", tagged, "Testing", true},
		{"prefix is not a match", tagged, "Test", false},
		{"case-sensitive", tagged, "testing", false},
		{"missing field", bare, "Testing", false},
		{"empty field", empty, "Testing", false},
		{"padded label matches trimmed selection", padded, "Testing", true},
		{"padded selection", tagged, " Testing", true},
		{"trim does not widen to prefix", padded, "Test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchCategory(tt.it, tt.selected, "categories"); got != tt.want {
				t.Errorf("MatchCategory(%q) = %v, want %v", tt.selected, got, tt.want)
			}
		})
	}
}

// Property: every advertised category selects at least one item.
func TestItems_EveryExtractedCategorySelects(t *testing.T) {
	cfg := testConfig(t)
	items := []content.Item{
		item("a", "Alpha", "Testing "),
		item("b", "Beta", "  Development", "Testing"),
		item("c", "Gamma", "Docs\t"),
		item("d", "Delta"),
	}
	for _, label := range category.Extract(items, cfg.CategoryField()) {
		if got := Items(items, "", label, cfg); len(got) == 0 {
			t.Errorf("category %q is advertised but selects nothing", label)
		}
	}
	if got := Items(items, "", "Testing", cfg); ids(got) != "a,b" {
		t.Errorf("Testing selects [%s], want [a,b]", ids(got))
	}
}

func TestMatchCategory_NoField(t *testing.T) {
	if MatchCategory(item("a", "Alpha", "X"), "X", "") {
		t.Error("expected no match without a category field")
	}
}

// --- Items ---

func TestItems_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	items := []content.Item{item("a", "Alpha", "X"), item("b", "Beta", "Y")}

	tests := []struct {
		name     string
		query    string
		category string
		want     string
	}{
		{"text only", "al", search.All, "a"},
		{"category only", "", "Y", "b"},
		{"no match any category", "z", search.All, ""},
		{"no match specific category", "z", "X", ""},
		{"text and category disagree", "al", "Y", ""},
		{"uppercase query", "BETA", search.All, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Items(items, tt.query, tt.category, cfg)
			if ids(got) != tt.want {
				t.Errorf("Items(%q, %q) = [%s], want [%s]", tt.query, tt.category, ids(got), tt.want)
			}
		})
	}
}

func TestItems_IdentityFilter(t *testing.T) {
	cfg := testConfig(t)
	items := []content.Item{item("c", "Gamma"), item("a", "Alpha", "X"), item("b", "Beta", "Y")}

	got := Items(items, "", search.All, cfg)
	if ids(got) != "c,a,b" {
		t.Errorf("identity filter = [%s], want [c,a,b]", ids(got))
	}
}

func TestItems_StableOrder(t *testing.T) {
	cfg := testConfig(t)
	items := []content.Item{
		item("3", "Agent three", "X"),
		item("1", "Other", "X"),
		item("2", "Agent two", "X"),
		item("0", "Agent zero", "Y"),
	}

	got := Items(items, "agent", "X", cfg)
	if ids(got) != "3,2" {
		t.Errorf("got [%s], want [3,2]", ids(got))
	}
}

func TestItems_DoesNotMutateInput(t *testing.T) {
	cfg := testConfig(t)
	items := []content.Item{item("a", "Alpha"), item("b", "Beta")}

	_ = Items(items, "beta", search.All, cfg)
	if ids(items) != "a,b" {
		t.Errorf("input modified: [%s]", ids(items))
	}
}

func TestItems_Empty(t *testing.T) {
	cfg := testConfig(t)

	got := Items(nil, "anything", "X", cfg)
	if got == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestItems_ShortQueryStillFilters(t *testing.T) {
	cfg, err := search.NewConfig([]string{"name"}, "categories", "", 0, 2, 0)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	items := []content.Item{item("a", "Alpha"), item("b", "Beta")}

	if got := Items(items, "z", search.All, cfg); len(got) != 0 {
		t.Errorf("short query must still filter, got [%s]", ids(got))
	}
	if got := Items(items, "b", search.All, cfg); ids(got) != "b" {
		t.Errorf("got [%s], want [b]", ids(got))
	}
	if got := Items(items, "be", search.All, cfg); ids(got) != "b" {
		t.Errorf("got [%s], want [b]", ids(got))
	}
	data, ok := search.DefaultConfig(content.TypeData)
	if !ok {
		t.Fatal("missing data config")
	}
	if got := Items(items, "z", search.All, data); len(got) != 0 {
		t.Errorf("data tab, query \"z\": got [%s], want none", ids(got))
	}
}

func TestItems_NoCategoryFieldIgnoresSelection(t *testing.T) {
	cfg, err := search.NewConfig([]string{"name"}, "", "", 0, 0, 0)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	items := []content.Item{item("a", "Alpha", "X"), item("b", "Beta", "Y")}

	if got := Items(items, "", "X", cfg); ids(got) != "a,b" {
		t.Errorf("got [%s], want [a,b]", ids(got))
	}
}

// Property: a single-item result is empty exactly when no searched field contains the query.
func TestItems_TextSoundness(t *testing.T) {
	cfg := testConfig(t)
	it := content.Reconstruct(map[string]any{
		"id":          "x",
		"name":        "Product Manager",
		"description": "Owns the roadmap",
	})

	for _, q := range []string{"product", "ROAD", "man", "owner", "xyz", "manager owns"} {
		got := Items([]content.Item{it}, q, search.All, cfg)
		lq := strings.ToLower(q)
		contains := strings.Contains(strings.ToLower(it.Name()), lq) ||
			strings.Contains(strings.ToLower(it.Description()), lq)
		if (len(got) == 1) != contains {
			t.Errorf("query %q: matched=%v, fields contain=%v", q, len(got) == 1, contains)
		}
	}
}
