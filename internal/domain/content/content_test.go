package content

import (
	"reflect"
	"testing"
)

func TestNewItem_Valid(t *testing.T) {
	fields := map[string]any{
		"id":          "architect",
		"name":        "Architect",
		"description": "Designs systems",
		"categories":  []any{"Architecture", 3, "Design"},
	}
	it, err := NewItem(fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ID() != "architect" || it.Name() != "Architect" || it.Description() != "Designs systems" {
		t.Errorf("accessors = %q %q %q", it.ID(), it.Name(), it.Description())
	}
	if got := it.Strings("categories"); !reflect.DeepEqual(got, []string{"Architecture", "Design"}) {
		t.Errorf("Strings() = %v", got)
	}

	fields["name"] = "mutated"
	if it.Name() != "Architect" {
		t.Error("item shares caller map")
	}
}

func TestNewItem_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
	}{
		{"missing id", map[string]any{"name": "x"}},
		{"empty id", map[string]any{"id": "", "name": "x"}},
		{"numeric id", map[string]any{"id": 1, "name": "x"}},
		{"missing name", map[string]any{"id": "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewItem(tt.fields); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestItem_Accessors(t *testing.T) {
	it := Reconstruct(map[string]any{"id": "a", "name": "A", "count": 3, "tags": []string{"x"}})

	if _, ok := it.String("count"); ok {
		t.Error("String() ok for non-string")
	}
	if _, ok := it.String("missing"); ok {
		t.Error("String() ok for absent field")
	}
	if it.Strings("count") != nil {
		t.Error("Strings() non-nil for scalar")
	}
	if got := it.Strings("tags"); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Strings() = %v", got)
	}
	if !it.Has("count") || it.Has("missing") {
		t.Error("Has() mismatch")
	}

	updated := it.With("whenToUse", "often")
	if _, ok := it.String("whenToUse"); ok {
		t.Error("With() mutated original")
	}
	if v, _ := updated.String("whenToUse"); v != "often" {
		t.Errorf("With() value = %q", v)
	}

	raw := it.Raw()
	raw["id"] = "changed"
	if it.ID() != "a" {
		t.Error("Raw() exposes internal map")
	}
}

func TestItem_ListFieldsAreCopied(t *testing.T) {
	tags := []string{"x", "y"}
	cats := []any{"Testing", "Development"}
	it := Reconstruct(map[string]any{"id": "a", "name": "A", "tags": tags, "categories": cats})

	tags[0] = "input changed"
	cats[0] = "input changed"
	if got := it.Strings("tags"); got[0] != "x" {
		t.Errorf("input slice aliased: tags = %v", got)
	}

	got := it.Strings("tags")
	got[0] = "caller changed"
	if again := it.Strings("tags"); again[0] != "x" {
		t.Errorf("Strings() exposes backing slice: tags = %v", again)
	}

	raw := it.Raw()
	raw["categories"].([]any)[0] = "caller changed"
	if c := it.Strings("categories"); c[0] != "Testing" {
		t.Errorf("Raw() exposes nested slice: categories = %v", c)
	}
}

func TestCollection(t *testing.T) {
	items := []Item{
		Reconstruct(map[string]any{"id": "a", "name": "A"}),
		Reconstruct(map[string]any{"id": "b", "name": "B"}),
	}
	col := NewCollection(TypeTasks, items, Metadata{TotalItems: 2, GeneratedAt: "2025-08-01T10:00:00Z"})

	if col.Type() != TypeTasks || col.Len() != 2 {
		t.Errorf("Type()=%q Len()=%d", col.Type(), col.Len())
	}
	if it, ok := col.ByID("b"); !ok || it.Name() != "B" {
		t.Errorf("ByID(b) = %v, %v", it, ok)
	}
	if _, ok := col.ByID("z"); ok {
		t.Error("ByID(z) found")
	}
	if col.GeneratedAt().IsZero() {
		t.Error("GeneratedAt() is zero")
	}
}

func TestCollection_NilItems(t *testing.T) {
	col := NewCollection(TypeData, nil, Metadata{})
	if col.Items() == nil {
		t.Error("Items() nil")
	}
	if !col.GeneratedAt().IsZero() {
		t.Error("GeneratedAt() should be zero for empty metadata")
	}
}

func TestParseType(t *testing.T) {
	for _, ct := range Types() {
		got, err := ParseType(string(ct))
		if err != nil || got != ct {
			t.Errorf("ParseType(%q) = %q, %v", ct, got, err)
		}
		if ct.Label() == "" {
			t.Errorf("%s has no label", ct)
		}
	}
	if _, err := ParseType("faq"); err == nil {
		t.Error("expected error for unknown type")
	}
}
