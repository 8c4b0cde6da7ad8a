package content

import (
	"fmt"
	"maps"
	"slices"
)

// Well-known item field names.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategories  = "categories"
)

// Item is a single content hub entry (immutable value object).
// Fields beyond id/name/description are kept as decoded JSON values and
// are only interpreted through the String/Strings accessors.
type Item struct {
	fields map[string]any
}

// NewItem validates and creates an Item from decoded JSON fields.
// The fields are deep-copied; later changes to fields do not affect the Item.
func NewItem(fields map[string]any) (Item, error) {
	id, ok := fields[FieldID].(string)
	if !ok || id == "" {
		return Item{}, fmt.Errorf("item id is required")
	}
	if _, ok := fields[FieldName].(string); !ok {
		return Item{}, fmt.Errorf("item %q: name must be a string", id)
	}
	return Item{fields: cloneFields(fields)}, nil
}

// Reconstruct creates an Item without validation (tests, trusted hydration).
func Reconstruct(fields map[string]any) Item {
	return Item{fields: cloneFields(fields)}
}

// ID returns the item id.
func (i Item) ID() string {
	s, _ := i.String(FieldID)
	return s
}

// Name returns the display name.
func (i Item) Name() string {
	s, _ := i.String(FieldName)
	return s
}

// Description returns the item description, empty if absent.
func (i Item) Description() string {
	s, _ := i.String(FieldDescription)
	return s
}

// String returns a string field. ok is false for absent or non-string values.
func (i Item) String(field string) (string, bool) {
	s, ok := i.fields[field].(string)
	return s, ok
}

// Strings returns a label list field. Non-string elements are dropped;
// absent or non-list values yield nil.
func (i Item) Strings(field string) []string {
	switch v := i.fields[field].(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Has reports whether the field is present.
func (i Item) Has(field string) bool {
	_, ok := i.fields[field]
	return ok
}

// With returns a copy of the item with field set to value.
func (i Item) With(field string, value any) Item {
	f := maps.Clone(i.fields)
	if f == nil {
		f = make(map[string]any, 1)
	}
	f[field] = cloneValue(value)
	return Item{fields: f}
}

// Raw returns a deep copy of all fields for serialization.
func (i Item) Raw() map[string]any { return cloneFields(i.fields) }

func cloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the container shapes decoded JSON produces. Scalars are immutable.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneFields(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	}
	return v
}
