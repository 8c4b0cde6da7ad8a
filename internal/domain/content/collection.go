package content

import "time"

// Metadata describes a pre-generated collection.
type Metadata struct {
	TotalItems  int
	Categories  []string
	GeneratedAt string
	Version     string
}

// Collection is an ordered set of items of one Type (immutable value object).
type Collection struct {
	contentType Type
	items       []Item
	metadata    Metadata
}

// NewCollection creates a Collection. The items slice is owned by the collection afterwards.
func NewCollection(t Type, items []Item, meta Metadata) Collection {
	if items == nil {
		items = []Item{}
	}
	return Collection{contentType: t, items: items, metadata: meta}
}

// Type returns the content type.
func (c Collection) Type() Type { return c.contentType }

// Items returns the items in source order. Callers must not modify the slice.
func (c Collection) Items() []Item { return c.items }

// Len returns the number of items.
func (c Collection) Len() int { return len(c.items) }

// Metadata returns the pre-computed metadata.
func (c Collection) Metadata() Metadata { return c.metadata }

// GeneratedAt parses the metadata generation time. Zero if absent or unparsable.
func (c Collection) GeneratedAt() time.Time {
	t, err := time.Parse(time.RFC3339, c.metadata.GeneratedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ByID looks up an item by id.
func (c Collection) ByID(id string) (Item, bool) {
	for _, it := range c.items {
		if it.ID() == id {
			return it, true
		}
	}
	return Item{}, false
}
