package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kuberocketai/contenthub/internal/domain/search"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in runes.
	MaxQueryLength = 256
	// MaxCategoryLength is the maximum allowed category label length.
	MaxCategoryLength = 100
	MaxLimit          = 500
)

// Request is a validated filter request for one tab.
type Request struct {
	query    string
	category string
	limit    int
}

// New validates and normalizes filter parameters.
// Empty category means search.All; limit <= 0 means "use the tab's MaxResults".
func New(query, category string, limit int) (Request, error) {
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = search.All
	}
	if utf8.RuneCountInString(category) > MaxCategoryLength {
		return Request{}, fmt.Errorf("category too long (max %d chars)", MaxCategoryLength)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("limit must not be negative")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{query: query, category: category, limit: limit}, nil
}

// Query returns the raw query text.
func (r Request) Query() string { return r.query }

// Category returns the selected category or search.All.
func (r Request) Category() string { return r.category }

// Limit returns the requested result cap, 0 for the tab default.
func (r Request) Limit() int { return r.limit }
