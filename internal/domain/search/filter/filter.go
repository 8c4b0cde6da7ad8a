// Package filter implements the single-pass text and category filter shared by
// every content type. All functions are total: malformed or absent fields
// degrade to "does not match" instead of failing.
package filter

import (
	"slices"
	"strings"

	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/domain/search"
)

// MatchText reports whether any of fields contains lowerQuery (case-insensitive).
// An empty or whitespace-only query matches everything.
func MatchText(item content.Item, lowerQuery string, fields []string) bool {
	if strings.TrimSpace(lowerQuery) == "" {
		return true
	}
	for _, f := range fields {
		v, ok := item.String(f)
		if !ok || v == "" {
			continue
		}
		if strings.Contains(strings.ToLower(v), lowerQuery) {
			return true
		}
	}
	return false
}

// MatchCategory reports whether the item carries selected as an exact label in field.
// Labels compare after trimming, the same way category.Extract advertises them.
// search.All (or an empty selection) matches everything.
func MatchCategory(item content.Item, selected, field string) bool {
	selected = strings.TrimSpace(selected)
	if selected == "" || selected == search.All {
		return true
	}
	if field == "" {
		return false
	}
	return slices.ContainsFunc(item.Strings(field), func(label string) bool {
		return strings.TrimSpace(label) == selected
	})
}

// Items returns the items matching both the query and the selected category,
// preserving source order. The input slice is never modified.
func Items(items []content.Item, query, selected string, cfg search.Config) []content.Item {
	out := make([]content.Item, 0, len(items))

	q := normalizeQuery(query)
	selected = strings.TrimSpace(selected)
	filterCategory := selected != "" && selected != search.All && cfg.CategoryField() != ""

	for _, it := range items {
		if q != "" && !MatchText(it, q, cfg.SearchFields()) {
			continue
		}
		if filterCategory && !MatchCategory(it, selected, cfg.CategoryField()) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// normalizeQuery lower-cases the query and returns "" for a blank one.
// MinQueryLength never disables text filtering; it only drives the UI hint.
func normalizeQuery(query string) string {
	if strings.TrimSpace(query) == "" {
		return ""
	}
	return strings.ToLower(query)
}
