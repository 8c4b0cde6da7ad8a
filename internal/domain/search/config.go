// Package search holds the per-content-type search configuration shared by
// the filter pipeline, the category extractor and the debounced search state.
package search

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kuberocketai/contenthub/internal/domain/content"
)

// All is the category sentinel that disables category filtering.
const All = "all"

// DefaultDebounce is the settle delay used when a config does not set one.
const DefaultDebounce = 300 * time.Millisecond

// Config names the searchable fields and the category field of one content type
// (immutable value object).
type Config struct {
	searchFields   []string
	categoryField  string
	placeholder    string
	debounce       time.Duration
	minQueryLength int
	maxResults     int
}

// NewConfig validates and creates a Config.
// searchFields must be non-empty. debounceMs <= 0 falls back to DefaultDebounce,
// minQueryLength <= 0 to 1, maxResults <= 0 means unlimited.
func NewConfig(
	searchFields []string,
	categoryField, placeholder string,
	debounceMs, minQueryLength, maxResults int,
) (Config, error) {
	if len(searchFields) == 0 {
		return Config{}, fmt.Errorf("at least one search field is required")
	}
	for _, f := range searchFields {
		if f == "" {
			return Config{}, fmt.Errorf("search field name must not be empty")
		}
	}
	d := time.Duration(debounceMs) * time.Millisecond
	if d <= 0 {
		d = DefaultDebounce
	}
	if minQueryLength <= 0 {
		minQueryLength = 1
	}
	if maxResults < 0 {
		maxResults = 0
	}
	return Config{
		searchFields:   slices.Clone(searchFields),
		categoryField:  categoryField,
		placeholder:    placeholder,
		debounce:       d,
		minQueryLength: minQueryLength,
		maxResults:     maxResults,
	}, nil
}

// MustConfig is NewConfig for static tables; it panics on invalid input.
func MustConfig(
	searchFields []string,
	categoryField, placeholder string,
	debounceMs, minQueryLength, maxResults int,
) Config {
	c, err := NewConfig(searchFields, categoryField, placeholder, debounceMs, minQueryLength, maxResults)
	if err != nil {
		panic(err)
	}
	return c
}

// SearchFields returns the fields tested by the text matcher.
func (c Config) SearchFields() []string { return c.searchFields }

// CategoryField returns the field holding category labels; empty disables category filtering.
func (c Config) CategoryField() string { return c.categoryField }

// Placeholder returns the search input hint.
func (c Config) Placeholder() string { return c.placeholder }

// Debounce returns the settle delay for raw query input.
func (c Config) Debounce() time.Duration { return c.debounce }

// MinQueryLength returns the query length below which the UI shows a "type more" hint.
func (c Config) MinQueryLength() int { return c.minQueryLength }

// QueryTooShort reports whether a non-blank query is shorter than MinQueryLength.
func (c Config) QueryTooShort(query string) bool {
	trimmed := strings.TrimSpace(query)
	return trimmed != "" && utf8.RuneCountInString(trimmed) < c.minQueryLength
}

// MaxResults returns the result cap, 0 for unlimited.
func (c Config) MaxResults() int { return c.maxResults }

var defaults = map[content.Type]Config{
	content.TypeAgents: MustConfig(
		[]string{"name", "role", "description", "goal", "whenToUse"},
		content.FieldCategories,
		"Search agents by name, role, description, or specialization...",
		300, 1, 50,
	),
	content.TypeTemplates: MustConfig(
		[]string{"name", "description"},
		content.FieldCategories,
		"Search templates by name, description...",
		300, 1, 100,
	),
	content.TypeData: MustConfig(
		[]string{"name", "description"},
		content.FieldCategories,
		"Search data files by name or content...",
		300, 2, 75,
	),
	content.TypeTasks: MustConfig(
		[]string{"name", "description"},
		content.FieldCategories,
		"Search tasks and workflows...",
		300, 1, 50,
	),
}

// DefaultConfig returns the built-in search configuration for a content type.
func DefaultConfig(t content.Type) (Config, bool) {
	c, ok := defaults[t]
	return c, ok
}
