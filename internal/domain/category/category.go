// Package category derives and validates the category labels attached to content items.
package category

import (
	"slices"
	"sort"
	"strings"

	"github.com/kuberocketai/contenthub/internal/domain/content"
)

// Extract returns the sorted distinct labels found in field across items.
// Labels are trimmed; blank labels and items without the field contribute nothing.
func Extract(items []content.Item, field string) []string {
	if field == "" {
		return []string{}
	}
	seen := make(map[string]struct{})
	for _, it := range items {
		for _, c := range it.Strings(field) {
			if c = strings.TrimSpace(c); c != "" {
				seen[c] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

// Normalize trims, dedupes and sorts labels, dropping blanks.
func Normalize(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	for _, c := range labels {
		if c = strings.TrimSpace(c); c != "" {
			seen[c] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Merge normalizes the union of several label sources.
func Merge(sources ...[]string) []string {
	return Normalize(slices.Concat(sources...))
}

// Stats counts items per trimmed label.
func Stats(items []content.Item, field string) map[string]int {
	stats := make(map[string]int)
	if field == "" {
		return stats
	}
	for _, it := range items {
		for _, c := range it.Strings(field) {
			if c = strings.TrimSpace(c); c != "" {
				stats[c]++
			}
		}
	}
	return stats
}

// Diff returns the labels of a missing from b and the labels of b missing from a.
// Both inputs are expected normalized.
func Diff(a, b []string) (onlyA, onlyB []string) {
	for _, c := range a {
		if !slices.Contains(b, c) {
			onlyA = append(onlyA, c)
		}
	}
	for _, c := range b {
		if !slices.Contains(a, c) {
			onlyB = append(onlyB, c)
		}
	}
	return onlyA, onlyB
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
