package contenthub

import (
	"github.com/kuberocketai/contenthub/internal/domain/content"
	hubuc "github.com/kuberocketai/contenthub/internal/usecase/hub"
)

// Tab identifies a content collection.
type Tab string

// Tab constants.
const (
	TabAgents    Tab = Tab(content.TypeAgents)
	TabTasks     Tab = Tab(content.TypeTasks)
	TabData      Tab = Tab(content.TypeData)
	TabTemplates Tab = Tab(content.TypeTemplates)
)

// AllCategories selects every item regardless of category.
const AllCategories = "all"

// Item is one collection entry.
type Item struct {
	ID          string
	Name        string
	Description string
	Categories  []string
	Fields      map[string]any // every field of the source JSON
}

// TabResult is the filtered view of one tab.
type TabResult struct {
	Tab                 Tab
	Label               string
	Query               string
	Category            string
	Items               []Item
	AvailableCategories []string
	CategoryCounts      map[string]int // text matches per label, before category filtering
	Total               int
	Matched             int
	Truncated           bool
	Loading             bool
	Error               string // load error of the collection, empty when loaded
}

// Report is a category validation report.
type Report struct {
	Valid    bool
	Errors   []string
	Warnings []string
	Infos    []string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"loading"/"error"
}

func itemFromDomain(it content.Item) Item {
	return Item{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Categories:  it.Strings(content.FieldCategories),
		Fields:      it.Raw(),
	}
}

func resultFromDomain(pt hubuc.ProcessedTab) TabResult {
	items := make([]Item, len(pt.Items))
	for i, it := range pt.Items {
		items[i] = itemFromDomain(it)
	}
	return TabResult{
		Tab:                 Tab(pt.ID),
		Label:               pt.Label,
		Query:               pt.Query,
		Category:            pt.Selected,
		Items:               items,
		AvailableCategories: pt.Categories,
		CategoryCounts:      pt.CategoryCounts,
		Total:               pt.Stats.Total,
		Matched:             pt.Stats.Matched,
		Truncated:           pt.Truncated,
		Loading:             pt.Loading,
		Error:               pt.Error,
	}
}
