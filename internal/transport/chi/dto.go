package chi

import (
	"time"

	"github.com/kuberocketai/contenthub/internal/domain/category"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	healthuc "github.com/kuberocketai/contenthub/internal/usecase/health"
	hubuc "github.com/kuberocketai/contenthub/internal/usecase/hub"
	"github.com/kuberocketai/contenthub/internal/usecase/provider"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeTabNotFound        ErrorCode = "tab_not_found"
	CodeItemNotFound       ErrorCode = "item_not_found"
	CodeSessionNotFound    ErrorCode = "session_not_found"
	CodeNotFound           ErrorCode = "not_found"
	CodeContentNotLoaded   ErrorCode = "content_not_loaded"
	CodeContentInvalid     ErrorCode = "content_invalid"
	CodeContentUnavailable ErrorCode = "content_unavailable"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

// StatsResponse summarizes a processed tab.
type StatsResponse struct {
	Total      int `json:"total"`
	Categories int `json:"categories"`
	Matched    int `json:"matched"`
}

// SearchConfigResponse exposes the presentation-relevant search settings.
type SearchConfigResponse struct {
	Fields         []string `json:"searchFields"`
	CategoryField  string   `json:"categoryField,omitempty"`
	Placeholder    string   `json:"placeholder,omitempty"`
	DebounceMs     int64    `json:"debounceMs"`
	MinQueryLength int      `json:"minQueryLength"`
	MaxResults     int      `json:"maxResults"`
}

// TabResponse is one processed tab.
type TabResponse struct {
	ID                  string               `json:"id"`
	Label               string               `json:"label"`
	Query               string               `json:"query"`
	SelectedCategory    string               `json:"selectedCategory"`
	FilteredItems       []map[string]any     `json:"filteredItems"`
	AvailableCategories []string             `json:"availableCategories"`
	CategoryCounts      map[string]int       `json:"categoryCounts"`
	Stats               StatsResponse        `json:"stats"`
	Truncated           bool                 `json:"truncated"`
	QueryTooShort       bool                 `json:"queryTooShort"`
	Loading             bool                 `json:"loading"`
	Error               *string              `json:"error"`
	Search              SearchConfigResponse `json:"searchConfig"`
}

// TabsResponse is the body of GET /tabs and GET /sessions/{id}/tabs.
type TabsResponse struct {
	Query   string           `json:"query"`
	Session *SessionResponse `json:"session,omitempty"`
	Tabs    []TabResponse    `json:"tabs"`
}

// ProviderStateResponse is a snapshot of one collection provider.
type ProviderStateResponse struct {
	Type        string     `json:"type"`
	Loading     bool       `json:"loading"`
	Error       *string    `json:"error"`
	Items       int        `json:"items"`
	Generation  uint64     `json:"generation"`
	LoadedAt    *time.Time `json:"loadedAt,omitempty"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
	Version     string     `json:"version,omitempty"`
}

// RefreshResponse is the body of the refresh endpoints.
type RefreshResponse struct {
	Providers []ProviderStateResponse `json:"providers"`
}

// ValidationResponse is the body of GET /tabs/{tab}/validation.
type ValidationResponse struct {
	Tab      string   `json:"tab"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Infos    []string `json:"infos"`
}

// SessionQueryResponse is the debounced query of a session.
type SessionQueryResponse struct {
	Raw     string `json:"raw"`
	Settled string `json:"settled"`
	Pending bool   `json:"pending"`
}

// SessionResponse describes a search session.
type SessionResponse struct {
	ID         string               `json:"id"`
	Query      SessionQueryResponse `json:"query"`
	Categories map[string]string    `json:"categories"`
	CreatedAt  time.Time            `json:"createdAt"`
}

// SetQueryRequest is the body of PUT /sessions/{id}/query.
type SetQueryRequest struct {
	Query string `json:"query"`
}

// SetCategoryRequest is the body of PUT /sessions/{id}/category.
type SetCategoryRequest struct {
	Tab      string `json:"tab"`
	Category string `json:"category"`
}

func tabToResponse(t hubuc.ProcessedTab, cfg hubuc.Tab) TabResponse {
	items := make([]map[string]any, len(t.Items))
	for i, it := range t.Items {
		items[i] = it.Raw()
	}
	resp := TabResponse{
		ID:                  string(t.ID),
		Label:               t.Label,
		Query:               t.Query,
		SelectedCategory:    t.Selected,
		FilteredItems:       items,
		AvailableCategories: t.Categories,
		CategoryCounts:      nonNilCounts(t.CategoryCounts),
		Stats: StatsResponse{
			Total:      t.Stats.Total,
			Categories: t.Stats.Categories,
			Matched:    t.Stats.Matched,
		},
		Truncated:     t.Truncated,
		QueryTooShort: cfg.Search.QueryTooShort(t.Query),
		Loading:       t.Loading,
		Search: SearchConfigResponse{
			Fields:         cfg.Search.SearchFields(),
			CategoryField:  cfg.Search.CategoryField(),
			Placeholder:    cfg.Search.Placeholder(),
			DebounceMs:     cfg.Search.Debounce().Milliseconds(),
			MinQueryLength: cfg.Search.MinQueryLength(),
			MaxResults:     cfg.Search.MaxResults(),
		},
	}
	if t.Error != "" {
		msg := t.Error
		resp.Error = &msg
	}
	return resp
}

func providerStateToResponse(t content.Type, st provider.State) ProviderStateResponse {
	resp := ProviderStateResponse{
		Type:       string(t),
		Loading:    st.Loading,
		Generation: st.Generation,
	}
	if st.Err != "" {
		msg := st.Err
		resp.Error = &msg
	}
	if st.Data != nil {
		resp.Items = st.Data.Len()
		resp.Version = st.Data.Metadata().Version
		if g := st.Data.GeneratedAt(); !g.IsZero() {
			resp.GeneratedAt = &g
		}
	}
	if !st.LoadedAt.IsZero() {
		loaded := st.LoadedAt
		resp.LoadedAt = &loaded
	}
	return resp
}

func reportToResponse(tab content.Type, r category.Report) ValidationResponse {
	return ValidationResponse{
		Tab:      string(tab),
		Valid:    r.Valid(),
		Errors:   nonNil(r.Errors),
		Warnings: nonNil(r.Warnings),
		Infos:    nonNil(r.Infos),
	}
}

func sessionToResponse(sess *hubuc.Session) SessionResponse {
	q := sess.Query()
	cats := make(map[string]string)
	for t, c := range sess.Categories() {
		cats[string(t)] = c
	}
	return SessionResponse{
		ID: sess.ID(),
		Query: SessionQueryResponse{
			Raw:     q.Raw,
			Settled: q.Settled,
			Pending: q.Pending,
		},
		Categories: cats,
		CreatedAt:  sess.Created(),
	}
}

func healthToResponse(r healthuc.Report, version string) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks, Version: version}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilCounts(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
