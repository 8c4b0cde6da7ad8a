package hub

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/kuberocketai/contenthub/internal/domain"
	"github.com/kuberocketai/contenthub/internal/domain/category"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/domain/search"
	"github.com/kuberocketai/contenthub/internal/domain/search/filter"
	"github.com/kuberocketai/contenthub/internal/domain/search/request"
	"github.com/kuberocketai/contenthub/internal/metrics"
	"github.com/kuberocketai/contenthub/internal/usecase/provider"
)

// Tab describes one content hub tab.
type Tab struct {
	ID       content.Type
	Label    string
	Provider ContentProvider
	Search   search.Config
}

// Stats summarizes a processed tab.
type Stats struct {
	Total      int
	Categories int
	Matched    int
}

// ProcessedTab is the derived view of a tab for a query and category.
type ProcessedTab struct {
	ID         content.Type
	Label      string
	Query      string
	Selected   string
	Items      []content.Item
	Categories []string
	// CategoryCounts counts text matches per label, ignoring the selected category.
	CategoryCounts map[string]int
	Stats          Stats
	Truncated      bool
	Loading        bool
	Error          string
	Generation     uint64
}

// Service aggregates tabs and runs the filter pipeline over each of them.
type Service struct {
	tabs   []Tab
	index  map[content.Type]int
	cache  *gocache.Cache
	logger *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache memoizes processed tabs for ttl.
func WithCache(ttl, cleanup time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cache = gocache.New(ttl, cleanup)
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service. Tab IDs must be unique.
func New(tabs []Tab, opts ...Option) (*Service, error) {
	s := &Service{
		tabs:   make([]Tab, 0, len(tabs)),
		index:  make(map[content.Type]int, len(tabs)),
		logger: zap.NewNop(),
	}
	for _, t := range tabs {
		if t.Provider == nil {
			return nil, fmt.Errorf("tab %q: provider is required", t.ID)
		}
		if _, dup := s.index[t.ID]; dup {
			return nil, fmt.Errorf("duplicate tab %q", t.ID)
		}
		if t.Label == "" {
			t.Label = t.ID.Label()
		}
		s.index[t.ID] = len(s.tabs)
		s.tabs = append(s.tabs, t)
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Tabs returns the configured tabs in display order.
func (s *Service) Tabs() []Tab {
	out := make([]Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// Tab returns a single tab.
func (s *Service) Tab(id content.Type) (Tab, error) {
	i, ok := s.index[id]
	if !ok {
		return Tab{}, domain.ErrTabNotFound
	}
	return s.tabs[i], nil
}

// Process filters every tab with a shared query and per-tab categories.
// A tab missing from selected uses search.All. Tabs never affect each other.
func (s *Service) Process(ctx context.Context, query string, selected map[content.Type]string) []ProcessedTab {
	out := make([]ProcessedTab, 0, len(s.tabs))
	for _, t := range s.tabs {
		out = append(out, s.process(ctx, t, query, selected[t.ID], 0))
	}
	return out
}

// ProcessTab filters a single tab. A zero limit means the tab's MaxResults.
func (s *Service) ProcessTab(ctx context.Context, id content.Type, req request.Request) (ProcessedTab, error) {
	t, err := s.Tab(id)
	if err != nil {
		return ProcessedTab{}, err
	}
	return s.process(ctx, t, req.Query(), req.Category(), req.Limit()), nil
}

// Item looks up one item by ID.
func (s *Service) Item(id content.Type, itemID string) (content.Item, error) {
	t, err := s.Tab(id)
	if err != nil {
		return content.Item{}, err
	}
	st := t.Provider.State()
	if st.Data == nil {
		return content.Item{}, notLoaded(st)
	}
	it, ok := st.Data.ByID(itemID)
	if !ok {
		return content.Item{}, domain.ErrItemNotFound
	}
	return it, nil
}

// Validate runs category validation over a tab's loaded collection.
func (s *Service) Validate(id content.Type) (category.Report, error) {
	t, err := s.Tab(id)
	if err != nil {
		return category.Report{}, err
	}
	st := t.Provider.State()
	if st.Data == nil {
		return category.Report{}, notLoaded(st)
	}

	var v *category.Validator
	if p, ok := category.DefaultPolicy(id); ok {
		v = category.NewValidator(&p)
	} else {
		v = category.NewValidator(nil)
	}
	return v.ValidateCollection(*st.Data, t.Search.CategoryField()), nil
}

// Refresh reloads one tab's provider.
func (s *Service) Refresh(ctx context.Context, id content.Type) error {
	t, err := s.Tab(id)
	if err != nil {
		return err
	}
	if err := t.Provider.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh %s: %w", id, err)
	}
	return nil
}

// RefreshAll reloads every provider and returns the joined failures.
func (s *Service) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, t := range s.tabs {
		if err := t.Provider.Refresh(ctx); err != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", t.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) process(_ context.Context, t Tab, query, selected string, limit int) ProcessedTab {
	if selected == "" {
		selected = search.All
	}
	st := t.Provider.State()

	base := ProcessedTab{
		ID:             t.ID,
		Label:          t.Label,
		Query:          query,
		Selected:       selected,
		Items:          []content.Item{},
		Categories:     []string{},
		CategoryCounts: map[string]int{},
		Loading:        st.Loading,
		Error:          st.Err,
		Generation:     st.Generation,
	}
	if st.Data == nil {
		return base
	}

	key := cacheKey(t.ID, st.Generation, query, selected, limit)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			metrics.RecordCache(true)
			cached := v.(ProcessedTab)
			cached.Loading = st.Loading
			return cached
		}
		metrics.RecordCache(false)
	}

	start := time.Now()
	col := *st.Data

	categories := availableCategories(col, t.Search.CategoryField())
	textMatched := filter.Items(col.Items(), query, search.All, t.Search)
	matched := textMatched
	if selected != search.All {
		matched = filter.Items(textMatched, "", selected, t.Search)
	}

	capN := limit
	if capN <= 0 {
		capN = t.Search.MaxResults()
	}
	items := matched
	if capN > 0 && len(items) > capN {
		items = items[:capN:capN]
		base.Truncated = true
	}

	base.Items = items
	base.Categories = categories
	base.CategoryCounts = category.Stats(textMatched, t.Search.CategoryField())
	base.Stats = Stats{
		Total:      col.Len(),
		Categories: len(categories),
		Matched:    len(matched),
	}
	metrics.ObserveFilter(string(t.ID), start)

	if s.cache != nil {
		s.cache.Set(key, base, gocache.DefaultExpiration)
	}
	return base
}

// availableCategories prefers the collection's pre-computed metadata and
// falls back to extracting labels from the items.
func availableCategories(col content.Collection, field string) []string {
	if field == "" {
		return []string{}
	}
	if meta := category.Normalize(col.Metadata().Categories); len(meta) > 0 {
		return meta
	}
	return category.Extract(col.Items(), field)
}

func cacheKey(id content.Type, gen uint64, query, selected string, limit int) string {
	return fmt.Sprintf("%s|%d|%d|%q|%q", id, gen, limit, query, selected)
}

func notLoaded(st provider.State) error {
	if st.Err != "" {
		return fmt.Errorf("%w: %s", domain.ErrNotLoaded, st.Err)
	}
	return domain.ErrNotLoaded
}

// ProcessSession runs Process with the session's settled query and selections.
func (s *Service) ProcessSession(ctx context.Context, sess *Session) []ProcessedTab {
	return s.Process(ctx, sess.Query().Settled, sess.Categories())
}
