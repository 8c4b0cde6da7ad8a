package contenthub

import (
	"context"

	"github.com/kuberocketai/contenthub/internal/domain/category"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/domain/search/request"
	healthuc "github.com/kuberocketai/contenthub/internal/usecase/health"
	hubuc "github.com/kuberocketai/contenthub/internal/usecase/hub"
)

// --- hubUseCase mock ---

type mockHub struct {
	processFn    func(ctx context.Context, query string, selected map[content.Type]string) []hubuc.ProcessedTab
	processTabFn func(ctx context.Context, id content.Type, req request.Request) (hubuc.ProcessedTab, error)
	itemFn       func(id content.Type, itemID string) (content.Item, error)
	validateFn   func(id content.Type) (category.Report, error)
	refreshFn    func(ctx context.Context, id content.Type) error
}

func (m *mockHub) Process(ctx context.Context, query string, selected map[content.Type]string) []hubuc.ProcessedTab {
	return m.processFn(ctx, query, selected)
}

func (m *mockHub) ProcessTab(ctx context.Context, id content.Type, req request.Request) (hubuc.ProcessedTab, error) {
	return m.processTabFn(ctx, id, req)
}

func (m *mockHub) Item(id content.Type, itemID string) (content.Item, error) {
	return m.itemFn(id, itemID)
}

func (m *mockHub) Validate(id content.Type) (category.Report, error) {
	return m.validateFn(id)
}

func (m *mockHub) Refresh(ctx context.Context, id content.Type) error {
	return m.refreshFn(ctx, id)
}

func (m *mockHub) RefreshAll(_ context.Context) error { return nil }

// --- healthUseCase mock ---

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

// --- loader mock ---

type mockLoader struct {
	err   error
	calls int
}

func (m *mockLoader) LoadAll(_ context.Context) error {
	m.calls++
	return m.err
}

func newMockClient(hub *mockHub) *Client {
	obs, _ := newObserver(nil, nil)
	return &Client{
		hub:       hub,
		healthSvc: &mockHealth{},
		providers: &mockLoader{},
		obs:       obs,
	}
}
