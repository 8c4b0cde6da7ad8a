package contenthub

import (
	"context"
	"fmt"

	"github.com/kuberocketai/contenthub/internal/domain"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/domain/search/request"
)

// SearchBuilder is a fluent builder for single-tab queries.
type SearchBuilder struct {
	client   *Client
	tab      Tab
	query    string
	category string
	limit    int
}

// Query sets the case-insensitive substring query.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.query = q
	return b
}

// Category restricts results to items carrying this exact label.
func (b *SearchBuilder) Category(c string) *SearchBuilder {
	b.category = c
	return b
}

// Limit caps the number of returned items. Zero uses the tab's default.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// Do runs the query.
func (b *SearchBuilder) Do(ctx context.Context) (_ TabResult, err error) {
	done := b.client.obs.start(opSearch)
	defer func() { done(err) }()

	req, err := request.New(b.query, b.category, b.limit)
	if err != nil {
		return TabResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	pt, err := b.client.hub.ProcessTab(ctx, content.Type(b.tab), req)
	if err != nil {
		return TabResult{}, fmt.Errorf("search %s: %w", b.tab, err)
	}
	return resultFromDomain(pt), nil
}
