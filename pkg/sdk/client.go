package contenthub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kuberocketai/contenthub/internal/db"
	dbRedis "github.com/kuberocketai/contenthub/internal/db/redis"
	"github.com/kuberocketai/contenthub/internal/domain"
	"github.com/kuberocketai/contenthub/internal/domain/category"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/domain/search"
	"github.com/kuberocketai/contenthub/internal/domain/search/request"
	repocontent "github.com/kuberocketai/contenthub/internal/repository/content"
	healthuc "github.com/kuberocketai/contenthub/internal/usecase/health"
	hubuc "github.com/kuberocketai/contenthub/internal/usecase/hub"
	"github.com/kuberocketai/contenthub/internal/usecase/provider"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type hubUseCase interface {
	Process(ctx context.Context, query string, selected map[content.Type]string) []hubuc.ProcessedTab
	ProcessTab(ctx context.Context, id content.Type, req request.Request) (hubuc.ProcessedTab, error)
	Item(id content.Type, itemID string) (content.Item, error)
	Validate(id content.Type) (category.Report, error)
	Refresh(ctx context.Context, id content.Type) error
	RefreshAll(ctx context.Context) error
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type loader interface {
	LoadAll(ctx context.Context) error
}

// Client is the content hub SDK entry point.
type Client struct {
	store     db.Store
	hub       hubUseCase
	healthSvc healthUseCase
	providers loader
	obs       *observer
}

// New creates a Client and runs the first load of every collection.
// A collection that fails to load is reported through TabResult.Error and
// Health; New only fails when the source itself cannot be set up.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: domain.KeyPrefix, format: repocontent.FormatString}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var (
		src   provider.Source
		store db.Store
	)
	switch {
	case cfg.dir != "" && len(cfg.addrs) > 0:
		return nil, errors.New("contenthub: WithDir and WithRedis are mutually exclusive")
	case cfg.dir != "":
		src = repocontent.NewFileSource(cfg.dir)
	case len(cfg.addrs) > 0:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			ClientName: "contenthub-sdk",
		})
		if err != nil {
			return nil, fmt.Errorf("contenthub: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("contenthub: database not ready: %w", err)
		}
		store = s
		src = repocontent.NewRedisSource(s, cfg.keyPrefix, cfg.format)
	default:
		return nil, errors.New("contenthub: content source required (use WithDir or WithRedis)")
	}

	c, err := wireClient(src, store, cfg, obs)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	_ = c.Load(ctx)
	return c, nil
}

func wireClient(src provider.Source, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	set := provider.NewSet(content.Types(), src, repocontent.Decode, zap.NewNop())

	tabs := make([]hubuc.Tab, 0, len(content.Types()))
	checkers := make([]healthuc.ContentChecker, 0, len(content.Types()))
	for _, p := range set.All() {
		sc, _ := search.DefaultConfig(p.Type())
		tabs = append(tabs, hubuc.Tab{ID: p.Type(), Provider: p, Search: sc})
		checkers = append(checkers, p)
	}

	var hubOpts []hubuc.Option
	if cfg.cacheTTL > 0 {
		hubOpts = append(hubOpts, hubuc.WithCache(cfg.cacheTTL, 2*cfg.cacheTTL))
	}
	hub, err := hubuc.New(tabs, hubOpts...)
	if err != nil {
		return nil, fmt.Errorf("contenthub: %w", err)
	}

	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:     store,
		hub:       hub,
		healthSvc: healthuc.New(pinger, checkers...),
		providers: set,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Load reloads every collection and returns the joined load errors.
func (c *Client) Load(ctx context.Context) (err error) {
	done := c.obs.start(opLoad)
	defer func() { done(err) }()
	return c.providers.LoadAll(ctx)
}

// Tabs filters every tab with a shared query. Tabs missing from categories use AllCategories.
func (c *Client) Tabs(ctx context.Context, query string, categories map[Tab]string) []TabResult {
	done := c.obs.start(opTabs)
	defer done(nil)

	selected := make(map[content.Type]string, len(categories))
	for t, cat := range categories {
		selected[content.Type(t)] = cat
	}
	tabs := c.hub.Process(ctx, query, selected)
	out := make([]TabResult, len(tabs))
	for i, pt := range tabs {
		out[i] = resultFromDomain(pt)
	}
	return out
}

// Search returns a query builder for one tab.
func (c *Client) Search(tab Tab) *SearchBuilder {
	return &SearchBuilder{client: c, tab: tab}
}

// Item looks up one item by ID.
func (c *Client) Item(tab Tab, id string) (_ Item, err error) {
	done := c.obs.start(opItem)
	defer func() { done(err) }()

	it, err := c.hub.Item(content.Type(tab), id)
	if err != nil {
		return Item{}, fmt.Errorf("item %s/%s: %w", tab, id, err)
	}
	return itemFromDomain(it), nil
}

// Validate runs category validation over a loaded tab.
func (c *Client) Validate(tab Tab) (_ Report, err error) {
	done := c.obs.start(opValidate)
	defer func() { done(err) }()

	r, err := c.hub.Validate(content.Type(tab))
	if err != nil {
		return Report{}, fmt.Errorf("validate %s: %w", tab, err)
	}
	return Report{Valid: r.Valid(), Errors: r.Errors, Warnings: r.Warnings, Infos: r.Infos}, nil
}

// Refresh reloads one tab's collection.
func (c *Client) Refresh(ctx context.Context, tab Tab) (err error) {
	done := c.obs.start(opRefresh)
	defer func() { done(err) }()
	return c.hub.Refresh(ctx, content.Type(tab))
}

// Health checks the database and every collection.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
