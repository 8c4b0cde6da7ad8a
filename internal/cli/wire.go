package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kuberocketai/contenthub/internal/config"
	"github.com/kuberocketai/contenthub/internal/db"
	dbRedis "github.com/kuberocketai/contenthub/internal/db/redis"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/domain/search"
	repocontent "github.com/kuberocketai/contenthub/internal/repository/content"
	healthuc "github.com/kuberocketai/contenthub/internal/usecase/health"
	hubuc "github.com/kuberocketai/contenthub/internal/usecase/hub"
	"github.com/kuberocketai/contenthub/internal/usecase/provider"
)

// app is the composition root shared by the commands.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	store     db.Store
	files     *repocontent.FileSource
	redis     *repocontent.RedisSource
	providers *provider.Set
	hub       *hubuc.Service
	health    *healthuc.Service
}

// buildApp wires sources, providers, the hub and health checks.
// Collections are not loaded yet; call load.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	var src provider.Source
	switch cfg.Content.Driver {
	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:       cfg.Database.Addrs,
			Username:    cfg.Database.Username,
			Password:    cfg.Database.Password,
			DB:          cfg.Database.DB,
			DialTimeout: time.Duration(cfg.Database.DialTimeout) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("create database store: %w", err)
		}
		timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		a.store = store
		a.redis = repocontent.NewRedisSource(store, cfg.Content.KeyPrefix, cfg.Content.Format)
		src = a.redis
	default:
		a.files = repocontent.NewFileSource(cfg.Content.Dir)
		src = a.files
	}

	configs, err := searchConfigs(cfg.Search)
	if err != nil {
		a.Close()
		return nil, err
	}

	types := content.Types()
	a.providers = provider.NewSet(types, src, repocontent.Decode, logger)

	tabs := make([]hubuc.Tab, 0, len(types))
	checkers := make([]healthuc.ContentChecker, 0, len(types))
	for _, p := range a.providers.All() {
		tabs = append(tabs, hubuc.Tab{ID: p.Type(), Provider: p, Search: configs[p.Type()]})
		checkers = append(checkers, p)
	}

	var opts []hubuc.Option
	opts = append(opts, hubuc.WithLogger(logger))
	if cfg.Cache.TTLSec > 0 {
		opts = append(opts, hubuc.WithCache(
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			time.Duration(cfg.Cache.CleanupSec)*time.Second,
		))
	}
	a.hub, err = hubuc.New(tabs, opts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create hub: %w", err)
	}

	// Avoid a typed nil interface when there is no database.
	var pinger healthuc.DBPinger
	if a.store != nil {
		pinger = a.store
	}
	a.health = healthuc.New(pinger, checkers...)
	return a, nil
}

// load runs the initial load of every collection. Failures are recorded in
// provider state and returned joined.
func (a *app) load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(a.cfg.Content.LoadTimeoutSec)*time.Second)
	defer cancel()
	return a.providers.LoadAll(ctx)
}

// Close releases the database connection, if any.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

func (a *app) sourceName() string {
	if a.redis != nil {
		return a.redis.Describe()
	}
	return a.files.Describe()
}

// searchConfigs merges per-type overrides onto the built-in search settings.
func searchConfigs(overrides map[string]config.SearchConfig) (map[content.Type]search.Config, error) {
	out := make(map[content.Type]search.Config, len(content.Types()))
	var errs []error
	for _, t := range content.Types() {
		base, _ := search.DefaultConfig(t)
		o, ok := overrides[string(t)]
		if !ok {
			out[t] = base
			continue
		}

		fields := base.SearchFields()
		if len(o.Fields) > 0 {
			fields = o.Fields
		}
		categoryField := base.CategoryField()
		if o.CategoryField != "" {
			categoryField = o.CategoryField
		}
		placeholder := base.Placeholder()
		if o.Placeholder != "" {
			placeholder = o.Placeholder
		}
		debounceMs := int(base.Debounce().Milliseconds())
		if o.DebounceMs > 0 {
			debounceMs = o.DebounceMs
		}
		minLen := base.MinQueryLength()
		if o.MinQueryLength > 0 {
			minLen = o.MinQueryLength
		}
		maxResults := base.MaxResults()
		if o.MaxResults > 0 {
			maxResults = o.MaxResults
		}

		c, err := search.NewConfig(fields, categoryField, placeholder, debounceMs, minLen, maxResults)
		if err != nil {
			errs = append(errs, fmt.Errorf("search.%s: %w", t, err))
			continue
		}
		out[t] = c
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}
