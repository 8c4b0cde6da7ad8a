package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kuberocketai/contenthub/internal/domain"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/metrics"
)

// State is a point-in-time snapshot of a provider.
// Data and Err are never both set.
type State struct {
	Data     *content.Collection
	Loading  bool
	Err      string
	LoadedAt time.Time
	// Generation increases every time Data or Err changes.
	Generation uint64
}

// Provider loads one content collection and keeps its latest state.
type Provider struct {
	contentType content.Type
	source      Source
	decode      Decoder
	logger      *zap.Logger
	now         func() time.Time

	mu      sync.RWMutex
	state   State
	started uint64
}

// Option configures a Provider.
type Option func(*Provider)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// New creates a Provider. A nil logger is replaced with a no-op logger.
func New(t content.Type, src Source, dec Decoder, logger *zap.Logger, opts ...Option) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{
		contentType: t,
		source:      src,
		decode:      dec,
		logger:      logger.With(zap.String("content_type", string(t))),
		now:         time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Type returns the content type this provider serves.
func (p *Provider) Type() content.Type {
	return p.contentType
}

// Load reads and decodes the collection. The outcome is always recorded in
// State; the returned error is a *domain.LoadError for callers that need it.
// When loads overlap, only the last one started updates the state.
func (p *Provider) Load(ctx context.Context) error {
	p.mu.Lock()
	p.started++
	seq := p.started
	p.state.Loading = true
	p.mu.Unlock()

	start := p.now()
	col, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.started {
		p.logger.Debug("Discarding superseded load", zap.Uint64("seq", seq), zap.Uint64("latest", p.started))
		if err != nil {
			return domain.NewLoadError(string(p.contentType), err)
		}
		return nil
	}

	p.state.Loading = false
	p.state.Generation++

	if err != nil {
		p.state.Data = nil
		p.state.Err = err.Error()
		metrics.RecordLoad(string(p.contentType), 0, err)
		p.logger.Warn("Content load failed",
			zap.String("source", p.source.Describe()),
			zap.Error(err),
		)
		return domain.NewLoadError(string(p.contentType), err)
	}

	p.state.Data = &col
	p.state.Err = ""
	p.state.LoadedAt = p.now()
	metrics.RecordLoad(string(p.contentType), col.Len(), nil)
	p.logger.Info("Content loaded",
		zap.String("source", p.source.Describe()),
		zap.Int("items", col.Len()),
		zap.Duration("duration", p.state.LoadedAt.Sub(start)),
	)
	return nil
}

// Refresh re-runs Load.
func (p *Provider) Refresh(ctx context.Context) error {
	return p.Load(ctx)
}

// State returns a snapshot of the current state.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Collection returns the loaded collection and its generation.
func (p *Provider) Collection() (content.Collection, uint64, error) {
	st := p.State()
	if st.Data == nil {
		if st.Err != "" {
			return content.Collection{}, st.Generation, fmt.Errorf("%w: %s", domain.ErrNotLoaded, st.Err)
		}
		return content.Collection{}, st.Generation, domain.ErrNotLoaded
	}
	return *st.Data, st.Generation, nil
}

func (p *Provider) fetch(ctx context.Context) (content.Collection, error) {
	data, err := p.source.Read(ctx, p.contentType)
	if err != nil {
		if errors.Is(err, domain.ErrSourceUnavailable) || errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return content.Collection{}, err
		}
		return content.Collection{}, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	col, err := p.decode(p.contentType, data)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidContent) {
			return content.Collection{}, err
		}
		return content.Collection{}, fmt.Errorf("%w: %w", domain.ErrInvalidContent, err)
	}
	return col, nil
}
