package provider

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kuberocketai/contenthub/internal/domain"
	"github.com/kuberocketai/contenthub/internal/domain/content"
)

// Set holds one provider per content type, in display order.
type Set struct {
	order     []content.Type
	providers map[content.Type]*Provider
}

// NewSet builds a provider for every type from the shared source and decoder.
func NewSet(types []content.Type, src Source, dec Decoder, logger *zap.Logger) *Set {
	s := &Set{providers: make(map[content.Type]*Provider, len(types))}
	for _, t := range types {
		s.Add(New(t, src, dec, logger))
	}
	return s
}

// Add registers p, replacing any provider of the same type.
func (s *Set) Add(p *Provider) {
	if s.providers == nil {
		s.providers = make(map[content.Type]*Provider)
	}
	if _, ok := s.providers[p.Type()]; !ok {
		s.order = append(s.order, p.Type())
	}
	s.providers[p.Type()] = p
}

// Get returns the provider for t.
func (s *Set) Get(t content.Type) (*Provider, error) {
	p, ok := s.providers[t]
	if !ok {
		return nil, domain.ErrTabNotFound
	}
	return p, nil
}

// All returns the providers in registration order.
func (s *Set) All() []*Provider {
	out := make([]*Provider, 0, len(s.order))
	for _, t := range s.order {
		out = append(out, s.providers[t])
	}
	return out
}

// LoadAll loads every provider concurrently. Each provider records its own
// outcome, so one failing collection does not stop the others; the joined
// load errors are returned.
func (s *Set) LoadAll(ctx context.Context) error {
	all := s.All()
	errs := make([]error, len(all))

	var g errgroup.Group
	for i, p := range all {
		g.Go(func() error {
			errs[i] = p.Load(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
