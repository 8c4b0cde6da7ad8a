// Package watch reloads file-backed collections when their files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kuberocketai/contenthub/internal/debounce"
	"github.com/kuberocketai/contenthub/internal/domain/content"
)

// DefaultDelay collapses the write bursts editors and generators produce.
const DefaultDelay = 250 * time.Millisecond

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Resolver maps watched file paths to content types.
type Resolver interface {
	Dir() string
	TypeForPath(path string) (content.Type, bool)
}

// Refresher reloads one content type.
type Refresher interface {
	Refresh(ctx context.Context, t content.Type) error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay overrides the settle delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithTimeout bounds each triggered refresh.
func WithTimeout(d time.Duration) Option {
	return func(w *Watcher) { w.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithAfterFunc replaces the timer factory used for debouncing.
func WithAfterFunc(fn debounce.AfterFunc) Option {
	return func(w *Watcher) { w.after = fn }
}

// Watcher turns file system events into debounced provider refreshes.
type Watcher struct {
	refresher Refresher
	resolver  Resolver
	delay     time.Duration
	timeout   time.Duration
	after     debounce.AfterFunc
	logger    *zap.Logger
	fsw       *fsnotify.Watcher
	baseCtx   context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu      sync.Mutex
	seq     uint64
	pending map[content.Type]*debounce.Value[uint64]
}

// New creates a Watcher on the resolver's directory. Call Run to start
// dispatching events and Close to release the watch.
func New(resolver Resolver, refresher Refresher, opts ...Option) (*Watcher, error) {
	w := newWatcher(resolver, refresher, opts...)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.cancel()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(resolver.Dir()); err != nil {
		_ = fsw.Close()
		w.cancel()
		return nil, fmt.Errorf("watch %s: %w", resolver.Dir(), err)
	}
	w.fsw = fsw
	return w, nil
}

func newWatcher(resolver Resolver, refresher Refresher, opts ...Option) *Watcher {
	w := &Watcher{
		refresher: refresher,
		resolver:  resolver,
		delay:     DefaultDelay,
		after:     debounce.RealAfterFunc,
		logger:    zap.NewNop(),
		pending:   make(map[content.Type]*debounce.Value[uint64]),
	}
	for _, o := range opts {
		o(w)
	}
	w.baseCtx, w.cancel = context.WithCancel(context.Background())
	return w
}

// Run dispatches events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("Watching content directory", zap.String("dir", w.resolver.Dir()))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

// handle schedules a refresh for the type behind ev. Returns false for ignored events.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	if ev.Op&relevantOps == 0 {
		return false
	}
	t, ok := w.resolver.TypeForPath(ev.Name)
	if !ok {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.baseCtx.Err() != nil {
		return false
	}
	v, ok := w.pending[t]
	if !ok {
		v = debounce.New[uint64](0, w.delay,
			debounce.WithAfterFunc[uint64](w.after),
			debounce.OnSettle(func(uint64) { w.refresh(t) }),
		)
		w.pending[t] = v
	}
	w.seq++
	v.Set(w.seq)
	return true
}

func (w *Watcher) refresh(t content.Type) {
	ctx := w.baseCtx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := w.refresher.Refresh(ctx, t); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		w.logger.Warn("Reload failed", zap.String("type", string(t)), zap.Error(err))
		return
	}
	w.logger.Info("Content reloaded", zap.String("type", string(t)))
}

// Close stops pending reloads and the underlying watch.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.cancel()
		for _, v := range w.pending {
			v.Stop()
		}
		w.mu.Unlock()
		if w.fsw != nil {
			err = w.fsw.Close()
		}
	})
	return err
}
