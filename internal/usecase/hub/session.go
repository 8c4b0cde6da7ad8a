package hub

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/kuberocketai/contenthub/internal/debounce"
	"github.com/kuberocketai/contenthub/internal/domain"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	"github.com/kuberocketai/contenthub/internal/domain/search"
	"github.com/kuberocketai/contenthub/internal/metrics"
)

// DefaultSessionTTL is how long an idle session lives.
const DefaultSessionTTL = 30 * time.Minute

// Session is one client's unified search state: a debounced query shared
// by all tabs plus a selected category per tab.
type Session struct {
	id      string
	created time.Time
	query   *debounce.Value[string]

	mu       sync.RWMutex
	selected map[content.Type]string
}

// QueryState is a snapshot of the session query.
type QueryState struct {
	Raw     string
	Settled string
	Pending bool
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Created returns the creation time.
func (s *Session) Created() time.Time { return s.created }

// SetQuery feeds the debounced query.
func (s *Session) SetQuery(q string) {
	s.query.Set(q)
}

// Query returns the raw and settled query.
func (s *Session) Query() QueryState {
	return QueryState{
		Raw:     s.query.Raw(),
		Settled: s.query.Settled(),
		Pending: s.query.Pending(),
	}
}

// SetCategory selects a category for one tab. An empty label means search.All.
func (s *Session) SetCategory(tab content.Type, label string) {
	if label == "" {
		label = search.All
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if label == search.All {
		delete(s.selected, tab)
		return
	}
	s.selected[tab] = label
}

// Category returns the selected category for a tab.
func (s *Session) Category(tab content.Type) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.selected[tab]; ok {
		return c
	}
	return search.All
}

// Categories returns a copy of the per-tab selections.
func (s *Session) Categories() map[content.Type]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.selected)
}

// Clear resets the query immediately and selects search.All on every tab.
func (s *Session) Clear() {
	s.query.Reset("")
	s.mu.Lock()
	s.selected = make(map[content.Type]string)
	s.mu.Unlock()
}

// Close cancels any pending debounce timer.
func (s *Session) Close() {
	s.query.Stop()
}

// SessionStore keeps sessions in a TTL cache and closes them on eviction.
type SessionStore struct {
	cache   *gocache.Cache
	cleanup time.Duration
	delay   time.Duration
	after   debounce.AfterFunc
	newID   func() string
	now     func() time.Time
}

// SessionOption configures a SessionStore.
type SessionOption func(*SessionStore)

// WithSessionAfterFunc injects the debounce timer factory (tests).
func WithSessionAfterFunc(fn debounce.AfterFunc) SessionOption {
	return func(s *SessionStore) { s.after = fn }
}

// WithSessionIDs overrides ID generation (tests).
func WithSessionIDs(fn func() string) SessionOption {
	return func(s *SessionStore) { s.newID = fn }
}

// WithSessionCleanup sets the eviction sweep interval. Zero disables the
// background sweep; Sweep must then be called explicitly.
func WithSessionCleanup(d time.Duration) SessionOption {
	return func(s *SessionStore) { s.cleanup = d }
}

// NewSessionStore creates a store. Non-positive ttl and delay fall back to defaults.
func NewSessionStore(ttl, delay time.Duration, opts ...SessionOption) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if delay <= 0 {
		delay = debounce.DefaultDelay
	}
	s := &SessionStore{
		cleanup: ttl / 2,
		delay:   delay,
		after:   debounce.RealAfterFunc,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.cache = gocache.New(ttl, s.cleanup)
	s.cache.OnEvicted(func(_ string, v any) {
		if sess, ok := v.(*Session); ok {
			sess.Close()
			metrics.SessionsActive.Dec()
		}
	})
	return s
}

// Create starts a new session with an empty query.
func (s *SessionStore) Create() *Session {
	sess := &Session{
		id:       s.newID(),
		created:  s.now(),
		query:    debounce.New("", s.delay, debounce.WithAfterFunc[string](s.after)),
		selected: make(map[content.Type]string),
	}
	s.cache.Set(sess.id, sess, gocache.DefaultExpiration)
	metrics.SessionsActive.Inc()
	return sess
}

// Get returns a live session and extends its TTL. A session deleted or
// expired concurrently is never re-inserted.
func (s *SessionStore) Get(id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess := v.(*Session)
	if err := s.cache.Replace(id, sess, gocache.DefaultExpiration); err != nil {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Delete closes and removes a session.
func (s *SessionStore) Delete(id string) error {
	if _, ok := s.cache.Get(id); !ok {
		return domain.ErrSessionNotFound
	}
	s.cache.Delete(id)
	return nil
}

// Len returns the number of stored sessions, including expired ones not yet evicted.
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}

// Sweep evicts expired sessions now.
func (s *SessionStore) Sweep() {
	s.cache.DeleteExpired()
}

// Close evicts every session.
func (s *SessionStore) Close() {
	for id := range s.cache.Items() {
		s.cache.Delete(id)
	}
}
