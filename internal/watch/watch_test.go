package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kuberocketai/contenthub/internal/debounce"
	"github.com/kuberocketai/contenthub/internal/domain/content"
	repocontent "github.com/kuberocketai/contenthub/internal/repository/content"
)

// --- Mocks ---

type mockRefresher struct {
	mu    sync.Mutex
	calls []content.Type
	err   error
	ch    chan content.Type
}

func (m *mockRefresher) Refresh(_ context.Context, t content.Type) error {
	m.mu.Lock()
	m.calls = append(m.calls, t)
	err := m.err
	m.mu.Unlock()
	if m.ch != nil {
		m.ch <- t
	}
	return err
}

func (m *mockRefresher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type fakeTimer struct {
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (f *fakeTimers) AfterFunc(_ time.Duration, fn func()) debounce.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{f: fn}
	f.timers = append(f.timers, t)
	return t
}

func (f *fakeTimers) fire() {
	f.mu.Lock()
	var live []*fakeTimer
	for _, t := range f.timers {
		if !t.stopped {
			t.stopped = true
			live = append(live, t)
		}
	}
	f.timers = nil
	f.mu.Unlock()
	for _, t := range live {
		t.f()
	}
}

// --- Tests ---

func TestHandle_CollapsesBurst(t *testing.T) {
	src := repocontent.NewFileSource("/content")
	ref := &mockRefresher{}
	timers := &fakeTimers{}
	w := newWatcher(src, ref, WithAfterFunc(timers.AfterFunc))
	defer func() { _ = w.Close() }()

	for range 5 {
		if !w.handle(fsnotify.Event{Name: src.Path(content.TypeTasks), Op: fsnotify.Write}) {
			t.Fatal("write to tasks.json ignored")
		}
	}
	w.handle(fsnotify.Event{Name: src.Path(content.TypeAgents), Op: fsnotify.Create})

	if ref.count() != 0 {
		t.Fatalf("refreshed before settle: %v", ref.calls)
	}
	timers.fire()

	if ref.count() != 2 {
		t.Fatalf("calls = %v, want one per type", ref.calls)
	}
}

func TestHandle_IgnoresUnrelated(t *testing.T) {
	src := repocontent.NewFileSource("/content")
	timers := &fakeTimers{}
	w := newWatcher(src, &mockRefresher{}, WithAfterFunc(timers.AfterFunc))
	defer func() { _ = w.Close() }()

	tests := []fsnotify.Event{
		{Name: "/content/readme.md", Op: fsnotify.Write},
		{Name: "/elsewhere/tasks.json", Op: fsnotify.Write},
		{Name: src.Path(content.TypeTasks), Op: fsnotify.Chmod},
	}
	for _, ev := range tests {
		if w.handle(ev) {
			t.Errorf("event %v should be ignored", ev)
		}
	}
}

func TestClose_CancelsPending(t *testing.T) {
	src := repocontent.NewFileSource("/content")
	ref := &mockRefresher{}
	timers := &fakeTimers{}
	w := newWatcher(src, ref, WithAfterFunc(timers.AfterFunc))

	w.handle(fsnotify.Event{Name: src.Path(content.TypeData), Op: fsnotify.Write})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	timers.fire()

	if ref.count() != 0 {
		t.Errorf("refresh after close: %v", ref.calls)
	}
	if w.handle(fsnotify.Event{Name: src.Path(content.TypeData), Op: fsnotify.Write}) {
		t.Error("event accepted after close")
	}
}

func TestRefreshError_Logged(t *testing.T) {
	src := repocontent.NewFileSource("/content")
	ref := &mockRefresher{err: errors.New("boom")}
	timers := &fakeTimers{}
	w := newWatcher(src, ref, WithAfterFunc(timers.AfterFunc), WithTimeout(time.Second))
	defer func() { _ = w.Close() }()

	w.handle(fsnotify.Event{Name: src.Path(content.TypeTasks), Op: fsnotify.Write})
	timers.fire()
	if ref.count() != 1 {
		t.Errorf("calls = %v", ref.calls)
	}
}

func TestNew_MissingDir(t *testing.T) {
	src := repocontent.NewFileSource(filepath.Join(t.TempDir(), "missing"))
	if _, err := New(src, &mockRefresher{}); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestRun_RealFiles(t *testing.T) {
	dir := t.TempDir()
	src := repocontent.NewFileSource(dir)
	ref := &mockRefresher{ch: make(chan content.Type, 4)}

	w, err := New(src, ref, WithDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := os.WriteFile(src.Path(content.TypeTemplates), []byte(`{}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-ref.ch:
		if got != content.TypeTemplates {
			t.Errorf("refreshed %q, want templates", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no refresh after file write")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
