package watcher

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type mockWatcher struct {
	mu       sync.Mutex
	events   chan Event
	errors   chan error
	watching map[string]bool
	closed   bool
}

func newMockWatcher() *mockWatcher {
	return &mockWatcher{
		events:   make(chan Event, 100),
		errors:   make(chan error, 100),
		watching: make(map[string]bool),
	}
}

func (m *mockWatcher) Watch(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watching[path] = true
	return nil
}

func (m *mockWatcher) Unwatch(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.watching, path)
	return nil
}

func (m *mockWatcher) Events() <-chan Event { return m.events }
func (m *mockWatcher) Errors() <-chan error { return m.errors }

func (m *mockWatcher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.events)
		close(m.errors)
	}
	return nil
}

func (m *mockWatcher) IsWatching(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watching[path]
}

func (m *mockWatcher) WatchedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.watching))
	for p := range m.watching {
		paths = append(paths, p)
	}
	return paths
}

func (m *mockWatcher) send(path string, op Op) {
	m.events <- Event{Path: path, Op: op, Timestamp: time.Now()}
}

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestDebounceCoalesces(t *testing.T) {
	inner := newMockWatcher()
	dw := NewDebouncedWatcher(inner, 30*time.Millisecond)
	defer dw.Close()

	inner.send("/a.html", OpCreate)
	inner.send("/a.html", OpWrite)
	inner.send("/a.html", OpChmod)

	e := receive(t, dw.Events())
	if e.Path != "/a.html" {
		t.Errorf("Path = %q", e.Path)
	}
	if e.Op != OpCreate|OpWrite|OpChmod {
		t.Errorf("Op = %v, want CREATE|WRITE|CHMOD", e.Op)
	}

	select {
	case extra := <-dw.Events():
		t.Errorf("unexpected second event %+v", extra)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestDebounceSeparatePaths(t *testing.T) {
	inner := newMockWatcher()
	dw := NewDebouncedWatcher(inner, 20*time.Millisecond)
	defer dw.Close()

	inner.send("/a.html", OpWrite)
	inner.send("/b.lua", OpWrite)

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		seen[receive(t, dw.Events()).Path] = true
	}
	if !seen["/a.html"] || !seen["/b.lua"] {
		t.Errorf("seen = %v", seen)
	}
}

func TestDebounceFlush(t *testing.T) {
	inner := newMockWatcher()
	dw := NewDebouncedWatcher(inner, time.Hour)
	defer dw.Close()

	inner.send("/a.html", OpWrite)
	deadline := time.Now().Add(2 * time.Second)
	for dw.PendingCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("event never became pending")
		}
		time.Sleep(time.Millisecond)
	}

	dw.Flush()
	if e := receive(t, dw.Events()); e.Path != "/a.html" {
		t.Errorf("Path = %q", e.Path)
	}
	if n := dw.PendingCount(); n != 0 {
		t.Errorf("PendingCount = %d after Flush", n)
	}
}

func TestDebounceForwardsErrors(t *testing.T) {
	inner := newMockWatcher()
	dw := NewDebouncedWatcher(inner, 10*time.Millisecond)
	defer dw.Close()

	boom := errors.New("boom")
	inner.errors <- boom
	select {
	case err := <-dw.Errors():
		if !errors.Is(err, boom) {
			t.Errorf("err = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("error not forwarded")
	}
}

func TestDebounceClose(t *testing.T) {
	inner := newMockWatcher()
	dw := NewDebouncedWatcher(inner, time.Hour)

	if err := dw.Watch("/a.html"); err != nil {
		t.Fatal(err)
	}
	if !dw.IsWatching("/a.html") || len(dw.WatchedPaths()) != 1 {
		t.Error("Watch not delegated")
	}

	inner.send("/a.html", OpWrite)
	if err := dw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := dw.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if _, ok := <-dw.Events(); ok {
		t.Error("events channel should be closed")
	}
	if !inner.closed {
		t.Error("inner watcher not closed")
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{OpCreate, "CREATE"},
		{OpWrite | OpRename, "WRITE|RENAME"},
		{0, "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
	if !(OpWrite | OpCreate).Has(OpWrite) || OpWrite.Has(OpCreate) || OpWrite.Has(0) {
		t.Error("Has")
	}
}
