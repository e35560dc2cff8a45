package session

import (
	"errors"
	"testing"
	"time"
)

// newTestManager builds a manager whose sessions use /bin/sh.
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PTY test in short mode")
	}
	return NewManager(Options{Shell: "/bin/sh", Cols: 80, Rows: 24})
}

// create makes a session through the manager, skipping when PTYs are
// unavailable.
func create(t *testing.T, m *Manager, opts Options) *Session {
	t.Helper()
	s, err := m.Create(opts)
	if err != nil {
		t.Skipf("skipping: failed to create session (may not have PTY): %v", err)
	}
	return s
}

func TestManagerCreateAndGet(t *testing.T) {
	m := newTestManager(t)
	defer m.Shutdown(5 * time.Second)

	s := create(t, m, Options{Name: "one"})

	got, err := m.Get(s.ID())
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ID() != s.ID() {
		t.Errorf("expected session %s, got %s", s.ID(), got.ID())
	}
	if m.Count() != 1 {
		t.Errorf("expected count 1, got %d", m.Count())
	}

	if _, err := m.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerDefaults(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping PTY test in short mode")
	}
	m := NewManager(Options{Shell: "/bin/sh", Cols: 100, Rows: 30})
	defer m.Shutdown(5 * time.Second)

	s := create(t, m, Options{})

	rows, cols := s.Size()
	if rows != 30 || cols != 100 {
		t.Errorf("expected default size 30x100, got %dx%d", rows, cols)
	}
}

func TestManagerList(t *testing.T) {
	m := newTestManager(t)
	defer m.Shutdown(5 * time.Second)

	create(t, m, Options{Name: "a"})
	create(t, m, Options{Name: "b"})

	if got := len(m.List()); got != 2 {
		t.Errorf("expected 2 sessions, got %d", got)
	}
}

func TestManagerClose(t *testing.T) {
	m := newTestManager(t)
	defer m.Shutdown(5 * time.Second)

	s := create(t, m, Options{})

	if err := m.Close(s.ID()); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("expected count 0 after close, got %d", m.Count())
	}
	if err := m.Close(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerCloseAll(t *testing.T) {
	m := newTestManager(t)
	defer m.Shutdown(5 * time.Second)

	create(t, m, Options{})
	create(t, m, Options{})

	m.CloseAll()

	if m.Count() != 0 {
		t.Errorf("expected count 0 after close all, got %d", m.Count())
	}
}

func TestManagerShutdown(t *testing.T) {
	m := newTestManager(t)

	create(t, m, Options{})

	if err := m.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if _, err := m.Create(Options{}); !errors.Is(err, ErrManagerClosed) {
		t.Errorf("expected ErrManagerClosed, got %v", err)
	}
}

func TestManagerDeregistersExitedSession(t *testing.T) {
	m := newTestManager(t)
	defer m.Shutdown(5 * time.Second)

	s := create(t, m, Options{Args: []string{"-c", "exit 0"}})

	waitDone(t, s)

	// Deregistration runs on its own goroutine after the child exits.
	waitFor(t, func() bool { return m.Count() == 0 },
		"expected exited session to be removed from the manager")
}
