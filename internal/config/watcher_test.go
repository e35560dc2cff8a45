package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, path
}

func expectChange(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change signal")
	}
}

func TestWatcherSignalsOnWrite(t *testing.T) {
	w, path := newTestWatcher(t)

	if err := os.WriteFile(path, []byte("[ui]\nbell = false\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	expectChange(t, w)
}

func TestWatcherSignalsOnReplace(t *testing.T) {
	w, path := newTestWatcher(t)

	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	expectChange(t, w)

	// Atomic replace, the way editors save.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte("a = 2\n"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("failed to rename: %v", err)
	}
	expectChange(t, w)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	w, path := newTestWatcher(t)

	other := filepath.Join(filepath.Dir(path), "unrelated.txt")
	if err := os.WriteFile(other, []byte("noise"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case <-w.Changes():
		t.Error("expected no signal for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	w, _ := newTestWatcher(t)

	if err := w.Close(); err != nil {
		t.Errorf("expected clean close, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("expected second close to be a no-op, got %v", err)
	}
}

func TestWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcher("/nonexistent/dir/config.toml"); err == nil {
		t.Error("expected error for missing directory")
	}
}
