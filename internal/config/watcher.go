package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the watcher waits for a save to settle.
// Editors typically emit several filesystem events per save.
const watchDebounce = 100 * time.Millisecond

// Watcher reports changes to a config file so a running process can
// reload it. The parent directory is watched rather than the file itself,
// since editors usually replace the file wholesale on save.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewWatcher watches the config file at path. The file itself does not
// have to exist yet, but its directory does.
func NewWatcher(path string) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    absPath,
		fsw:     fsw,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes signals after the file has been written, created, or replaced.
// Bursts of events coalesce into one signal.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching. The changes channel stays open; callers select
// against it alongside their own shutdown signal.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.fsw.Close()
	})
	return w.closeErr
}

func (w *Watcher) loop() {
	var quiet <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			quiet = time.After(watchDebounce)

		case <-quiet:
			quiet = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}
