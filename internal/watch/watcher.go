// Package watch notifies consumers when another process commits to the
// shared store file, so pollers can re-run their incremental queries
// instead of polling on a timer.
package watch

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a store file and invokes a callback after writes settle.
type Watcher struct {
	fsw      *fsnotify.Watcher
	base     string
	debounce time.Duration
	onChange func()
	done     chan struct{}
}

// New creates a Watcher over the store at dbPath. SQLite writes land in
// the main file and its -wal/-shm siblings, so the containing directory is
// watched and events are filtered by filename prefix. Changes are
// debounced: onChange fires once writes go quiet for the given window.
func New(dbPath string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(dbPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		base:     filepath.Base(dbPath),
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			armed = true
		case <-timer.C:
			armed = false
			w.onChange()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) matches(name string) bool {
	return strings.HasPrefix(filepath.Base(name), w.base)
}
