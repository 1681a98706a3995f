// Package watch monitors a single graph file for changes using fsnotify,
// debouncing editor write bursts into one notification per save.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one file for writes. Notifications are delivered on
// Changes after a short debounce window.
type Watcher struct {
	Path    string
	Changes <-chan time.Time // Read-only external channel

	changes chan time.Time // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for the file at path. The parent directory is
// watched, since editors commonly replace files via rename, which drops
// inotify watches on the file itself.
func New(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	ch := make(chan time.Time, 16)
	return &Watcher{
		Path:    path,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching for changes to the file.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.Path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: collapse bursts of events into one notification.
	const debounce = 100 * time.Millisecond
	var pending *time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	target := filepath.Clean(w.Path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending != nil {
					w.changes <- *pending
				}
				return
			}

			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				now := time.Now()
				pending = &now
			}

		case <-ticker.C:
			if pending != nil && time.Since(*pending) >= debounce {
				w.changes <- *pending
				pending = nil
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next successful event
			// still triggers a recompute.
		}
	}
}
