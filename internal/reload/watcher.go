// Package reload watches an authz rules document (and an optional
// split groups document) for changes and republishes a freshly
// loaded *authz.Authz whenever a file in the directory of either is
// written or created. A watched reload re-parses and re-validates the
// rules; every query reads the one currently published pointer and
// builds its own tree from it, so no tree or query result is cached or
// reused.
package reload

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	log "github.com/golang/glog"

	"github.com/DalavanCloud/subversion/authz"
)

// Loader builds a fresh *authz.Authz from whatever source the caller
// configured (a plain file pair, or a repository-relative pair); it is
// called once at NewWatcher time and again on every detected change.
type Loader func() (*authz.Authz, error)

// Watcher republishes a compiled Authz on file change. The zero value
// is not usable; construct one with NewWatcher.
type Watcher struct {
	load Loader
	fsw  *fsnotify.Watcher

	current atomic.Pointer[authz.Authz]

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

// NewWatcher performs an initial load via loadFn, then arranges to
// watch the directories containing rulesPath and (if non-empty)
// groupsPath for writes.
func NewWatcher(rulesPath, groupsPath string, loadFn Loader) (*Watcher, error) {
	a, err := loadFn()
	if err != nil {
		return nil, fmt.Errorf("reload: initial load: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("reload: create watcher: %w", err)
	}

	dirs := map[string]struct{}{filepath.Dir(rulesPath): {}}
	if groupsPath != "" {
		dirs[filepath.Dir(groupsPath)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("reload: watch %s: %w", dir, err)
		}
	}

	w := &Watcher{load: loadFn, fsw: fsw, stop: make(chan struct{})}
	w.current.Store(a)
	return w, nil
}

// Current returns the most recently published Authz.
func (w *Watcher) Current() *authz.Authz {
	return w.current.Load()
}

// Start begins watching for changes in a background goroutine. It is
// a no-op if already started.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.run()
}

// Stop halts watching and releases the underlying OS resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stop)
		w.running = false
	}
	w.fsw.Close()
}

func (w *Watcher) run() {
	log.V(2).Info("reload: watcher goroutine started")
	for {
		select {
		case <-w.stop:
			log.V(2).Info("reload: watcher goroutine stopped")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				log.Warning("reload: events channel closed")
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Errorf("reload: watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	a, err := w.load()
	if err != nil {
		log.Errorf("reload: rejected new rules, keeping previous: %v", err)
		return
	}
	w.current.Store(a)
	log.V(1).Info("reload: published newly compiled rules")
}
