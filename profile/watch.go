package profile

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macrokeys/macrod/utils"
)

// watchDebounce coalesces the burst of write events editors produce when
// saving a file.
const watchDebounce = 250 * time.Millisecond

// Watcher reloads a profile file whenever it changes on disk and delivers the
// reloaded profile on Profiles(). A file that fails to load is reported on
// the log and skipped, leaving the previous profile in effect.
type Watcher struct {
	path      string
	fsWatcher *fsnotify.Watcher
	profiles  chan *Profile

	mu      sync.Mutex
	pending *time.Timer
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher watches the directory containing path; watching the file itself
// breaks with editors that replace it on save.
func NewWatcher(path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create profile watcher: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		_ = fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	w := &Watcher{
		path:      absPath,
		fsWatcher: fsWatcher,
		profiles:  make(chan *Profile, 1),
		done:      make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Profiles returns the channel of successfully reloaded profiles.
func (w *Watcher) Profiles() <-chan *Profile {
	return w.profiles
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.scheduleReload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			utils.Warn("profile watcher error: %v", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(watchDebounce, w.reload)
}

func (w *Watcher) reload() {
	p, err := Load(w.path)
	if err != nil {
		utils.Warn("profile reload skipped: %v", err)
		return
	}

	select {
	case w.profiles <- p:
	case <-w.done:
	}
}

// Close stops watching. No profiles are delivered after Close returns.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fsWatcher.Close()
	w.wg.Wait()
	return err
}
