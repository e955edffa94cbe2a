package assets

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/grassfield/internal/logger"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a fixed set of files. Parent directories are
// watched so files replaced by rename are still seen.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration

	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool

	log *zap.Logger
}

// NewWatcher starts watching the given files. Remote paths are ignored.
func NewWatcher(paths []string, debounce time.Duration) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsnotify: fsWatch,
		files:    make(map[string]struct{}),
		debounce: debounce,
		changes:  make(chan string, 16),
		done:     make(chan struct{}),
		pending:  make(map[string]*time.Timer),
		log:      logger.Named("assets.watch"),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" || IsRemote(p) {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fsWatch.Close()
			return nil, err
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	if len(w.files) == 0 {
		fsWatch.Close()
		return nil, errors.New("no local files to watch")
	}

	for dir := range dirs {
		if err := fsWatch.Add(dir); err != nil {
			fsWatch.Close()
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Changes delivers the absolute path of each changed file after the debounce.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			name, err := filepath.Abs(e.Name)
			if err != nil {
				continue
			}
			if _, ok := w.files[name]; ok {
				w.schedule(name)
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

// schedule restarts the debounce timer for a file.
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if t, ok := w.pending[name]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[name] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, name)
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return
		}

		w.log.Debug("file changed", zap.String("path", name))
		select {
		case w.changes <- name:
		case <-w.done:
		}
	})
}

// Close stops watching. Pending notifications are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.pending {
		t.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fsnotify.Close()
	w.wg.Wait()
	return err
}
