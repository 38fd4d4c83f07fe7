package assets

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/logger"
)

// Event reports that a watched mesh file changed on disk. The cached mesh
// has already been invalidated when the event is delivered.
type Event struct {
	Path string
}

// Watcher invalidates cached meshes when their files change and emits one
// Event per burst of changes.
type Watcher struct {
	manager  *Manager
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	paths   map[string]bool
	dirs    map[string]bool
	pending map[string]*time.Timer
	closed  bool
}

// NewWatcher creates a watcher feeding m. Changes closer together than
// debounce are reported once.
func NewWatcher(m *Manager, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		manager:  m,
		fs:       fw,
		debounce: debounce,
		log:      logger.Named("watcher"),
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		paths:    make(map[string]bool),
		dirs:     make(map[string]bool),
		pending:  make(map[string]*time.Timer),
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Watch starts watching path. The parent directory is watched so files
// replaced by rename are still seen.
func (w *Watcher) Watch(path string) error {
	key := Key(path)
	dir := filepath.Dir(key)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.paths[key] = true
	w.log.Debug("watching mesh file", zap.String("path", key))
	return nil
}

// Events returns the channel of change notifications.
func (w *Watcher) Events() <-chan Event {
	return w.events
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
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}

	key := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.paths[key] {
		return
	}

	w.manager.Invalidate(key)

	if t, ok := w.pending[key]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[key] = time.AfterFunc(w.debounce, func() { w.fire(key) })
}

func (w *Watcher) fire(key string) {
	w.mu.Lock()
	delete(w.pending, key)
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	w.log.Info("mesh file changed", zap.String("path", key))
	select {
	case w.events <- Event{Path: key}:
	default:
		w.log.Warn("reload event dropped, consumer is behind", zap.String("path", key))
	}
}
