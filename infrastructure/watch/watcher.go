// Package watch reports debounced file changes under a set of directories.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is used when Options.Debounce is zero
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher
type Options struct {
	// Roots are the directories to watch
	Roots []string
	// Recursive also watches subdirectories, including ones created later
	Recursive bool
	// Match selects the files whose changes are reported. Nil matches all.
	Match func(path string) bool
	// Debounce is the quiet period before callbacks run
	Debounce time.Duration
	// CreateRoots creates missing roots on Start instead of failing
	CreateRoots bool
}

// Watcher batches file changes and runs callbacks once the tree goes quiet.
// Callbacks run one batch at a time on a single goroutine.
type Watcher struct {
	opts      Options
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	callbacks []func(changed []string)
	mu        sync.Mutex
	pending   map[string]struct{}
	timer     *time.Timer
	triggerCh chan struct{}
	stopCh    chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewWatcher creates a watcher. Nothing is watched until Start.
func NewWatcher(opts Options, logger *zap.Logger) (*Watcher, error) {
	if len(opts.Roots) == 0 {
		return nil, errors.New("at least one root is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Match == nil {
		opts.Match = func(string) bool { return true }
	}

	return &Watcher{
		opts:      opts,
		logger:    logger,
		pending:   make(map[string]struct{}),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}, nil
}

// OnChange registers a callback receiving the sorted changed paths.
// Register callbacks before Start.
func (w *Watcher) OnChange(callback func(changed []string)) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, callback)
	w.mu.Unlock()
}

// Start begins watching the roots
func (w *Watcher) Start() error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = fsWatcher

	for _, root := range w.opts.Roots {
		if w.opts.CreateRoots {
			if err := os.MkdirAll(root, 0o755); err != nil {
				fsWatcher.Close()
				return fmt.Errorf("failed to create %s: %w", root, err)
			}
		}
		if err := w.addTree(root); err != nil {
			fsWatcher.Close()
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	w.wg.Add(2)
	go w.watchLoop()
	go w.dispatchLoop()

	w.logger.Info("File watching enabled",
		zap.Strings("roots", w.opts.Roots),
		zap.Bool("recursive", w.opts.Recursive),
		zap.Duration("debounce", w.opts.Debounce),
	)

	return nil
}

// Stop stops watching and waits for a running callback to return
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		if w.watcher != nil {
			w.watcher.Close()
		}
		w.wg.Wait()
	})
}

// addTree watches root, and its subdirectories when recursive
func (w *Watcher) addTree(root string) error {
	if !w.opts.Recursive {
		return w.watcher.Add(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("Skipping unreadable directory",
				zap.String("path", path),
				zap.Error(err),
			)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return nil
	})
}

// watchLoop collects matching events and arms the debounce timer
func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}

	if w.opts.Recursive && event.Has(fsnotify.Create) {
		if err := w.addTree(event.Name); err == nil {
			w.logger.Debug("Watching new path", zap.String("path", event.Name))
		}
	}

	if !w.opts.Match(event.Name) {
		return
	}

	w.logger.Debug("File changed",
		zap.String("file", event.Name),
		zap.String("operation", event.Op.String()),
	)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[event.Name] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, w.trigger)
}

func (w *Watcher) trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// dispatchLoop runs callbacks for each debounced batch
func (w *Watcher) dispatchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.triggerCh:
			w.dispatch()
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) dispatch() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		changed = append(changed, p)
	}
	w.pending = make(map[string]struct{})
	callbacks := make([]func([]string), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	for i, callback := range callbacks {
		w.run(i, callback, changed)
	}
}

func (w *Watcher) run(idx int, callback func([]string), changed []string) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Callback panicked",
				zap.Int("callback_index", idx),
				zap.Any("panic", r),
			)
		}
	}()

	callback(changed)
}
