package blob

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeEvent describes a change to the watched recipe file
type ChangeEvent struct {
	Path      string
	Operation string
	Timestamp time.Time
}

// Watcher reports edits made to the recipe file by anything other than
// this process. The parent directory is watched because replacing the file
// swaps its inode.
type Watcher struct {
	store     *FileStore
	watcher   *fsnotify.Watcher
	onChange  func(ChangeEvent)
	logger    *zap.Logger
	debouncer *time.Timer
	mutex     sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}

	debounceDelay time.Duration
}

// NewWatcher creates a watcher for the file behind store. onChange may be
// nil, in which case external edits are only logged.
func NewWatcher(store *FileStore, onChange func(ChangeEvent), logger *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		store:         store,
		watcher:       w,
		onChange:      onChange,
		logger:        logger.Named("recipe-watcher"),
		debounceDelay: 250 * time.Millisecond,
	}, nil
}

// Start begins watching
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	// Establish a baseline so the first real edit is recognized
	w.store.ChangedExternally()

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.watchLoop(ctx)

	w.logger.Info("Watching recipe file", zap.String("path", w.store.Path()))
	return nil
}

// Stop gracefully shuts down the watcher
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
	w.mutex.Lock()
	if w.debouncer != nil {
		w.debouncer.Stop()
	}
	w.mutex.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.done)
	target := filepath.Clean(w.store.Path())

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target || strings.HasSuffix(event.Name, ".tmp") {
				continue
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

// handleEvent debounces bursts of events into one check
func (w *Watcher) handleEvent(event fsnotify.Event) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.debouncer != nil {
		w.debouncer.Stop()
	}
	w.debouncer = time.AfterFunc(w.debounceDelay, func() {
		w.processEvent(event)
	})
}

func (w *Watcher) processEvent(event fsnotify.Event) {
	if !w.store.ChangedExternally() {
		return
	}

	change := ChangeEvent{
		Path:      event.Name,
		Operation: event.Op.String(),
		Timestamp: time.Now(),
	}
	w.logger.Info("Recipe file modified externally",
		zap.String("path", change.Path),
		zap.String("op", change.Operation),
	)
	if w.onChange != nil {
		w.onChange(change)
	}
}
