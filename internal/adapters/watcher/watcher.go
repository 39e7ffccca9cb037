// Package watcher turns file system notifications for sample sources and
// configurations into debounced rebuild requests.
package watcher

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jonpalmisc/limoncello/internal/adapters/fs" //nolint:depguard // Wired in adapter
	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/jonpalmisc/limoncello/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	walker    *fs.Walker
	logger    ports.Logger
	events    chan ports.WatchEvent

	mu     sync.Mutex
	ignore []string
}

// NewWatcher creates a new file system watcher.
func NewWatcher(walker *fs.Walker, logger ports.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	return &Watcher{
		fsWatcher: fw,
		walker:    walker,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start watches every directory below dirs, except the ignored subtrees.
func (w *Watcher) Start(ctx context.Context, dirs, ignore []string) error {
	w.mu.Lock()
	w.ignore = make([]string, len(ignore))
	for i, p := range ignore {
		w.ignore[i] = filepath.Clean(p)
	}
	w.mu.Unlock()

	for _, root := range dirs {
		if err := w.addTree(root); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", root)
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop closes the underlying watcher, which ends the event stream.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events yields file system events until the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) addTree(root string) error {
	w.mu.Lock()
	ignore := w.ignore
	w.mu.Unlock()

	for dir := range w.walker.WalkDirs(root, ignore) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) ignored(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	path = filepath.Clean(path)
	for _, p := range w.ignore {
		if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.ignored(event.Name) {
				continue
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			// New directories need their own watches.
			if watchEvent.Op == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil && w.logger != nil {
						w.logger.Warn("cannot watch new directory " + event.Name + ": " + err.Error())
					}
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("file watcher error: " + err.Error())
			}
		}
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	switch {
	case event.Has(fsnotify.Write):
		return ports.WatchEvent{Path: event.Name, Op: ports.OpWrite}, true
	case event.Has(fsnotify.Create):
		return ports.WatchEvent{Path: event.Name, Op: ports.OpCreate}, true
	case event.Has(fsnotify.Remove):
		return ports.WatchEvent{Path: event.Name, Op: ports.OpRemove}, true
	case event.Has(fsnotify.Rename):
		return ports.WatchEvent{Path: event.Name, Op: ports.OpRename}, true
	default:
		return ports.WatchEvent{}, false
	}
}
