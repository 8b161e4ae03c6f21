package explorer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceWindow coalesces bursts of filesystem events (editors often
// write several events per save) into a single refresh notification.
const DefaultDebounceWindow = 250 * time.Millisecond

// Watcher watches the explorer's current directory and emits a notification
// when its contents change, so the UI can refresh the listing.
type Watcher struct {
	fs      *fsnotify.Watcher
	window  time.Duration
	changes chan struct{}

	mu      sync.Mutex
	watched string
	timer   *time.Timer
	closed  bool
}

// NewWatcher creates a watcher with the default debounce window.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:      fw,
		window:  DefaultDebounceWindow,
		changes: make(chan struct{}, 1),
	}, nil
}

// Changes returns the notification channel. At most one notification is
// pending at a time; coalescing drops the rest.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Watch switches the watcher to dir, replacing any previous watch.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watched == dir {
		return nil
	}
	if w.watched != "" {
		if err := w.fs.Remove(w.watched); err != nil {
			slog.Debug("failed to remove watch", slog.String("dir", w.watched), slog.String("error", err.Error()))
		}
	}
	if err := w.fs.Add(dir); err != nil {
		w.watched = ""
		return err
	}
	w.watched = dir
	return nil
}

// Run consumes fsnotify events until ctx is cancelled or the watcher closes.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
				w.scheduleNotify()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// scheduleNotify arms the debounce timer; repeated events within the window
// reset it so a burst produces one notification.
func (w *Watcher) scheduleNotify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.window, func() {
		select {
		case w.changes <- struct{}{}:
		default:
		}
	})
}

// Close stops the watcher and releases the inotify/kqueue handle.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fs.Close()
}
