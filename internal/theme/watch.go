package theme

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a theme file must stay quiet before it is
// re-read. Editors often write a file in several steps.
const DefaultSettle = 100 * time.Millisecond

// Reload is the result of re-reading a theme file after it changed.
type Reload struct {
	Tokens Tokens
	Err    error
}

// Watcher re-reads a theme file whenever it is saved and publishes the new
// tokens. Only the latest reload is kept; a slow reader never sees a stale
// table after a newer one.
type Watcher struct {
	fs      *fsnotify.Watcher
	path    string
	name    string
	settle  time.Duration
	reloads chan Reload
	done    chan struct{}
	stopped chan struct{}
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithSettle sets the quiet period before a reload. Non-positive values
// keep DefaultSettle.
func WithSettle(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// NewWatcher watches the theme file at path. The parent directory is
// watched, not the file, so saves that replace the file are still seen.
func NewWatcher(path string, opts ...WatchOption) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("theme: empty path")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		fs:      fw,
		path:    path,
		name:    filepath.Base(path),
		settle:  DefaultSettle,
		reloads: make(chan Reload, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.run()
	return w, nil
}

// Reloads delivers freshly parsed tokens, or the parse error, after each
// settled change. It is closed by Close.
func (w *Watcher) Reloads() <-chan Reload { return w.reloads }

// Path returns the watched file.
func (w *Watcher) Path() string { return w.path }

// Close stops watching and waits for the loop to exit.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fs.Close()
	<-w.stopped
	return err
}

// touches reports whether ev can leave new content at the theme path.
// Removes and renames away from it cannot, and neither can chmod.
func (w *Watcher) touches(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != w.name {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create) != 0
}

func (w *Watcher) run() {
	defer close(w.stopped)
	defer close(w.reloads)

	// Reset discards a pending fire on Go 1.23+ timers, so no draining.
	settle := time.NewTimer(w.settle)
	settle.Stop()

	for {
		select {
		case <-w.done:
			settle.Stop()
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.touches(ev) {
				continue
			}
			settle.Reset(w.settle)

		case <-settle.C:
			tokens, err := LoadFile(w.path)
			w.publish(Reload{Tokens: tokens, Err: err})

		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// publish replaces any unread reload with r.
func (w *Watcher) publish(r Reload) {
	select {
	case <-w.reloads:
	default:
	}
	w.reloads <- r
}
