package session

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher reports changes to a single file. The parent directory is
// watched so that editors replacing the file by rename are still seen.
// Bursts of events are coalesced into one signal after the debounce delay.
type fileWatcher struct {
	fsw     *fsnotify.Watcher
	name    string
	delay   time.Duration
	changed chan struct{}
	errors  chan error
	closeCh chan struct{}
	done    chan struct{}
}

func newFileWatcher(path string, delay time.Duration) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &fileWatcher{
		fsw:     fsw,
		name:    abs,
		delay:   delay,
		changed: make(chan struct{}, 1),
		errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.processLoop()
	return w, nil
}

// Changed delivers one signal per debounced burst.
func (w *fileWatcher) Changed() <-chan struct{} {
	return w.changed
}

// Errors delivers watcher errors.
func (w *fileWatcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and waits for the loop to exit.
func (w *fileWatcher) Close() error {
	close(w.closeCh)
	<-w.done
	return w.fsw.Close()
}

func (w *fileWatcher) processLoop() {
	defer close(w.done)

	// Stopped timer; armed on the first relevant event.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			timer.Reset(w.delay)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}

		case <-timer.C:
			select {
			case w.changed <- struct{}{}:
			default:
				// A signal is already pending.
			}
		}
	}
}

func (w *fileWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.name {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}
