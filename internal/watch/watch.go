// Package watch reports changes to a single file on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long a file must stay quiet before a change is reported.
const DefaultDelay = 200 * time.Millisecond

// File watches one path. The parent directory is watched so that editors
// which save by replacing the file are still seen.
type File struct {
	path    string
	delay   time.Duration
	watcher *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	log     *zap.Logger
}

// NewFile starts watching path. Bursts of events closer together than
// delay are reported once. A nil log disables logging.
func NewFile(path string, delay time.Duration, log *zap.Logger) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	f := &File{
		path:    abs,
		delay:   delay,
		watcher: w,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     log,
	}
	go f.run()

	log.Debug("watching file", zap.String("path", abs))
	return f, nil
}

// Changes delivers one value per settled change. It is closed by Close.
func (f *File) Changes() <-chan struct{} {
	return f.changes
}

// Close stops watching and waits for the event loop to exit.
func (f *File) Close() error {
	err := f.watcher.Close()
	<-f.done
	return err
}

func (f *File) run() {
	defer close(f.done)
	defer close(f.changes)

	var settle <-chan time.Time
	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				f.log.Debug("file event", zap.String("op", event.Op.String()))
				settle = time.After(f.delay)
			}

		case <-settle:
			settle = nil
			// A pending notification already covers this change.
			select {
			case f.changes <- struct{}{}:
			default:
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.log.Warn("watch error", zap.Error(err))
		}
	}
}
