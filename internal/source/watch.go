package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes to one file. The parent directory is watched so
// editors that replace the file through a rename are still seen.
type Watcher struct {
	fs     *fsnotify.Watcher
	target string
	delay  time.Duration
	notify func()
	log    logrus.FieldLogger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
	wg    sync.WaitGroup
	once  sync.Once
}

// Watch calls fn after the file at path is written, created or renamed,
// coalescing bursts within delay. It stops when ctx is done or Close is
// called.
func Watch(ctx context.Context, path string, delay time.Duration, fn func(), log logrus.FieldLogger) (*Watcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(target)); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{fs: fs, target: target, delay: delay, notify: fn, log: log}
	w.wg.Add(1)
	go w.loop(ctx)
	return w, nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			w.stop()
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.log.WithFields(logrus.Fields{"path": ev.Name, "op": ev.Op.String()}).Debug("source changed")
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("file watcher error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if !closed {
		w.notify()
	}
}

func (w *Watcher) stop() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		if err := w.fs.Close(); err != nil {
			w.log.WithError(err).Warn("close file watcher")
		}
	})
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.stop()
	w.wg.Wait()
	return nil
}
