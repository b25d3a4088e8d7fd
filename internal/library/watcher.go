package library

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cesargomez89/hummingbird/internal/constants"
	"github.com/cesargomez89/hummingbird/internal/logger"
)

// Watcher reloads the index when the catalog database changes on disk.
// An external scanner owns the catalog; this is how its writes become
// visible without restarting the player.
type Watcher struct {
	index   *Index
	log     *logger.Logger
	watcher *fsnotify.Watcher
	targets map[string]bool
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(index *Index, dbPath string, log *logger.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(dbPath)
	if err != nil {
		_ = fw.Close()
		return nil, err
	}

	// Watch the directory: SQLite replaces and truncates files during
	// checkpoints, which drops file-level watches.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		index:   index,
		log:     log.WithComponent("watcher"),
		watcher: fw,
		targets: map[string]bool{
			abs:          true,
			abs + "-wal": true,
		},
		closeCh: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	var timer *time.Timer
	var reload <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.targets[filepath.Clean(event.Name)] {
				continue
			}
			// WAL writes arrive in bursts; debounce into one reload.
			if timer == nil {
				timer = time.NewTimer(constants.WatchDebounce)
				reload = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(constants.WatchDebounce)
			}
		case <-reload:
			timer = nil
			reload = nil
			if err := w.index.Load(); err != nil {
				w.log.Error("Failed to reload library", "error", err)
			} else {
				w.log.Info("Library reloaded", "entries", w.index.Len())
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("Watch error", "error", err)
		case <-w.closeCh:
			return
		}
	}
}
