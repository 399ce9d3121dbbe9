package game

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/smasonuk/portalgun"
	"go.uber.org/zap"
)

const reloadDebounce = 100 * time.Millisecond

// TuningWatcher reloads a tuning file whenever it changes on disk. Good
// reloads arrive on Updates; bad ones are logged and dropped.
type TuningWatcher struct {
	Updates chan portalgun.Tuning

	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewTuningWatcher watches the directory holding path, since editors often
// replace a file rather than write it in place.
func NewTuningWatcher(path string, logger *zap.Logger) (*TuningWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	tw := &TuningWatcher{
		Updates: make(chan portalgun.Tuning, 1),
		path:    filepath.Clean(path),
		watcher: w,
		logger:  logger.Named("tuning"),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go tw.run()
	return tw, nil
}

func (tw *TuningWatcher) Close() error {
	var err error
	tw.once.Do(func() {
		close(tw.closeCh)
		err = tw.watcher.Close()
		<-tw.done
	})
	return err
}

func (tw *TuningWatcher) run() {
	defer close(tw.done)
	// Reloads wait until the file has been quiet for reloadDebounce.
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != tw.path {
				continue
			}
			fire = time.After(reloadDebounce)
		case <-fire:
			fire = nil
			tw.reload()
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.logger.Warn("watch failed", zap.Error(err))
		case <-tw.closeCh:
			return
		}
	}
}

func (tw *TuningWatcher) reload() {
	t, err := portalgun.LoadTuning(tw.path)
	if err != nil {
		tw.logger.Warn("tuning reload rejected", zap.Error(err))
		return
	}
	tw.logger.Info("tuning reloaded", zap.String("path", tw.path))

	// Only the newest tuning matters.
	select {
	case <-tw.Updates:
	default:
	}
	tw.Updates <- t
}
