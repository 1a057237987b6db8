package sdlhost

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/keymap"
	"github.com/Faultbox/scatterbrush/internal/logger"
)

// reloadDelay collapses the burst of events editors emit for one save.
const reloadDelay = 150 * time.Millisecond

// KeymapWatcher reloads a keymap override file when it changes and
// delivers the result on Updates. Files that fail to load are logged and
// skipped, so the last good keymap stays in use.
type KeymapWatcher struct {
	Updates <-chan *keymap.Keymap

	path    string
	watcher *fsnotify.Watcher
	updates chan *keymap.Keymap
	log     *zap.Logger
}

// WatchKeymap starts watching path. The directory is watched rather than
// the file so atomic renames by editors are seen.
func WatchKeymap(ctx context.Context, path string) (*KeymapWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("keymap watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("keymap watcher: %w", err)
	}
	kw := &KeymapWatcher{
		path:    abs,
		watcher: w,
		updates: make(chan *keymap.Keymap, 1),
		log:     logger.Named("keymap"),
	}
	kw.Updates = kw.updates
	go kw.run(ctx)
	return kw, nil
}

func (kw *KeymapWatcher) run(ctx context.Context) {
	defer kw.watcher.Close()
	defer close(kw.updates)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-kw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != kw.path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(reloadDelay)
		case err, ok := <-kw.watcher.Errors:
			if !ok {
				return
			}
			kw.log.Warn("watch error", zap.Error(err))
		case <-pending:
			pending = nil
			kw.reload(ctx)
		}
	}
}

func (kw *KeymapWatcher) reload(ctx context.Context) {
	km, warnings, err := keymap.Load(kw.path)
	if err != nil {
		kw.log.Warn("keymap reload failed", zap.String("path", kw.path), zap.Error(err))
		return
	}
	kw.log.Info("keymap reloaded", zap.String("path", kw.path), zap.Int("warnings", len(warnings)))
	// Only the newest keymap is kept.
	select {
	case <-kw.updates:
	default:
	}
	select {
	case kw.updates <- km:
	case <-ctx.Done():
	}
}
