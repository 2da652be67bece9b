package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is the quiet period after a manifest change before it is
// reloaded.
const WatchDebounce = 300 * time.Millisecond

// Watch reloads the manifest at path whenever it changes and hands every
// successfully loaded project to onReload. A manifest that fails to load is
// logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *log.Logger, onReload func(*Project)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the parent directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	name := filepath.Base(path)

	var debounce *time.Timer
	reload := make(chan struct{}, 1)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(WatchDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)

		case <-reload:
			p, err := LoadProject(path)
			if err != nil {
				logger.Error("reload failed", "manifest", path, "err", err)
				continue
			}
			logger.Info("reloaded project", "manifest", path, "dirs", len(p.Tree.Dirs()))
			onReload(p)
		}
	}
}
