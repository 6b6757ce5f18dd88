package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/jonwraymond/toolprompts/logging"
)

// Watch reloads the catalog whenever its file is written, created, or
// renamed into place, and calls onChange after each successful reload.
// It watches the parent directory so editors that replace the file are
// picked up. Watch blocks until ctx is cancelled.
func (l *Loader) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	target := filepath.Clean(l.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := l.Reload(); err != nil {
				logging.Warn().
					Add(logging.Component("catalog")).
					Add(logging.Path(l.path)).
					Add(logging.ErrorField(err)).
					Msg("catalog reload failed")
				continue
			}
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn().
				Add(logging.Component("catalog")).
				Add(logging.ErrorField(err)).
				Msg("watcher error")
		}
	}
}
