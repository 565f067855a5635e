package content

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after a content file changes on disk.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, slug string)

// Watch starts an fsnotify watcher on the posts directory and reports
// content file changes until ctx is cancelled. The posts directory is flat;
// slugs are file names without the extension. If the directory does not
// exist yet, Watch polls for it before starting, so a content-free
// deployment can grow content later.
func Watch(ctx context.Context, store *Store, logger *slog.Logger, cb EventCallback) error {
	root := store.Root()

	for {
		if _, err := os.Stat(root); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(5 * time.Second):
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, Ext) {
				continue
			}
			slug := strings.TrimSuffix(name, Ext)

			var kind string
			switch {
			case ev.Op&fsnotify.Create != 0:
				kind = "created"
			case ev.Op&fsnotify.Write != 0:
				kind = "updated"
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old path only; the new path
				// arrives as a separate Create event.
				kind = "deleted"
			default:
				continue
			}

			logger.Debug("watcher: content changed",
				slog.String("slug", slug),
				slog.String("op", kind))
			if cb != nil {
				cb(kind, slug)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}
