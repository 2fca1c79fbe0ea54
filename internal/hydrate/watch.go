package hydrate

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"samforge/internal/config"
	"samforge/internal/logging"
)

// Watch re-hydrates a document type whenever its templates change. Events
// are debounced so an editor save burst triggers a single run. Blocks until
// the context is cancelled.
func (e *Engine) Watch(ctx context.Context, docType string, debounce time.Duration) error {
	dt, err := config.DocumentTypeFor(docType)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Join(e.lib.Root, dt.TemplateDir)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	// Partials live beside the templates; watch them too when present.
	if err := watcher.Add(filepath.Join(dir, "_partials")); err == nil {
		logging.HydrationDebug("Watching partials for %s", docType)
	}

	logging.Hydration("Watching %s for template changes", dir)

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logging.HydrationDebug("Template change: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.HydrationWarn("Watcher error: %v", err)

		case <-timerC:
			timer = nil
			timerC = nil
			if _, err := e.rehydrate(ctx, docType, dt); err != nil {
				logging.HydrationWarn("Re-hydration of %s failed: %v", docType, err)
			}
		}
	}
}

// rehydrate clears and regenerates one document type's RAW table.
func (e *Engine) rehydrate(ctx context.Context, docType string, dt config.DocumentType) (int, error) {
	table := e.store.Table("raw", dt.TableName)
	if _, err := e.store.Exec("DELETE FROM " + table); err != nil {
		// First run may precede table creation; Hydrate creates it.
		logging.HydrationDebug("Clear %s: %v", table, err)
	}
	n, err := e.Hydrate(ctx, docType)
	if err != nil {
		return n, err
	}
	logging.Hydration("Re-hydrated %s: %d documents", docType, n)
	return n, nil
}
