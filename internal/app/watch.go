package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/source"
)

// Watch validates the document once and again every time the file changes,
// until ctx is cancelled. Only local documents can be watched.
func (a *App) Watch(ctx context.Context, opts ValidateOptions) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	loc, err := source.Parse(opts.Document)
	if err != nil {
		return err
	}
	if !loc.IsLocal() {
		return fmt.Errorf("cannot watch %s: only local files can be watched", opts.Document)
	}
	target, err := filepath.Abs(loc.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", loc.Path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of
	// writing it in place.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	logger.Info("Watching document for changes.", "path", target)

	a.validateOnce(ctx, opts)

	timer := time.NewTimer(a.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Document changed.", "op", event.Op.String())
			timer.Reset(a.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)

		case <-timer.C:
			a.validateOnce(ctx, opts)
		}
	}
}

// validateOnce runs Validate and logs failures instead of returning them.
func (a *App) validateOnce(ctx context.Context, opts ValidateOptions) {
	err := a.Validate(ctx, opts)
	switch {
	case err == nil:
	case errors.Is(err, ErrValidationFailed), errors.Is(err, ErrRegression):
		ctxlog.FromContext(ctx).Warn("Validation reported problems.", "error", err)
	default:
		ctxlog.FromContext(ctx).Error("Validation failed to run.", "error", err)
	}
}
