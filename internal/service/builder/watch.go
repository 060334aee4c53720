package builder

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/predator-app/predator-builder/internal/fsutil"
	"github.com/predator-app/predator-builder/internal/logger"
)

// debounceInterval coalesces bursts of filesystem events (editors write
// several times per save) into a single rebuild.
const debounceInterval = 500 * time.Millisecond

// Watch rebuilds whenever the entry script or an embedded data directory
// changes. It blocks until the context is cancelled; individual build
// failures are logged and do not stop the watch loop.
func (b *Builder) Watch(ctx context.Context) error {
	ctx = logger.WithName(ctx, "watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	defer func() {
		_ = watcher.Close()
	}()

	if err = b.addWatchPaths(watcher); err != nil {
		return err
	}

	b.buildOnce(ctx)

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if b.ignoredPath(event.Name) {
				continue
			}

			logger.DebugKV(ctx, "Change detected", "path", event.Name, "op", event.Op.String())
			pending = time.After(debounceInterval)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.WarnKV(ctx, "Watcher error", "error", watchErr)

		case <-pending:
			pending = nil

			b.buildOnce(ctx)
		}
	}
}

// buildOnce runs a build and logs the outcome without aborting the loop.
func (b *Builder) buildOnce(ctx context.Context) {
	if _, err := b.Run(ctx); err != nil {
		logger.ErrorKV(ctx, "Build failed, watching for changes", "error", err)
		return
	}

	logger.Info(ctx, "Build succeeded, watching for changes")
}

// addWatchPaths registers the entry script's directory and every data
// source tree with the watcher.
func (b *Builder) addWatchPaths(watcher *fsnotify.Watcher) error {
	if err := watcher.Add(filepath.Dir(b.cfg.EntryScript)); err != nil {
		return err
	}

	for _, mapping := range b.cfg.Data {
		if !fsutil.IsDir(mapping.Source) {
			continue
		}

		if err := addRecursive(watcher, mapping.Source); err != nil {
			return err
		}
	}

	return nil
}

// addRecursive registers a directory and all its subdirectories.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		return watcher.Add(path)
	})
}

// ignoredPath filters out the tool's own outputs so rebuilds never
// retrigger themselves.
func (b *Builder) ignoredPath(path string) bool {
	for _, dir := range []string{b.cfg.BuildDir, b.cfg.DistDir, b.cfg.ReleaseDir} {
		if strings.HasPrefix(path, dir+string(os.PathSeparator)) || path == dir {
			return true
		}
	}

	base := filepath.Base(path)
	if strings.HasSuffix(base, ".spec") || strings.HasSuffix(base, ".zip") {
		return true
	}

	for _, source := range b.cfg.TempConfigs {
		if base == filepath.Base(source) && !strings.Contains(path, string(os.PathSeparator)) {
			return true
		}
	}

	return false
}
