package resolver

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the write+rename burst most editors produce on
// save into a single reload.
const debounceWindow = 250 * time.Millisecond

// WatchDirectory rewatches the directory containing sitesPath and
// hot-reloads r's site table whenever that file changes, without
// restarting any in-progress poll loop. Purely additive: if it returns an
// error, callers should log and continue with the Resolver as already
// loaded — this is never required for correctness.
func (r *Resolver) WatchDirectory(ctx context.Context, sitesPath string, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(sitesPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go r.watchLoop(ctx, watcher, sitesPath, logger)

	return nil
}

func (r *Resolver) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, sitesPath string, logger *slog.Logger) {
	defer watcher.Close()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Name != sitesPath {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			r.reload(sitesPath, logger)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if logger != nil {
				logger.Warn("sites.toml watcher error", "error", err)
			}
		}
	}
}

func (r *Resolver) reload(sitesPath string, logger *slog.Logger) {
	data, err := os.ReadFile(sitesPath)
	if err != nil {
		if logger != nil {
			logger.Warn("reloading sites.toml", "path", sitesPath, "error", err)
		}
		return
	}

	fresh, err := New(data)
	if err != nil {
		if logger != nil {
			logger.Warn("parsing reloaded sites.toml", "path", sitesPath, "error", err)
		}
		return
	}

	r.mu.Lock()
	r.sites = fresh.sites
	r.mu.Unlock()

	if logger != nil {
		logger.Info("reloaded sites.toml", "path", sitesPath)
	}
}
