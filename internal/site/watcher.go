package site

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/ba5maa/FileBlogSystem/internal/logger"
	"github.com/ba5maa/FileBlogSystem/internal/metrics"
)

// Watcher holds the current settings and reloads them when the file changes.
// A reload that fails keeps the previous settings.
type Watcher struct {
	path    string
	current atomic.Pointer[Config]

	fsw       *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher loads path and starts watching its directory. The directory
// must exist; the file itself may not.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve site config path: %w", err)
	}

	cfg, err := Load(abs)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch site config: %w", err)
	}
	// The directory is watched so a file replaced by rename is still seen.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch site config directory: %w", err)
	}

	w := &Watcher{
		path: abs,
		fsw:  fsw,
		done: make(chan struct{}),
	}
	w.current.Store(&cfg)

	go w.loop()

	logger.Info("Watching site config", slog.String("path", abs))
	return w, nil
}

// Static returns a Watcher that never reloads. Used when no settings file
// is configured and in tests.
func Static(cfg Config) *Watcher {
	w := &Watcher{}
	w.current.Store(&cfg)
	return w
}

// Current returns the settings in effect.
func (w *Watcher) Current() Config {
	return *w.current.Load()
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	if w.fsw == nil {
		return nil
	}
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Site config watcher error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		metrics.ObserveSiteReload(metrics.ResultError)
		logger.Error("Failed to reload site config, keeping previous settings",
			slog.String("path", w.path),
			slog.String("error", err.Error()))
		return
	}

	prev := w.current.Swap(&cfg)
	if prev != nil && *prev == cfg {
		return
	}
	metrics.ObserveSiteReload(metrics.ResultSuccess)
	logger.Info("Reloaded site config",
		slog.String("site_name", cfg.SiteName),
		slog.Int("posts_per_page", cfg.PostsPerPage))
}
