package services

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = 300 * time.Millisecond

// Watcher rebuilds the site whenever a story, a template or the order file
// changes. Rapid saves are batched into one build.
type Watcher struct {
	builder  *Builder
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
	onBuild  func(*BuildResult, error)

	orderPath string
	lastOrder []byte
	pending   time.Time
}

func NewWatcher(builder *Builder, onBuild func(*BuildResult, error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		builder:   builder,
		watcher:   fw,
		logger:    builder.logger,
		debounce:  DefaultDebounce,
		onBuild:   onBuild,
		orderPath: filepath.Clean(builder.OrderFile().Path),
	}, nil
}

// SetDebounce changes how long the watcher waits after the last event.
// Values below 3ms are raised to 3ms.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d < 3*time.Millisecond {
		d = 3 * time.Millisecond
	}
	w.debounce = d
}

// Run builds once, then blocks rebuilding on changes until ctx is done.
// The underlying watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.build()

	cfg := w.builder.Config()
	if err := w.addTree(cfg.Path(cfg.SourceDir)); err != nil {
		return err
	}
	if err := w.watcher.Add(w.builder.TemplatesDir()); err != nil {
		w.logger.Warn("cannot watch templates", zap.String("dir", w.builder.TemplatesDir()), zap.Error(err))
	}
	if err := os.MkdirAll(filepath.Dir(w.orderPath), 0755); err == nil {
		if err := w.watcher.Add(filepath.Dir(w.orderPath)); err != nil {
			w.logger.Warn("cannot watch order file", zap.String("path", w.orderPath), zap.Error(err))
		}
	}

	ticker := time.NewTicker(w.debounce / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))

		case now := <-ticker.C:
			if !w.pending.IsZero() && now.Sub(w.pending) >= w.debounce {
				w.pending = time.Time{}
				w.build()
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	name := filepath.Clean(event.Name)

	// Only the order file matters in the output directory; every other file
	// there is written by the build itself.
	if filepath.Dir(name) == filepath.Dir(w.orderPath) {
		if name != w.orderPath {
			return
		}
		current, _ := os.ReadFile(w.orderPath)
		if bytes.Equal(current, w.lastOrder) {
			return
		}
	}
	if strings.HasPrefix(filepath.Base(name), ".") {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if err := w.addTree(name); err != nil {
				w.logger.Warn("cannot watch new folder", zap.String("dir", name), zap.Error(err))
			}
		}
	}

	w.logger.Debug("change detected", zap.String("path", name), zap.Stringer("op", event.Op))
	w.pending = time.Now()
}

func (w *Watcher) build() {
	result, err := w.builder.Build()
	w.lastOrder, _ = os.ReadFile(w.orderPath)
	if err != nil {
		w.logger.Error("build failed", zap.Error(err))
	}
	if w.onBuild != nil {
		w.onBuild(result, err)
	}
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
