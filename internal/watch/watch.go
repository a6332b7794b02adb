// Package watch triggers rebuilds when the article source changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the content directory and emits debounced rebuild
// triggers. Bursts of write events (editors often write several times in
// quick succession) coalesce into a single trigger per quiet window.
type Watcher struct {
	contentDir string
	debounce   time.Duration
	watcher    *fsnotify.Watcher
	triggers   chan string
}

// New creates a watcher over the directory containing the article.
//
// Watching the directory rather than the file survives the rename-and-swap
// save strategy most editors use.
func New(articlePath string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(articlePath)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("resolve article path: %w", err)
	}

	contentDir := filepath.Dir(absPath)
	if err := fsw.Add(contentDir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", contentDir, err)
	}

	return &Watcher{
		contentDir: contentDir,
		debounce:   debounce,
		watcher:    fsw,
		triggers:   make(chan string, 1),
	}, nil
}

// Triggers returns the channel rebuild reasons are delivered on.
func (w *Watcher) Triggers() <-chan string {
	return w.triggers
}

// Run processes filesystem events until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	slog.Info("Watching content for changes", "dir", w.contentDir, "debounce", w.debounce)

	var (
		timer  *time.Timer
		fireCh <-chan time.Time
		reason string
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			reason = fmt.Sprintf("%s %s", strings.ToLower(event.Op.String()), filepath.Base(event.Name))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fireCh = timer.C
			} else {
				if !timer.Stop() {
					<-fireCh
				}
				timer.Reset(w.debounce)
			}

		case <-fireCh:
			timer = nil
			fireCh = nil
			slog.Debug("Change detected", "reason", reason)
			select {
			case w.triggers <- reason:
			default:
				// A trigger is already pending; the rebuild will pick up
				// this change too.
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "error", err)
		}
	}
}

// relevant filters out events that cannot affect the built site: hidden
// files, editor temp files, and chmod-only changes.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") || strings.HasSuffix(name, ".swp") {
		return false
	}
	return true
}
