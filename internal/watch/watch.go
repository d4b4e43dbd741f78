// Package watch subscribes to file-system change events and re-invokes the
// site build. Changes under the build output path are ignored to avoid
// self-triggered rebuild loops.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Trigger owns the file-system watcher and serializes rebuilds: at most one
// build is in flight, and change events arriving during a build coalesce
// into a single follow-up run.
type Trigger struct {
	watcher *fsnotify.Watcher
	rebuild func(context.Context)
	exclude string

	mu       sync.Mutex
	inFlight bool
	pending  bool
	ctx      context.Context

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewTrigger creates a trigger. excludePath (the build output root) is
// ignored by the event loop.
func NewTrigger(rebuild func(context.Context), excludePath string) (*Trigger, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	abs, err := filepath.Abs(excludePath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("resolve exclude path: %w", err)
	}

	return &Trigger{
		watcher:  watcher,
		rebuild:  rebuild,
		exclude:  abs,
		stopChan: make(chan struct{}),
	}, nil
}

// Add watches a single path. For a file, the containing directory is watched
// instead; watching the directory survives editors that replace files.
func (t *Trigger) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat watch path: %w", err)
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}
	if err := t.watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}

// AddRecursive watches a directory tree, skipping the excluded output path.
func (t *Trigger) AddRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if t.excluded(path) {
			return filepath.SkipDir
		}
		if err := t.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Start runs the event loop until Stop is called or the context ends.
func (t *Trigger) Start(ctx context.Context) {
	t.mu.Lock()
	t.ctx = ctx
	t.mu.Unlock()
	go t.loop(ctx)
}

// Stop shuts the watcher down. In-flight builds run to completion.
func (t *Trigger) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		if err := t.watcher.Close(); err != nil {
			slog.Error("Closing file watcher failed", "error", err)
		}
	})
}

func (t *Trigger) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopChan:
			return
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if t.excluded(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := t.AddRecursive(event.Name); err != nil {
						slog.Warn("Watching new directory failed", "path", event.Name, "error", err)
					}
				}
			}
			slog.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			t.Rebuild()
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)
		}
	}
}

// Rebuild schedules a full site rebuild. While a build is in flight further
// calls set a pending flag; the build loop drains it with exactly one
// follow-up run.
func (t *Trigger) Rebuild() {
	t.mu.Lock()
	if t.inFlight {
		t.pending = true
		t.mu.Unlock()
		return
	}
	t.inFlight = true
	t.mu.Unlock()

	go t.run()
}

func (t *Trigger) run() {
	t.mu.Lock()
	ctx := t.ctx
	t.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		t.rebuild(ctx)

		t.mu.Lock()
		if t.pending {
			t.pending = false
			t.mu.Unlock()
			continue
		}
		t.inFlight = false
		t.mu.Unlock()
		return
	}
}

// Idle reports whether no build is in flight or pending.
func (t *Trigger) Idle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.inFlight && !t.pending
}

func (t *Trigger) excluded(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == t.exclude || strings.HasPrefix(abs, t.exclude+string(filepath.Separator))
}
