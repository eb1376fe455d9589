package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/subtext/internal/logfields"
)

// NoteWatcher reports changed paths below a notes directory. Bursts of
// events are collapsed: onChange runs once per quiet period of debounce.
type NoteWatcher struct {
	root     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(ctx context.Context, paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	stop    chan struct{}
	once    sync.Once
}

// NewNoteWatcher creates a watcher for root and all its visible subdirectories.
func NewNoteWatcher(root string, debounce time.Duration, onChange func(ctx context.Context, paths []string)) (*NoteWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to resolve notes dir: %w", err)
	}
	return &NoteWatcher{
		root:     abs,
		watcher:  w,
		debounce: debounce,
		onChange: onChange,
		pending:  make(map[string]struct{}),
		stop:     make(chan struct{}),
	}, nil
}

// Start adds the directory tree and begins delivering changes.
func (nw *NoteWatcher) Start(ctx context.Context) error {
	if err := nw.addTree(nw.root); err != nil {
		return fmt.Errorf("failed to watch notes dir %s: %w", nw.root, err)
	}
	slog.Info("Watching notes", logfields.Path(nw.root))
	go nw.loop(ctx)
	return nil
}

// Stop ends watching. Pending changes are dropped.
func (nw *NoteWatcher) Stop() {
	nw.once.Do(func() {
		close(nw.stop)
		nw.mu.Lock()
		if nw.timer != nil {
			nw.timer.Stop()
		}
		nw.mu.Unlock()
		if err := nw.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	})
}

func (nw *NoteWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return nw.watcher.Add(p)
	})
}

func (nw *NoteWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-nw.stop:
			return
		case ev, ok := <-nw.watcher.Events:
			if !ok {
				return
			}
			nw.handle(ctx, ev)
		case err, ok := <-nw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Notes watcher error", logfields.Error(err))
		}
	}
}

func (nw *NoteWatcher) handle(ctx context.Context, ev fsnotify.Event) {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := nw.addTree(ev.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
			}
			return
		}
	}
	slog.Debug("Note change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))

	nw.mu.Lock()
	defer nw.mu.Unlock()
	nw.pending[ev.Name] = struct{}{}
	if nw.timer != nil {
		nw.timer.Stop()
	}
	nw.timer = time.AfterFunc(nw.debounce, func() { nw.flush(ctx) })
}

func (nw *NoteWatcher) flush(ctx context.Context) {
	nw.mu.Lock()
	paths := make([]string, 0, len(nw.pending))
	for p := range nw.pending {
		paths = append(paths, p)
	}
	nw.pending = make(map[string]struct{})
	nw.mu.Unlock()

	select {
	case <-nw.stop:
		return
	default:
	}
	if len(paths) > 0 {
		nw.onChange(ctx, paths)
	}
}
