// Package watch re-triggers analysis when Kotlin sources change on disk.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// Change is a settled filesystem event for one source file.
type Change struct {
	Path    string
	Removed bool
}

// Watcher watches a directory tree for .kt changes and reports them after
// they have been quiet for the debounce window.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	root        string
	ignored     map[string]struct{}
	suffix      string
	debounceDur time.Duration
	pending     map[string]time.Time
	logger      *zap.Logger
}

type Option func(*Watcher)

// WithDebounce sets how long a path must stay quiet before it is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounceDur = d
		}
	}
}

// WithIgnored skips directories with the given base names.
func WithIgnored(dirs ...string) Option {
	return func(w *Watcher) {
		for _, d := range dirs {
			w.ignored[d] = struct{}{}
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher over every directory below root.
func New(root string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:     fw,
		root:        root,
		ignored:     map[string]struct{}{".git": {}, ".gradle": {}, ".idea": {}, "build": {}},
		suffix:      ".kt",
		debounceDur: defaultDebounce,
		pending:     make(map[string]time.Time),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers settled changes to onChange until ctx is cancelled. The
// underlying watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, Change)) error {
	defer w.watcher.Close()

	tick := w.debounceDur / 3
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
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
			w.logger.Warn("watch error", zap.Error(err))

		case <-ticker.C:
			for _, c := range w.settled() {
				onChange(ctx, c)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if !strings.HasSuffix(event.Name, w.suffix) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("file event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// settled removes and returns the paths quiet for at least the debounce window.
func (w *Watcher) settled() []Change {
	w.mu.Lock()
	now := time.Now()
	var paths []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounceDur {
			paths = append(paths, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	sort.Strings(paths)
	changes := make([]Change, 0, len(paths))
	for _, p := range paths {
		_, err := os.Stat(p)
		changes = append(changes, Change{Path: p, Removed: os.IsNotExist(err)})
	}
	return changes
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, skip := w.ignored[d.Name()]; skip && path != dir {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}
