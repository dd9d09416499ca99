package crawler

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sync"

	"composelint/internal/extractor"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Crawler scans a directory for source files.
type Crawler struct {
	extractor *extractor.Extractor
	ignored   map[string]bool
	workers   int
	logger    *zap.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithWorkers bounds the number of files parsed concurrently.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithIgnored adds directory names to skip.
func WithIgnored(names ...string) Option {
	return func(c *Crawler) {
		for _, n := range names {
			c.ignored[n] = true
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Crawler) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor, opts ...Option) *Crawler {
	c := &Crawler{
		extractor: ext,
		ignored:   map[string]bool{".git": true, ".gradle": true, ".idea": true, "build": true, "node_modules": true},
		workers:   runtime.NumCPU(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Files lists the source files under root the extractor supports.
func (c *Crawler) Files(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && c.ignored[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if c.extractor.Supports(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// ScanProject walks the root directory and parses every supported file,
// at most c.workers at a time. onFile is called for each parsed file, one
// call at a time. Files that fail to parse are logged and skipped.
func (c *Crawler) ScanProject(ctx context.Context, root string, onFile func(*extractor.SourceFile) error) error {
	files, err := c.Files(root)
	if err != nil {
		return err
	}
	return c.ScanFiles(ctx, files, onFile)
}

// ScanFiles parses the given files like ScanProject.
func (c *Crawler) ScanFiles(ctx context.Context, files []string, onFile func(*extractor.SourceFile) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	var mu sync.Mutex
	for _, path := range files {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			file, err := c.extractor.ExtractFromFile(path)
			if err != nil {
				c.logger.Warn("skipping file", zap.String("path", path), zap.Error(err))
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			return onFile(file)
		})
	}
	return g.Wait()
}
