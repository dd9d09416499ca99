// Package pipeline wires extraction, call-graph indexing, analysis and
// storage into the flows the CLI runs.
package pipeline

import (
	"context"
	"fmt"
	"sort"

	"composelint/internal/analysis"
	"composelint/internal/compose"
	"composelint/internal/config"
	"composelint/internal/crawler"
	"composelint/internal/extractor"
	"composelint/internal/index"
	"composelint/internal/storage"

	"go.uber.org/zap"
)

type Pipeline struct {
	cfg      *config.Config
	store    *storage.SQLiteStore
	ext      *extractor.Extractor
	crawler  *crawler.Crawler
	analyzer *analysis.Analyzer
	logger   *zap.Logger
}

// ScanResult summarizes a full scan.
type ScanResult struct {
	Files    int
	Emitters []string // project composables found to emit content
	Findings []analysis.Finding
}

// New opens the configured database and prepares the Kotlin extractor.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store, err := storage.NewSQLiteStore(cfg.Storage.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	ext, err := extractor.NewExtractor("kotlin")
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}
	cr := crawler.NewCrawler(ext,
		crawler.WithWorkers(cfg.Analysis.Workers),
		crawler.WithIgnored(cfg.Project.Exclude...),
		crawler.WithLogger(logger.Named("crawler")))
	return &Pipeline{
		cfg:     cfg,
		store:   store,
		ext:     ext,
		crawler: cr,
		logger:  logger,
	}, nil
}

func (p *Pipeline) Close() error {
	return p.store.Close()
}

// Store exposes the underlying findings store.
func (p *Pipeline) Store() *storage.SQLiteStore {
	return p.store
}

// Scan analyzes every Kotlin file under root. Content emitters are first
// propagated through the project's call graph and saved for later
// incremental runs.
func (p *Pipeline) Scan(ctx context.Context, root string) (*ScanResult, error) {
	g, err := index.NewIndexer(p.crawler).BuildGraph(ctx, root)
	if err != nil {
		return nil, err
	}
	project := g.ContentEmitters(compose.NewNameSet(p.cfg.Analysis.ContentEmitters...))
	p.logger.Debug("derived project emitters",
		zap.Int("composables", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
		zap.Strings("emitters", project))
	if err := p.store.SaveEmitters(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to save emitters: %w", err)
	}
	if err := p.useEmitters(project); err != nil {
		return nil, err
	}

	files := g.Files
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	result := &ScanResult{Files: len(files), Emitters: project}
	for _, file := range files {
		findings, err := p.Record(ctx, file)
		if err != nil {
			return nil, err
		}
		result.Findings = append(result.Findings, findings...)
	}
	return result, nil
}

// Record analyzes file and replaces its stored findings.
func (p *Pipeline) Record(ctx context.Context, file *extractor.SourceFile) ([]analysis.Finding, error) {
	if p.analyzer == nil {
		if err := p.UseStoredEmitters(ctx); err != nil {
			return nil, err
		}
	}
	findings := p.analyzer.AnalyzeFile(file)
	if err := p.store.SaveFileFindings(ctx, file.Path, file.Hash, findings); err != nil {
		return nil, fmt.Errorf("failed to save findings for %s: %w", file.Path, err)
	}
	return findings, nil
}

// RecordPath extracts and records a single file.
func (p *Pipeline) RecordPath(ctx context.Context, path string) ([]analysis.Finding, error) {
	file, err := p.ext.ExtractFromFile(path)
	if err != nil {
		return nil, err
	}
	return p.Record(ctx, file)
}

// Forget drops path and its findings from the store.
func (p *Pipeline) Forget(ctx context.Context, path string) error {
	if err := p.store.DeleteFile(ctx, path); err != nil {
		return fmt.Errorf("failed to forget %s: %w", path, err)
	}
	return nil
}

// UseStoredEmitters prepares the analyzer with the emitters saved by the
// last scan.
func (p *Pipeline) UseStoredEmitters(ctx context.Context) error {
	project, err := p.store.LoadEmitters(ctx)
	if err != nil {
		return fmt.Errorf("failed to load emitters: %w", err)
	}
	p.logger.Debug("loaded project emitters", zap.Int("count", len(project)))
	return p.useEmitters(project)
}

func (p *Pipeline) useEmitters(project []string) error {
	names := append(append([]string{}, p.cfg.Analysis.ContentEmitters...), project...)
	analyzer, err := analysis.NewAnalyzer(names, p.cfg.Analysis.CacheSize, p.logger.Named("analysis"))
	if err != nil {
		return err
	}
	p.analyzer = analyzer
	return nil
}
