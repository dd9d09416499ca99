package index

import (
	"context"
	"fmt"

	"composelint/internal/crawler"
	"composelint/internal/extractor"
	"composelint/internal/graph"
)

// Indexer orchestrates codebase indexing and graph management.
type Indexer struct {
	crawler *crawler.Crawler
}

// NewIndexer creates a new indexer.
func NewIndexer(c *crawler.Crawler) *Indexer {
	return &Indexer{
		crawler: c,
	}
}

// BuildGraph scans the project root and constructs the composable call graph.
func (i *Indexer) BuildGraph(ctx context.Context, root string) (*graph.Graph, error) {
	g := graph.NewGraph()

	err := i.crawler.ScanProject(ctx, root, func(file *extractor.SourceFile) error {
		g.AddFile(file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	// Resolve calls after all files are loaded
	g.LinkCalls()

	return g, nil
}
