package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"composelint/internal/analysis"
	"composelint/internal/compose"
	"composelint/internal/extractor"
	"composelint/internal/git"
	"composelint/internal/index"

	"go.uber.org/zap"
)

// SyncResult summarizes an incremental update.
type SyncResult struct {
	// Impact splits the findings stored before the update by whether the
	// changes touched them.
	Impact   *analysis.ImpactReport
	Updated []string
	Deleted []string
	// Rechecked are unchanged files re-analyzed because a composable they
	// call started or stopped emitting content.
	Rechecked []string
	Findings  []analysis.Finding
}

// Sync re-analyzes the changed Kotlin files under root and forgets deleted
// ones. Change paths are relative to root.
func (p *Pipeline) Sync(ctx context.Context, root string, changes []git.ChangedFile) (*SyncResult, error) {
	changes = git.FilterBySuffix(changes, ".kt")

	previous, err := p.store.LoadFindings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load findings: %w", err)
	}
	result := &SyncResult{Impact: analysis.AnalyzeImpact(previous, changes)}
	if len(changes) == 0 {
		return result, nil
	}

	if err := p.UseStoredEmitters(ctx); err != nil {
		return nil, err
	}

	for _, change := range changes {
		path := filepath.Join(root, change.Path)
		if _, statErr := os.Stat(path); change.Deleted || os.IsNotExist(statErr) {
			if err := p.Forget(ctx, path); err != nil {
				return nil, err
			}
			result.Deleted = append(result.Deleted, path)
			continue
		}
		result.Updated = append(result.Updated, path)
	}

	result.Rechecked, err = p.refreshEmitters(ctx, root, result.Updated)
	if err != nil {
		return nil, err
	}

	targets := append(append([]string{}, result.Updated...), result.Rechecked...)
	err = p.crawler.ScanFiles(ctx, targets, func(file *extractor.SourceFile) error {
		findings, err := p.Record(ctx, file)
		if err != nil {
			return err
		}
		result.Findings = append(result.Findings, findings...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}

	p.logger.Debug("incremental sync finished",
		zap.Int("updated", len(result.Updated)),
		zap.Int("deleted", len(result.Deleted)),
		zap.Int("rechecked", len(result.Rechecked)),
		zap.Int("findings", len(result.Findings)))
	return result, nil
}

// refreshEmitters rebuilds the call graph and, when the set of project
// emitters changed, saves it and returns the files outside updated that call
// one of the flipped composables.
func (p *Pipeline) refreshEmitters(ctx context.Context, root string, updated []string) ([]string, error) {
	previous, err := p.store.LoadEmitters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load emitters: %w", err)
	}
	g, err := index.NewIndexer(p.crawler).BuildGraph(ctx, root)
	if err != nil {
		return nil, err
	}
	current := g.ContentEmitters(compose.NewNameSet(p.cfg.Analysis.ContentEmitters...))

	flipped := symmetricDifference(previous, current)
	if len(flipped) == 0 {
		return nil, nil
	}
	p.logger.Debug("project emitters changed", zap.Strings("flipped", flipped))
	if err := p.store.SaveEmitters(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to save emitters: %w", err)
	}
	if err := p.useEmitters(current); err != nil {
		return nil, err
	}

	skip := compose.NewNameSet(updated...)
	var rechecked []string
	for _, path := range g.CallerFiles(flipped) {
		if !skip.Has(path) {
			rechecked = append(rechecked, path)
		}
	}
	return rechecked, nil
}

func symmetricDifference(a, b []string) []string {
	setA, setB := compose.NewNameSet(a...), compose.NewNameSet(b...)
	out := compose.NewNameSet()
	for name := range setA {
		if !setB.Has(name) {
			out[name] = struct{}{}
		}
	}
	for name := range setB {
		if !setA.Has(name) {
			out[name] = struct{}{}
		}
	}
	return out.Sorted()
}
