package storage

import (
	"context"

	"composelint/internal/analysis"
)

// Store persists analysis results between runs.
type Store interface {
	FindingStore
	EmitterStore
	Close() error
}

// FindingStore defines operations for persisting findings per file.
type FindingStore interface {
	// SaveFileFindings replaces the findings recorded for path and remembers
	// the content hash they were computed from.
	SaveFileFindings(ctx context.Context, path, hash string, findings []analysis.Finding) error

	// FileHash returns the last recorded content hash for path, or "" when
	// the file has never been scanned.
	FileHash(ctx context.Context, path string) (string, error)

	// LoadFindings returns all findings, optionally restricted to rules.
	LoadFindings(ctx context.Context, rules ...string) ([]analysis.Finding, error)

	// DeleteFile forgets path and its findings.
	DeleteFile(ctx context.Context, path string) error
}

// EmitterStore persists the content emitters derived from the project's
// call graph so incremental runs classify calls the same way a full scan does.
type EmitterStore interface {
	SaveEmitters(ctx context.Context, names []string) error
	LoadEmitters(ctx context.Context) ([]string, error)
}
