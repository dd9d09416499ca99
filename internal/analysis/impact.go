package analysis

import (
	"path/filepath"
	"strings"

	"composelint/internal/git"
)

// ImpactReport splits findings by whether a change touched their declaration.
type ImpactReport struct {
	Touched   []Finding
	Untouched []Finding
}

// AnalyzeImpact identifies which findings lie on changed lines.
// A change with no line information touches every finding in its file.
func AnalyzeImpact(findings []Finding, changes []git.ChangedFile) *ImpactReport {
	report := &ImpactReport{
		Touched:   []Finding{},
		Untouched: []Finding{},
	}
	for _, f := range findings {
		if touched(f, changes) {
			report.Touched = append(report.Touched, f)
		} else {
			report.Untouched = append(report.Untouched, f)
		}
	}
	return report
}

func touched(f Finding, changes []git.ChangedFile) bool {
	for _, change := range changes {
		if !samePath(f.Path, change.Path) {
			continue
		}
		if len(change.ChangedLines) == 0 {
			return true
		}
		if isAffected(f, change.ChangedLines) {
			return true
		}
	}
	return false
}

func isAffected(f Finding, lines []int) bool {
	end := f.EndLine
	if end < f.Line {
		end = f.Line
	}
	// Simple overlap check
	for _, line := range lines {
		if line >= f.Line && line <= end {
			return true
		}
	}
	return false
}

// samePath matches a scanned path against a repository-relative diff path.
func samePath(scanned, changed string) bool {
	scanned = filepath.ToSlash(filepath.Clean(scanned))
	changed = filepath.ToSlash(filepath.Clean(changed))
	return scanned == changed || strings.HasSuffix(scanned, "/"+changed)
}
