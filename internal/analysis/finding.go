package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Rule identifiers.
const (
	RuleModifierMissing           = "ComposeModifierMissing"
	RuleCompositionLocalUsage     = "ComposeCompositionLocalUsage"
	RuleLambdaInRestartableEffect = "ComposeLambdaParameterInRestartableEffect"
)

// Finding is one diagnostic produced for a declaration.
type Finding struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Line    int    `json:"line"`
	EndLine int    `json:"end_line"`
	Symbol  string `json:"symbol"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: [%s] %s", f.Path, f.Line, f.Rule, f.Message)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// FindingID creates a deterministic finding ID.
// It ignores the line so a finding keeps its ID when code above it moves.
func FindingID(f Finding) string {
	path := strings.TrimSpace(f.Path)
	if path == "" {
		path = "_"
	}
	symbol := strings.TrimSpace(f.Symbol)
	if symbol == "" {
		symbol = "_"
	}

	fingerprint := strings.Join([]string{
		path,
		f.Rule,
		symbol,
		canonicalize(f.Message),
	}, "|")

	sum := sha256.Sum256([]byte(fingerprint))
	short := hex.EncodeToString(sum[:8])
	return fmt.Sprintf("%s:%s:%s", f.Rule, symbol, short)
}

func canonicalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return whitespaceRe.ReplaceAllString(s, " ")
}
