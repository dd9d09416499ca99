// Package generator renders stored findings as reports.
package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"composelint/internal/analysis"

	"github.com/charmbracelet/glamour"
)

// Format selects the report encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	// FormatPretty is the Markdown report rendered for a terminal.
	FormatPretty Format = "pretty"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatPretty:
		return FormatPretty, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Write renders findings to w in format.
func Write(w io.Writer, format Format, findings []analysis.Finding) error {
	switch format {
	case FormatMarkdown:
		return NewMarkdownGenerator().Write(w, findings)
	case FormatPretty:
		var sb strings.Builder
		if err := NewMarkdownGenerator().Write(&sb, findings); err != nil {
			return err
		}
		out, err := RenderTerminal(sb.String(), 100)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if findings == nil {
			findings = []analysis.Finding{}
		}
		return enc.Encode(findings)
	default:
		for _, f := range findings {
			if _, err := fmt.Fprintln(w, f.String()); err != nil {
				return err
			}
		}
		return nil
	}
}

// MarkdownGenerator produces a findings report in Markdown format.
type MarkdownGenerator struct {
	now func() time.Time
}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{now: time.Now}
}

// Write emits a summary table of rule counts followed by one section per file.
func (g *MarkdownGenerator) Write(w io.Writer, findings []analysis.Finding) error {
	var sb strings.Builder

	sb.WriteString("# Compose lint report\n\n")
	fmt.Fprintf(&sb, "_Generated %s_\n\n", g.now().UTC().Format(time.RFC3339))

	if len(findings) == 0 {
		sb.WriteString("No findings.\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	counts := make(map[string]int)
	byFile := make(map[string][]analysis.Finding)
	for _, f := range findings {
		counts[f.Rule]++
		byFile[f.Path] = append(byFile[f.Path], f)
	}

	sb.WriteString("| Rule | Findings |\n|---|---|\n")
	for _, rule := range sortedKeys(counts) {
		fmt.Fprintf(&sb, "| `%s` | %d |\n", rule, counts[rule])
	}
	fmt.Fprintf(&sb, "| **Total** | %d |\n\n", len(findings))

	for _, path := range sortedKeys(byFile) {
		items := byFile[path]
		sort.SliceStable(items, func(i, j int) bool { return items[i].Line < items[j].Line })

		fmt.Fprintf(&sb, "## %s\n\n", path)
		for _, f := range items {
			fmt.Fprintf(&sb, "- **%s** (line %d) `%s`: %s\n", f.Symbol, f.Line, f.Rule, escapeMarkdown(f.Message))
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var markdownEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// RenderTerminal styles a Markdown document for the current terminal.
func RenderTerminal(markdown string, wrap int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return r.Render(markdown)
}
