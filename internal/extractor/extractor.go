package extractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Extractor orchestrates the extraction process using language-specific extractors.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "kotlin", "kt":
		langExt = &KotlinExtractor{}
		lang = "kotlin"
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	return &Extractor{langExtractor: langExt, langName: lang}, nil
}

// Supports reports whether path has an extension this extractor parses.
func (e *Extractor) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range e.langExtractor.Extensions() {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtractFromFile parses a single source file and extracts its declarations.
func (e *Extractor) ExtractFromFile(path string) (*SourceFile, error) {
	sourceCode, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return e.ExtractFromSource(path, sourceCode)
}

// ExtractFromSource parses sourceCode as the content of path.
func (e *Extractor) ExtractFromSource(path string, sourceCode []byte) (*SourceFile, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.langExtractor.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}

	sum := sha256.Sum256(sourceCode)
	file := &SourceFile{
		Path:     path,
		Language: e.langName,
		Hash:     hex.EncodeToString(sum[:]),
		Imports:  make(map[string]string),
	}

	root := tree.RootNode()
	e.langExtractor.ExtractHeader(root, sourceCode, file)

	query, err := sitter.NewQuery([]byte(e.langExtractor.GetQuery()), e.langExtractor.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	defer query.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			e.langExtractor.ExtractDecl(query.CaptureNameForId(c.Index), c.Node, sourceCode, file)
		}
	}

	return file, nil
}
