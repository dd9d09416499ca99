package extractor

import (
	"composelint/internal/syntax"

	sitter "github.com/smacker/go-tree-sitter"
)

// SourceFile holds the declarations extracted from one source file.
type SourceFile struct {
	Path     string
	Language string
	Package  string
	// Hash is the hex sha256 of the file content.
	Hash string
	// Imports maps the local name (simple name or alias) to the qualified name.
	Imports     map[string]string
	StarImports []string
	Functions   []*syntax.Function
	Properties  []*syntax.Property
}

// LanguageExtractor defines the interface that each language parser must implement.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	GetQuery() string
	Extensions() []string
	ExtractHeader(root *sitter.Node, sourceCode []byte, file *SourceFile)
	ExtractDecl(captureName string, node *sitter.Node, sourceCode []byte, file *SourceFile)
}
