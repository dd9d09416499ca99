package extractor

import (
	"strings"

	"composelint/internal/syntax"
)

// ImportEvaluator resolves source type references against a file's imports
// and package. Resolved types are the type reference strings themselves.
type ImportEvaluator struct {
	pkg     string
	imports map[string]string
	stars   []string
}

var _ syntax.TypeEvaluator = (*ImportEvaluator)(nil)

// Evaluator returns a TypeEvaluator scoped to the file.
func (f *SourceFile) Evaluator() *ImportEvaluator {
	return &ImportEvaluator{pkg: f.Package, imports: f.Imports, stars: f.StarImports}
}

// Resolve pairs each parameter of fn with its type reference as a resolved type.
func (f *SourceFile) Resolve(fn *syntax.Function) *syntax.ResolvedMethod {
	if fn == nil {
		return nil
	}
	m := &syntax.ResolvedMethod{Name: fn.Name}
	for _, p := range fn.Params {
		rp := &syntax.ResolvedParameter{Name: p.Name, Source: p}
		if p.Type != "" {
			rp.Type = p.Type
		}
		m.Params = append(m.Params, rp)
	}
	return m
}

// TypeMatches reports whether the type reference t names qualifiedName.
// Unresolvable references never match.
func (e *ImportEvaluator) TypeMatches(t syntax.ResolvedType, qualifiedName string) bool {
	ref, ok := t.(string)
	if !ok {
		return false
	}
	ref = normalizeTypeRef(ref)
	if ref == "" {
		return false
	}
	if ref == qualifiedName {
		return true
	}

	head, rest := ref, ""
	if dot := strings.Index(ref, "."); dot >= 0 {
		head, rest = ref[:dot], ref[dot:]
	}
	if q, ok := e.imports[head]; ok {
		return q+rest == qualifiedName
	}
	for _, pkg := range e.stars {
		if pkg+"."+ref == qualifiedName {
			return true
		}
	}
	return e.pkg != "" && e.pkg+"."+ref == qualifiedName
}

// normalizeTypeRef drops nullability, type arguments and annotations.
func normalizeTypeRef(ref string) string {
	ref = strings.TrimSpace(ref)
	for strings.HasPrefix(ref, "@") {
		sp := strings.IndexAny(ref, " \t\n")
		if sp < 0 {
			return ""
		}
		ref = strings.TrimSpace(ref[sp:])
	}
	ref = strings.TrimSuffix(ref, "?")
	if idx := strings.Index(ref, "<"); idx >= 0 {
		ref = ref[:idx]
	}
	return strings.TrimSpace(ref)
}
