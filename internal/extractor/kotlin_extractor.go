package extractor

import (
	"strings"

	"composelint/internal/syntax"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"
)

// KotlinExtractor implements LanguageExtractor for Kotlin.
type KotlinExtractor struct{}

func (k *KotlinExtractor) GetLanguage() *sitter.Language {
	return kotlin.GetLanguage()
}

func (k *KotlinExtractor) GetQuery() string {
	return `
		(function_declaration) @func
		(property_declaration) @prop
	`
}

func (k *KotlinExtractor) Extensions() []string {
	return []string{".kt"}
}

// ExtractHeader reads the package and import headers.
func (k *KotlinExtractor) ExtractHeader(root *sitter.Node, sourceCode []byte, file *SourceFile) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_header":
			file.Package = headerBody(child.Content(sourceCode), "package")
		case "import_list":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if h := child.NamedChild(j); h.Type() == "import_header" {
					addImport(file, h.Content(sourceCode))
				}
			}
		case "import_header":
			addImport(file, child.Content(sourceCode))
		}
	}
}

func headerBody(text, keyword string) string {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), keyword))
	return strings.TrimSpace(strings.TrimSuffix(text, ";"))
}

func addImport(file *SourceFile, text string) {
	path := headerBody(text, "import")
	if path == "" {
		return
	}
	if strings.HasSuffix(path, ".*") {
		file.StarImports = append(file.StarImports, strings.TrimSuffix(path, ".*"))
		return
	}
	local := path
	if idx := strings.Index(path, " as "); idx >= 0 {
		local = strings.TrimSpace(path[idx+len(" as "):])
		path = strings.TrimSpace(path[:idx])
	} else if dot := strings.LastIndex(path, "."); dot >= 0 {
		local = path[dot+1:]
	}
	file.Imports[local] = path
}

func (k *KotlinExtractor) ExtractDecl(captureName string, node *sitter.Node, sourceCode []byte, file *SourceFile) {
	switch captureName {
	case "func":
		if fn := k.extractFunction(node, sourceCode); fn != nil {
			file.Functions = append(file.Functions, fn)
		}
	case "prop":
		// Locals inside function bodies are not declarations of interest.
		if insideBody(node) {
			return
		}
		if p := k.extractProperty(node, sourceCode); p != nil {
			file.Properties = append(file.Properties, p)
		}
	}
}

func insideBody(n *sitter.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "function_body", "lambda_literal", "getter", "setter", "anonymous_initializer":
			return true
		}
	}
	return false
}

func isTypeNode(n *sitter.Node) bool {
	switch n.Type() {
	case "user_type", "nullable_type", "function_type", "parenthesized_type", "non_nullable_type":
		return true
	}
	return false
}

func (k *KotlinExtractor) extractFunction(node *sitter.Node, sourceCode []byte) *syntax.Function {
	fn := &syntax.Function{
		Line:    int(node.StartPoint().Row + 1),
		EndLine: int(node.EndPoint().Row + 1),
	}
	afterParams := false
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch {
		case child.Type() == "modifiers":
			fn.Composable, fn.Private = readModifiers(child, sourceCode)
		case child.Type() == "simple_identifier" && fn.Name == "":
			fn.Name = child.Content(sourceCode)
		case child.Type() == "function_value_parameters":
			if fn.Name == "" && fn.Receiver != "" {
				// The receiver type swallowed the name: `Modifier.fancy`.
				if dot := strings.LastIndex(fn.Receiver, "."); dot > 0 {
					fn.Name = fn.Receiver[dot+1:]
					fn.Receiver = fn.Receiver[:dot]
				}
			}
			fn.Params = k.extractParams(child, sourceCode)
			afterParams = true
		case isTypeNode(child):
			if afterParams {
				fn.ReturnType = child.Content(sourceCode)
			} else if fn.Name == "" {
				fn.Receiver = child.Content(sourceCode)
			}
		case child.Type() == "function_body":
			fn.Body = wrapBody(child, sourceCode)
		}
	}
	if fn.Name == "" {
		return nil
	}
	return fn
}

// readModifiers reports a @Composable annotation and private visibility.
func readModifiers(mods *sitter.Node, sourceCode []byte) (composable, private bool) {
	for i := 0; i < int(mods.NamedChildCount()); i++ {
		m := mods.NamedChild(i)
		switch m.Type() {
		case "annotation":
			if annotationName(m.Content(sourceCode)) == "Composable" {
				composable = true
			}
		case "visibility_modifier":
			if strings.TrimSpace(m.Content(sourceCode)) == "private" {
				private = true
			}
		}
	}
	return composable, private
}

// annotationName reduces `@field:androidx.compose.runtime.Composable()` to `Composable`.
func annotationName(text string) string {
	text = strings.TrimPrefix(strings.TrimSpace(text), "@")
	if idx := strings.IndexAny(text, "(<"); idx >= 0 {
		text = text[:idx]
	}
	if idx := strings.Index(text, ":"); idx >= 0 {
		text = text[idx+1:]
	}
	if idx := strings.LastIndex(text, "."); idx >= 0 {
		text = text[idx+1:]
	}
	return strings.TrimSpace(text)
}

func (k *KotlinExtractor) extractParams(paramsNode *sitter.Node, sourceCode []byte) []*syntax.Parameter {
	var params []*syntax.Parameter
	var expectDefault bool
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			switch {
			case child.Type() == "function_value_parameter":
				visit(child)
			case child.Type() == "parameter":
				params = append(params, k.extractParam(child, sourceCode))
				expectDefault = false
			case !child.IsNamed() && child.Type() == "=":
				expectDefault = true
			case child.IsNamed() && expectDefault && len(params) > 0 && !isComment(child):
				params[len(params)-1].Default = wrapNode(child, sourceCode)
				expectDefault = false
			}
		}
	}
	visit(paramsNode)
	return params
}

func (k *KotlinExtractor) extractParam(node *sitter.Node, sourceCode []byte) *syntax.Parameter {
	p := &syntax.Parameter{}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch {
		case child.Type() == "simple_identifier" && p.Name == "":
			p.Name = child.Content(sourceCode)
		case isTypeNode(child) && p.Type == "":
			p.Type = child.Content(sourceCode)
		}
	}
	return p
}

func (k *KotlinExtractor) extractProperty(node *sitter.Node, sourceCode []byte) *syntax.Property {
	p := &syntax.Property{
		Line:    int(node.StartPoint().Row + 1),
		EndLine: int(node.EndPoint().Row + 1),
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch {
		case child.Type() == "binding_pattern_kind":
			p.Mutable = strings.TrimSpace(child.Content(sourceCode)) == "var"
		case child.Type() == "variable_declaration":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				v := child.NamedChild(j)
				if v.Type() == "simple_identifier" && p.Name == "" {
					p.Name = v.Content(sourceCode)
				} else if isTypeNode(v) && p.Type == "" {
					p.Type = v.Content(sourceCode)
				}
			}
		case isTypeNode(child) && p.Name == "":
			p.Receiver = child.Content(sourceCode)
		case child.Type() == "getter":
			p.Getter = &syntax.Accessor{
				Getter: true,
				Body:   wrapBody(findChild(child, "function_body"), sourceCode),
				Line:   int(child.StartPoint().Row + 1),
			}
		}
	}
	if !p.Mutable {
		// Older grammars emit the keyword as a bare token.
		p.Mutable = findChild(node, "var") != nil
	}
	if init := namedAfter(node, "="); init != nil && init.Type() != "getter" && init.Type() != "setter" {
		p.Initializer = wrapNode(init, sourceCode)
	}
	if p.Name == "" {
		return nil
	}
	return p
}
