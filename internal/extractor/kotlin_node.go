package extractor

import (
	"composelint/internal/syntax"

	sitter "github.com/smacker/go-tree-sitter"
)

// kotlinNode exposes a tree-sitter node through syntax.Node.
type kotlinNode struct {
	n    *sitter.Node
	src  []byte
	kind syntax.Kind
}

// kotlinCall is a call_expression. `F(args) { ... }` parses as a call nested
// in a trailing-lambda call; both levels are folded into one kotlinCall.
type kotlinCall struct {
	kotlinNode
	callee   *sitter.Node
	suffixes []*sitter.Node
}

// kotlinBlock is a braced function body; its children are the statements.
type kotlinBlock struct {
	n     *sitter.Node
	src   []byte
	stmts []syntax.Node
}

var (
	_ syntax.Node     = kotlinNode{}
	_ syntax.CallNode = kotlinCall{}
	_ syntax.Node     = kotlinBlock{}
)

func wrapNode(n *sitter.Node, src []byte) syntax.Node {
	if n == nil {
		return nil
	}
	base := kotlinNode{n: n, src: src, kind: syntax.KindOther}
	switch n.Type() {
	case "call_expression":
		base.kind = syntax.KindCall
		return newCall(base)
	case "parenthesized_expression":
		base.kind = syntax.KindParenthesized
	case "jump_expression":
		if n.ChildCount() > 0 && n.Child(0).Type() == "return" {
			base.kind = syntax.KindReturn
		}
	case "lambda_literal":
		base.kind = syntax.KindLambda
	case "statements", "block":
		base.kind = syntax.KindBlock
	case "simple_identifier":
		base.kind = syntax.KindIdentifier
	case "function_body":
		return wrapBody(n, src)
	}
	return base
}

// wrapBody maps `= expr` to expr and `{ ... }` to a block of its statements.
func wrapBody(body *sitter.Node, src []byte) syntax.Node {
	if body == nil {
		return nil
	}
	if expr := namedAfter(body, "="); expr != nil {
		return wrapNode(expr, src)
	}
	b := kotlinBlock{n: body, src: src}
	container := body
	if inner := findChild(body, "block"); inner != nil {
		container = inner
	}
	if stmts := findChild(container, "statements"); stmts != nil {
		container = stmts
	}
	b.stmts = namedChildren(container, src)
	return b
}

func (k kotlinNode) Kind() syntax.Kind { return k.kind }
func (k kotlinNode) Text() string      { return k.n.Content(k.src) }

func (k kotlinNode) Children() []syntax.Node {
	return namedChildren(k.n, k.src)
}

func newCall(base kotlinNode) kotlinCall {
	call := kotlinCall{kotlinNode: base}
	cur := base.n
	for {
		var head *sitter.Node
		var own []*sitter.Node
		for i := 0; i < int(cur.NamedChildCount()); i++ {
			c := cur.NamedChild(i)
			switch {
			case c.Type() == "call_suffix":
				own = append(own, c)
			case head == nil && !isComment(c):
				head = c
			}
		}
		call.suffixes = append(own, call.suffixes...)
		if head != nil && head.Type() == "call_expression" && lambdaOnly(own) {
			cur = head
			continue
		}
		call.callee = head
		return call
	}
}

// lambdaOnly reports whether every suffix is a bare trailing lambda.
func lambdaOnly(suffixes []*sitter.Node) bool {
	if len(suffixes) == 0 {
		return false
	}
	for _, s := range suffixes {
		if findChild(s, "value_arguments") != nil || findChild(s, "annotated_lambda") == nil {
			return false
		}
	}
	return true
}

func (c kotlinCall) Callee() string {
	callee := c.callee
	if callee == nil {
		return ""
	}
	switch callee.Type() {
	case "simple_identifier":
		return callee.Content(c.src)
	case "navigation_expression":
		// receiver.name(...)
		last := callee.NamedChild(int(callee.NamedChildCount()) - 1)
		if last != nil && last.Type() == "navigation_suffix" {
			if id := findChild(last, "simple_identifier"); id != nil {
				return id.Content(c.src)
			}
		}
	}
	return ""
}

// Children are the callee expression followed by every suffix, so a folded
// inner call never surfaces as a node of its own.
func (c kotlinCall) Children() []syntax.Node {
	out := make([]syntax.Node, 0, len(c.suffixes)+1)
	if c.callee != nil {
		out = append(out, wrapNode(c.callee, c.src))
	}
	for _, s := range c.suffixes {
		out = append(out, wrapNode(s, c.src))
	}
	return out
}

func (c kotlinCall) Arguments() []syntax.Argument {
	var args []syntax.Argument
	for _, suffix := range c.suffixes {
		for j := 0; j < int(suffix.NamedChildCount()); j++ {
			part := suffix.NamedChild(j)
			switch part.Type() {
			case "value_arguments":
				for k := 0; k < int(part.NamedChildCount()); k++ {
					if arg := part.NamedChild(k); arg.Type() == "value_argument" {
						args = append(args, valueArgument(arg, c.src))
					}
				}
			case "annotated_lambda":
				if lambda := findChild(part, "lambda_literal"); lambda != nil {
					args = append(args, syntax.Argument{Value: wrapNode(lambda, c.src)})
				}
			}
		}
	}
	return args
}

// valueArgument reads `name = expr` or `expr`.
func valueArgument(n *sitter.Node, src []byte) syntax.Argument {
	if value := namedAfter(n, "="); value != nil {
		var name string
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "=" {
				break
			}
			if c.Type() == "simple_identifier" {
				name = c.Content(src)
			}
		}
		return syntax.Argument{Name: name, Value: wrapNode(value, src)}
	}
	var last *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() != "annotation" && !isComment(c) {
			last = c
		}
	}
	return syntax.Argument{Value: wrapNode(last, src)}
}

func (b kotlinBlock) Kind() syntax.Kind       { return syntax.KindBlock }
func (b kotlinBlock) Children() []syntax.Node { return b.stmts }
func (b kotlinBlock) Text() string            { return b.n.Content(b.src) }

func namedChildren(n *sitter.Node, src []byte) []syntax.Node {
	count := int(n.NamedChildCount())
	out := make([]syntax.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if isComment(c) {
			continue
		}
		out = append(out, wrapNode(c, src))
	}
	return out
}

func isComment(n *sitter.Node) bool {
	switch n.Type() {
	case "comment", "line_comment", "multiline_comment":
		return true
	}
	return false
}

// findChild returns the first direct child of type typ.
func findChild(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// namedAfter returns the first named child following an unnamed token tok.
func namedAfter(n *sitter.Node, tok string) *sitter.Node {
	seen := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !seen {
			seen = !c.IsNamed() && c.Type() == tok
			continue
		}
		if c.IsNamed() && !isComment(c) {
			return c
		}
	}
	return nil
}
