package compose

import "composelint/internal/syntax"

// DeclaresCompositionLocal reports whether p is a `val` initialized directly
// with compositionLocalOf or staticCompositionLocalOf. Parentheses around the
// call are ignored; any other wrapping is not.
func DeclaresCompositionLocal(p *syntax.Property) bool {
	if p == nil || p.Mutable || p.Initializer == nil {
		return false
	}
	return isCompositionLocalFactory(unwrapParens(p.Initializer))
}

// AccessorDeclaresCompositionLocal reports whether a is a getter whose body
// reduces to a composition local factory call, e.g. `get() = compositionLocalOf { 0 }`
// or `get() { return compositionLocalOf { 0 } }`.
func AccessorDeclaresCompositionLocal(a *syntax.Accessor) bool {
	if a == nil || !a.Getter || a.Body == nil {
		return false
	}
	return isCompositionLocalFactory(unwrapParens(unwrapReturn(unwrapBlock(a.Body))))
}

func isCompositionLocalFactory(n syntax.Node) bool {
	call, ok := syntax.AsCall(n)
	return ok && compositionLocalFactories.Has(call.Callee())
}

// unwrapBlock returns the only statement of a single-statement block.
func unwrapBlock(n syntax.Node) syntax.Node {
	if n == nil || n.Kind() != syntax.KindBlock {
		return n
	}
	if stmts := n.Children(); len(stmts) == 1 {
		return stmts[0]
	}
	return n
}

func unwrapReturn(n syntax.Node) syntax.Node {
	if n == nil || n.Kind() != syntax.KindReturn {
		return n
	}
	if v := n.Children(); len(v) == 1 {
		return v[0]
	}
	return n
}

func unwrapParens(n syntax.Node) syntax.Node {
	for n != nil && n.Kind() == syntax.KindParenthesized {
		inner := n.Children()
		if len(inner) != 1 {
			return n
		}
		n = inner[0]
	}
	return n
}
