// Package syntax defines the read-only tree view the compose classifiers work on.
// A host parser exposes its nodes through these interfaces; Expr is a plain
// in-memory implementation used for synthetic trees.
package syntax

// Kind discriminates the node shapes the classifiers care about.
type Kind string

const (
	KindCall          Kind = "call"
	KindParenthesized Kind = "parenthesized"
	KindBlock         Kind = "block"
	KindReturn        Kind = "return"
	KindLambda        Kind = "lambda"
	KindIdentifier    Kind = "identifier"
	KindOther         Kind = "other"
)

// Node is a generic expression tree node.
type Node interface {
	Kind() Kind
	Children() []Node
	Text() string
}

// CallNode is a Node of kind KindCall.
type CallNode interface {
	Node
	// Callee is the text of the invoked symbol, or "" when the call has no
	// simple callee (e.g. invoking a parenthesized lambda).
	Callee() string
	Arguments() []Argument
}

// Argument is a call argument. Name is empty for positional arguments.
type Argument struct {
	Name  string
	Value Node
}

// Named reports whether the argument was passed by name.
func (a Argument) Named() bool {
	return a.Name != ""
}

// AsCall returns n as a CallNode when it is a call.
func AsCall(n Node) (CallNode, bool) {
	if n == nil || n.Kind() != KindCall {
		return nil, false
	}
	c, ok := n.(CallNode)
	return c, ok
}
