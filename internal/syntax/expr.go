package syntax

import "strings"

// Expr is an in-memory Node. A call Expr carries a callee and arguments;
// its children are the argument values in order.
type Expr struct {
	kind     Kind
	text     string
	callee   string
	args     []Argument
	children []Node
}

var _ CallNode = (*Expr)(nil)

// Call builds a call expression.
func Call(callee string, args ...Argument) *Expr {
	e := &Expr{kind: KindCall, callee: callee, args: args}
	for _, a := range args {
		if a.Value != nil {
			e.children = append(e.children, a.Value)
		}
	}
	return e
}

// Arg is a positional argument.
func Arg(v Node) Argument {
	return Argument{Value: v}
}

// NamedArg is a named argument.
func NamedArg(name string, v Node) Argument {
	return Argument{Name: name, Value: v}
}

// Block builds a statement block.
func Block(stmts ...Node) *Expr {
	return &Expr{kind: KindBlock, children: stmts}
}

// Lambda builds a lambda literal with the given body statements.
func Lambda(stmts ...Node) *Expr {
	return &Expr{kind: KindLambda, children: stmts}
}

// Return builds a return expression. v may be nil.
func Return(v Node) *Expr {
	e := &Expr{kind: KindReturn}
	if v != nil {
		e.children = []Node{v}
	}
	return e
}

// Paren wraps v in parentheses.
func Paren(v Node) *Expr {
	return &Expr{kind: KindParenthesized, children: []Node{v}}
}

// Ident builds a name reference.
func Ident(name string) *Expr {
	return &Expr{kind: KindIdentifier, text: name}
}

// Other builds a node of no particular interest, e.g. an if-expression.
func Other(text string, children ...Node) *Expr {
	return &Expr{kind: KindOther, text: text, children: children}
}

func (e *Expr) Kind() Kind            { return e.kind }
func (e *Expr) Children() []Node      { return e.children }
func (e *Expr) Callee() string        { return e.callee }
func (e *Expr) Arguments() []Argument { return e.args }

func (e *Expr) Text() string {
	switch e.kind {
	case KindCall:
		parts := make([]string, 0, len(e.args))
		for _, a := range e.args {
			if a.Value == nil {
				continue
			}
			if a.Named() {
				parts = append(parts, a.Name+" = "+a.Value.Text())
			} else {
				parts = append(parts, a.Value.Text())
			}
		}
		return e.callee + "(" + strings.Join(parts, ", ") + ")"
	case KindParenthesized:
		return "(" + e.children[0].Text() + ")"
	}
	return e.text
}
