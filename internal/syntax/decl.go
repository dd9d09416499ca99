package syntax

// Typed is a declaration with an optional source type reference.
// An empty string means the type reference is absent.
type Typed interface {
	TypeReference() string
}

// ReceiverTyped is a declaration that may have an extension receiver.
type ReceiverTyped interface {
	ReceiverTypeReference() string
}

// Function is a function-like declaration.
type Function struct {
	Name       string
	Composable bool
	Private    bool
	// Receiver is the extension receiver type text, ReturnType the declared
	// return type text. Either may be empty.
	Receiver   string
	ReturnType string
	Params     []*Parameter
	Body       Node
	Line       int
	EndLine    int
}

func (f *Function) TypeReference() string         { return f.ReturnType }
func (f *Function) ReceiverTypeReference() string { return f.Receiver }

// Parameter is a value parameter of a Function.
type Parameter struct {
	Name    string
	Type    string
	Default Node
}

func (p *Parameter) TypeReference() string { return p.Type }

// Property is a property declaration.
type Property struct {
	Name        string
	Mutable     bool
	Type        string
	Receiver    string
	Initializer Node
	Getter      *Accessor
	Line        int
	EndLine     int
}

func (p *Property) TypeReference() string         { return p.Type }
func (p *Property) ReceiverTypeReference() string { return p.Receiver }

// Accessor is a property getter or setter.
type Accessor struct {
	Getter bool
	// Body is either the expression of an expression body or a KindBlock.
	Body Node
	Line int
}

// ResolvedType is an opaque host type handle.
type ResolvedType = any

// TypeEvaluator compares resolved types against fully qualified names.
type TypeEvaluator interface {
	TypeMatches(t ResolvedType, qualifiedName string) bool
}

// ResolvedParameter is a parameter as seen by a type-aware host.
// Source is the source declaration when one is available.
type ResolvedParameter struct {
	Name   string
	Type   ResolvedType
	Source *Parameter
}

// ResolvedMethod is a function as seen by a type-aware host.
type ResolvedMethod struct {
	Name   string
	Params []*ResolvedParameter
}
