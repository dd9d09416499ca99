package compose

import "composelint/internal/syntax"

// IsModifierType reports whether a source type reference names a modifier type.
func IsModifierType(typeRef string) bool {
	return modifierNames.Has(typeRef)
}

// IsModifier reports whether decl is declared with a modifier type.
func IsModifier(decl syntax.Typed) bool {
	if decl == nil {
		return false
	}
	return IsModifierType(decl.TypeReference())
}

// IsModifierReceiver reports whether decl extends a modifier type, as in
// `fun Modifier.fancy()`.
func IsModifierReceiver(decl syntax.ReceiverTyped) bool {
	if decl == nil {
		return false
	}
	return IsModifierType(decl.ReceiverTypeReference())
}

// IsResolvedModifier checks the source type reference first and falls back to
// comparing the resolved type with the qualified modifier names. A nil
// evaluator disables the fallback.
func IsResolvedModifier(p *syntax.ResolvedParameter, ev syntax.TypeEvaluator) bool {
	if p == nil {
		return false
	}
	if p.Source != nil && IsModifier(p.Source) {
		return true
	}
	if ev == nil || p.Type == nil {
		return false
	}
	for _, q := range modifierQualifiedNames {
		if ev.TypeMatches(p.Type, q) {
			return true
		}
	}
	return false
}

// ModifierParameter returns the parameter named "modifier" among the
// modifier-typed parameters of fn, else the first modifier-typed one, else nil.
func ModifierParameter(fn *syntax.Function) *syntax.Parameter {
	if fn == nil {
		return nil
	}
	var first *syntax.Parameter
	for _, p := range fn.Params {
		if !IsModifier(p) {
			continue
		}
		if p.Name == modifierArgument {
			return p
		}
		if first == nil {
			first = p
		}
	}
	return first
}

// ResolvedModifierParameter is ModifierParameter for type-resolved methods.
func ResolvedModifierParameter(m *syntax.ResolvedMethod, ev syntax.TypeEvaluator) *syntax.ResolvedParameter {
	if m == nil {
		return nil
	}
	var first *syntax.ResolvedParameter
	for _, p := range m.Params {
		if !IsResolvedModifier(p, ev) {
			continue
		}
		if p.Name == modifierArgument {
			return p
		}
		if first == nil {
			first = p
		}
	}
	return first
}
