// Package compose answers structural questions about composable declarations:
// whether a function emits UI content, which parameter is its modifier, whether
// a property declares a composition local and whether a call is a restartable
// effect.
//
// Every function here is pure and safe for concurrent use.
package compose

import "composelint/internal/syntax"

const modifierArgument = "modifier"

// EmitsContent reports whether a composable function reaches at least one
// call that emits content. Non-composable functions never emit.
func EmitsContent(fn *syntax.Function, provided NameSet) bool {
	if fn == nil || !fn.Composable || fn.Body == nil {
		return false
	}
	for _, call := range ContentCandidates(fn.Body) {
		if CallEmitsContent(call, provided) {
			return true
		}
	}
	return false
}

// ContentCandidates returns the calls under root in breadth-first order,
// skipping the subtrees of calls to non-emitters. root itself is included
// when it is a call.
func ContentCandidates(root syntax.Node) []syntax.CallNode {
	if root == nil {
		return nil
	}
	var calls []syntax.CallNode
	queue := []syntax.Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == nil {
			continue
		}
		if call, ok := syntax.AsCall(n); ok {
			if nonEmitters.Has(call.Callee()) {
				continue
			}
			calls = append(calls, call)
		}
		queue = append(queue, n.Children()...)
	}
	return calls
}

// CallEmitsContent reports whether a single call emits content: its callee is
// a known emitter, matches EmitterPattern, is in provided, or the call passes
// a named modifier argument.
func CallEmitsContent(call syntax.CallNode, provided NameSet) bool {
	if call == nil {
		return false
	}
	name := call.Callee()
	if name == "" {
		return false
	}
	return emitters.Has(name) ||
		EmitterPattern.MatchString(name) ||
		provided.Has(name) ||
		passesModifier(call)
}

func passesModifier(call syntax.CallNode) bool {
	for _, a := range call.Arguments() {
		if a.Named() && a.Name == modifierArgument {
			return true
		}
	}
	return false
}
