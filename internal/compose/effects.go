package compose

import "composelint/internal/syntax"

// IsRestartableEffect reports whether call launches an effect that restarts
// when its keys change (LaunchedEffect, DisposableEffect, produceState,
// produceRetainedState).
func IsRestartableEffect(call syntax.CallNode) bool {
	if call == nil {
		return false
	}
	return restartableEffects.Has(call.Callee())
}
