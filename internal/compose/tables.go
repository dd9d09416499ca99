package compose

import (
	"regexp"
	"sort"
	"strings"
)

// NameSet is a set of callee or type names.
type NameSet map[string]struct{}

// NewNameSet builds a set from names. Empty names are ignored.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has is safe on a nil set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexical order.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Composables that show their content in a window of their own. Calls to
// these, and everything nested inside them, never count as content of the
// enclosing function.
var nonEmitters = NewNameSet("AlertDialog", "ModalBottomSheetLayout")

// Composables known to emit content.
var emitters = NewNameSet(
	// androidx.compose.foundation
	"BasicTextField",
	"Box",
	"Canvas",
	"ClickableText",
	"Column",
	"Icon",
	"Image",
	"Layout",
	"LazyColumn",
	"LazyRow",
	"LazyVerticalGrid",
	"Row",
	"Text",
	// androidx.compose.material
	"BottomDrawer",
	"Button",
	"Card",
	"Checkbox",
	"CircularProgressIndicator",
	"Divider",
	"DropdownMenu",
	"DropdownMenuItem",
	"ExposedDropdownMenuBox",
	"ExtendedFloatingActionButton",
	"FloatingActionButton",
	"IconButton",
	"IconToggleButton",
	"LeadingIconTab",
	"LinearProgressIndicator",
	"ListItem",
	"ModalBottomSheetLayout",
	"ModalDrawer",
	"NavigationRail",
	"NavigationRailItem",
	"OutlinedButton",
	"OutlinedTextField",
	"RadioButton",
	"Scaffold",
	"ScrollableTabRow",
	"Slider",
	"SnackbarHost",
	"Surface",
	"SwipeToDismiss",
	"Switch",
	"Tab",
	"TabRow",
	"TextButton",
	"TopAppBar",
	// accompanist
	"BottomNavigation",
	"BottomNavigationContent",
	"BottomNavigationSurface",
	"FlowColumn",
	"FlowRow",
	"HorizontalPager",
	"HorizontalPagerIndicator",
	"SwipeRefresh",
	"SwipeRefreshIndicator",
	"TopAppBarContent",
	"TopAppBarSurface",
	"VerticalPager",
	"VerticalPagerIndicator",
	"WebView",
)

var emitterPatterns = []string{
	`Spacer\d*`,
}

// EmitterPattern matches whole callee names of numbered spacing primitives
// (Spacer, Spacer2, ...).
var EmitterPattern = regexp.MustCompile(`^(` + strings.Join(emitterPatterns, "|") + `)$`)

var (
	modifierNames          = NewNameSet("Modifier", "GlanceModifier")
	modifierQualifiedNames = []string{"androidx.compose.ui.Modifier", "androidx.glance.GlanceModifier"}
)

var compositionLocalFactories = NewNameSet("staticCompositionLocalOf", "compositionLocalOf")

// Effects that relaunch when their keys change. produceRetainedState is Circuit's.
var restartableEffects = NewNameSet("LaunchedEffect", "produceState", "produceRetainedState", "DisposableEffect")
