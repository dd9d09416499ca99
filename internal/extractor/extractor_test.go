package extractor

import (
	"path/filepath"
	"testing"

	"composelint/internal/compose"
	"composelint/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_ExtractFromFile(t *testing.T) {
	testFile := filepath.Join("testdata", "Screens.kt")

	ext, err := NewExtractor("kotlin")
	require.NoError(t, err)

	file, err := ext.ExtractFromFile(testFile)
	require.NoError(t, err)

	funcs := make(map[string]*syntax.Function)
	for _, fn := range file.Functions {
		funcs[fn.Name] = fn
	}
	props := make(map[string]*syntax.Property)
	for _, p := range file.Properties {
		props[p.Name] = p
	}

	t.Run("Header", func(t *testing.T) {
		assert.Equal(t, "com.example.ui", file.Package)
		assert.Equal(t, "kotlin", file.Language)
		assert.Len(t, file.Hash, 64)
		assert.Equal(t, "androidx.compose.foundation.layout.Column", file.Imports["Column"])
		assert.Equal(t, "androidx.compose.ui.Modifier", file.Imports["Mod"])
		assert.Equal(t, []string{"androidx.compose.ui.unit"}, file.StarImports)
	})

	t.Run("Functions", func(t *testing.T) {
		assert.Len(t, file.Functions, 4)

		greeting, ok := funcs["Greeting"]
		require.True(t, ok)
		assert.True(t, greeting.Composable)
		assert.False(t, greeting.Private)
		require.Len(t, greeting.Params, 2)
		assert.Equal(t, "name", greeting.Params[0].Name)
		assert.Equal(t, "String", greeting.Params[0].Type)
		assert.Equal(t, "modifier", greeting.Params[1].Name)
		assert.Equal(t, "Mod", greeting.Params[1].Type)

		confirm, ok := funcs["Confirm"]
		require.True(t, ok)
		assert.True(t, confirm.Composable)
		assert.True(t, confirm.Private)

		helper, ok := funcs["plainHelper"]
		require.True(t, ok)
		assert.False(t, helper.Composable)
		assert.Equal(t, "Int", helper.ReturnType)
	})

	t.Run("Properties", func(t *testing.T) {
		assert.Len(t, file.Properties, 3, "locals inside bodies are skipped")

		accent, ok := props["LocalAccent"]
		require.True(t, ok)
		assert.False(t, accent.Mutable)
		require.NotNil(t, accent.Initializer)
		call, ok := syntax.AsCall(accent.Initializer)
		require.True(t, ok)
		assert.Equal(t, "compositionLocalOf", call.Callee())

		mutable, ok := props["LocalMutable"]
		require.True(t, ok)
		assert.True(t, mutable.Mutable)
	})

	t.Run("Emits content", func(t *testing.T) {
		assert.True(t, compose.EmitsContent(funcs["Greeting"], nil))
		assert.False(t, compose.EmitsContent(funcs["Confirm"], nil), "AlertDialog content is its own window")
		assert.True(t, compose.EmitsContent(funcs["Label"], nil))
		assert.False(t, compose.EmitsContent(funcs["plainHelper"], nil))
	})

	t.Run("Named arguments", func(t *testing.T) {
		calls := compose.ContentCandidates(funcs["Greeting"].Body)
		require.NotEmpty(t, calls)
		column := calls[0]
		assert.Equal(t, "Column", column.Callee())
		args := column.Arguments()
		require.Len(t, args, 2)
		assert.Equal(t, "modifier", args[0].Name)
		assert.Equal(t, syntax.KindLambda, args[1].Value.Kind())
	})

	t.Run("Composition locals", func(t *testing.T) {
		assert.True(t, compose.DeclaresCompositionLocal(props["LocalAccent"]))
		assert.False(t, compose.DeclaresCompositionLocal(props["LocalMutable"]))
		assert.False(t, compose.DeclaresCompositionLocal(props["Wrapped"]))
	})

	t.Run("Modifier parameters", func(t *testing.T) {
		greeting := funcs["Greeting"]
		assert.Nil(t, compose.ModifierParameter(greeting), "aliased type is not a known name")

		resolved := compose.ResolvedModifierParameter(file.Resolve(greeting), file.Evaluator())
		require.NotNil(t, resolved)
		assert.Equal(t, "modifier", resolved.Name)

		p := compose.ModifierParameter(funcs["plainHelper"])
		require.NotNil(t, p)
		assert.Equal(t, "modifier", p.Name)
	})
}

func TestExtractor_ExtractFromSource(t *testing.T) {
	ext, err := NewExtractor("kt")
	require.NoError(t, err)

	src := []byte(`
@Composable
fun Settings(onBack: () -> Unit) {
    LaunchedEffect(Unit) {
        onBack()
    }
    BrandHeader()
}
`)
	file, err := ext.ExtractFromSource("Settings.kt", src)
	require.NoError(t, err)
	require.Len(t, file.Functions, 1)

	fn := file.Functions[0]
	assert.Equal(t, "Settings", fn.Name)
	assert.Equal(t, 2, fn.Line, "line of the first modifier")
	assert.False(t, compose.EmitsContent(fn, nil))
	assert.True(t, compose.EmitsContent(fn, compose.NewNameSet("BrandHeader")))

	var effects int
	for _, c := range compose.ContentCandidates(fn.Body) {
		if compose.IsRestartableEffect(c) {
			effects++
		}
	}
	assert.Equal(t, 1, effects)
}

func TestExtractor_TrailingLambdaCalls(t *testing.T) {
	ext, err := NewExtractor("kotlin")
	require.NoError(t, err)

	src := []byte(`
@Composable
fun Confirm(onDismiss: () -> Unit) {
    AlertDialog(onDismissRequest = onDismiss) { Text("Are you sure?") }
}

@Composable
fun Ticker(onTick: () -> Unit) {
    LaunchedEffect(Unit) { onTick() }
}

@Composable
fun Stack() {
    Box { Text("a") }
}
`)
	file, err := ext.ExtractFromSource("Calls.kt", src)
	require.NoError(t, err)
	require.Len(t, file.Functions, 3)

	t.Run("Dialog content is pruned", func(t *testing.T) {
		confirm := file.Functions[0]
		assert.False(t, compose.EmitsContent(confirm, nil))
		assert.Empty(t, compose.ContentCandidates(confirm.Body))
	})

	t.Run("Effect keeps keys and lambda", func(t *testing.T) {
		calls := compose.ContentCandidates(file.Functions[1].Body)
		require.NotEmpty(t, calls)
		effect := calls[0]
		assert.Equal(t, "LaunchedEffect", effect.Callee())
		assert.True(t, compose.IsRestartableEffect(effect))
		args := effect.Arguments()
		require.Len(t, args, 2)
		assert.Equal(t, "Unit", args[0].Value.Text())
		assert.Equal(t, syntax.KindLambda, args[1].Value.Kind())

		var callees []string
		for _, c := range calls {
			callees = append(callees, c.Callee())
		}
		assert.Equal(t, []string{"LaunchedEffect", "onTick"}, callees)
	})

	t.Run("Lambda-only call", func(t *testing.T) {
		calls := compose.ContentCandidates(file.Functions[2].Body)
		require.Len(t, calls, 2)
		assert.Equal(t, "Box", calls[0].Callee())
		require.Len(t, calls[0].Arguments(), 1)
		assert.Equal(t, "Text", calls[1].Callee())
	})
}

func TestExtractor_Supports(t *testing.T) {
	ext, err := NewExtractor("kotlin")
	require.NoError(t, err)

	assert.True(t, ext.Supports("app/src/Main.kt"))
	assert.False(t, ext.Supports("build.gradle.kts"))
	assert.False(t, ext.Supports("main.go"))

	_, err = NewExtractor("go")
	assert.Error(t, err)
}
