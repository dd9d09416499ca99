package compose

import (
	"testing"

	"composelint/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// qualifiedEvaluator treats resolved types as already qualified strings.
type qualifiedEvaluator struct{}

func (qualifiedEvaluator) TypeMatches(t syntax.ResolvedType, qualifiedName string) bool {
	s, ok := t.(string)
	return ok && s == qualifiedName
}

func TestIsModifier(t *testing.T) {
	assert.True(t, IsModifier(&syntax.Parameter{Type: "Modifier"}))
	assert.True(t, IsModifier(&syntax.Parameter{Type: "GlanceModifier"}))
	assert.True(t, IsModifier(&syntax.Property{Type: "Modifier"}))
	assert.True(t, IsModifier(&syntax.Function{ReturnType: "Modifier"}))
	assert.False(t, IsModifier(&syntax.Parameter{Type: "Modifier?"}))
	assert.False(t, IsModifier(&syntax.Parameter{Type: "androidx.compose.ui.Modifier"}))
	assert.False(t, IsModifier(&syntax.Parameter{}))
	assert.False(t, IsModifier(nil))
}

func TestIsModifierReceiver(t *testing.T) {
	assert.True(t, IsModifierReceiver(&syntax.Function{Name: "shimmer", Receiver: "Modifier"}))
	assert.True(t, IsModifierReceiver(&syntax.Property{Name: "spacing", Receiver: "GlanceModifier"}))
	assert.False(t, IsModifierReceiver(&syntax.Function{Name: "shimmer"}))
	assert.False(t, IsModifierReceiver(nil))
}

func TestModifierParameter_PrefersConventionalName(t *testing.T) {
	fn := &syntax.Function{Params: []*syntax.Parameter{
		{Name: "text", Type: "String"},
		{Name: "style", Type: "Modifier"},
		{Name: "modifier", Type: "Modifier"},
	}}
	p := ModifierParameter(fn)
	require.NotNil(t, p)
	assert.Equal(t, "modifier", p.Name)
}

func TestModifierParameter_FirstModifierTyped(t *testing.T) {
	fn := &syntax.Function{Params: []*syntax.Parameter{
		{Name: "modifier", Type: "String"},
		{Name: "rowModifier", Type: "Modifier"},
		{Name: "iconModifier", Type: "GlanceModifier"},
	}}
	p := ModifierParameter(fn)
	require.NotNil(t, p)
	assert.Equal(t, "rowModifier", p.Name)
}

func TestModifierParameter_None(t *testing.T) {
	assert.Nil(t, ModifierParameter(&syntax.Function{Params: []*syntax.Parameter{{Name: "text", Type: "String"}, {Name: "modifier"}}}))
	assert.Nil(t, ModifierParameter(&syntax.Function{}))
	assert.Nil(t, ModifierParameter(nil))
}

func TestIsResolvedModifier(t *testing.T) {
	ev := qualifiedEvaluator{}

	bySource := &syntax.ResolvedParameter{Name: "m", Source: &syntax.Parameter{Type: "Modifier"}}
	assert.True(t, IsResolvedModifier(bySource, nil))

	byType := &syntax.ResolvedParameter{Name: "m", Type: "androidx.glance.GlanceModifier"}
	assert.True(t, IsResolvedModifier(byType, ev))
	assert.False(t, IsResolvedModifier(byType, nil))

	other := &syntax.ResolvedParameter{Name: "m", Type: "kotlin.String", Source: &syntax.Parameter{Type: "String"}}
	assert.False(t, IsResolvedModifier(other, ev))

	assert.False(t, IsResolvedModifier(&syntax.ResolvedParameter{Name: "m"}, ev))
	assert.False(t, IsResolvedModifier(nil, ev))
}

func TestResolvedModifierParameter(t *testing.T) {
	ev := qualifiedEvaluator{}
	m := &syntax.ResolvedMethod{Params: []*syntax.ResolvedParameter{
		{Name: "text", Type: "kotlin.String"},
		{Name: "style", Type: "androidx.compose.ui.Modifier"},
		{Name: "modifier", Type: "androidx.compose.ui.Modifier"},
	}}
	p := ResolvedModifierParameter(m, ev)
	require.NotNil(t, p)
	assert.Equal(t, "modifier", p.Name)

	assert.Nil(t, ResolvedModifierParameter(m, nil))
	assert.Nil(t, ResolvedModifierParameter(nil, ev))

	m.Params = m.Params[:2]
	p = ResolvedModifierParameter(m, ev)
	require.NotNil(t, p)
	assert.Equal(t, "style", p.Name)
}
