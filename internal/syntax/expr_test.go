package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall_ChildrenFollowArguments(t *testing.T) {
	inner := Call("Text", Arg(Ident("title")))
	lambda := Lambda(inner)
	c := Call("Column", NamedArg("modifier", Ident("modifier")), Arg(lambda))

	assert.Equal(t, KindCall, c.Kind())
	assert.Equal(t, "Column", c.Callee())
	require.Len(t, c.Children(), 2)
	assert.Same(t, lambda, c.Children()[1])
	assert.True(t, c.Arguments()[0].Named())
	assert.False(t, c.Arguments()[1].Named())
}

func TestAsCall(t *testing.T) {
	_, ok := AsCall(Ident("x"))
	assert.False(t, ok)

	_, ok = AsCall(nil)
	assert.False(t, ok)

	c, ok := AsCall(Call("Box"))
	require.True(t, ok)
	assert.Equal(t, "Box", c.Callee())
}

func TestExpr_Text(t *testing.T) {
	c := Call("wrap", Arg(Paren(Call("f"))), NamedArg("key", Ident("k")))
	assert.Equal(t, "wrap((f()), key = k)", c.Text())
	assert.Equal(t, "if", Other("if").Text())
}

func TestDeclarations_TypeReferences(t *testing.T) {
	typed := []Typed{
		&Parameter{Name: "modifier", Type: "Modifier"},
		&Property{Name: "Local", Type: "ProvidableCompositionLocal<Int>"},
		&Function{Name: "Title", ReturnType: "Unit"},
	}
	assert.Equal(t, "Modifier", typed[0].TypeReference())
	assert.Equal(t, "ProvidableCompositionLocal<Int>", typed[1].TypeReference())
	assert.Equal(t, "Unit", typed[2].TypeReference())

	fn := &Function{Receiver: "Modifier"}
	assert.Equal(t, "Modifier", fn.ReceiverTypeReference())
}
