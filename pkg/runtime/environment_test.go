package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedType string

func (n namedType) TypeName() string { return string(n) }

func TestEnvironmentDefineAndLookup(t *testing.T) {
	env := NewEnvironment()
	env.Define("text", StringValue{Val: "hello"}, namedType("java.lang.String"))

	v, err := env.Lookup("text")
	require.NoError(t, err)
	assert.Equal(t, StringValue{Val: "hello"}, v.Value)
	assert.Equal(t, "java.lang.String", v.Type.TypeName())
	assert.True(t, v.IsSet())
}

func TestEnvironmentRedefineOverwritesInPlace(t *testing.T) {
	env := NewEnvironment()
	first := env.Define("i", IntegerValue{Val: 1}, nil)
	second := env.Define("i", IntegerValue{Val: 2}, namedType("int"))

	assert.Same(t, first, second)
	assert.Equal(t, IntegerValue{Val: 2}, first.Value)
	assert.Equal(t, []string{"i"}, env.Names())
	assert.Equal(t, 1, env.Len())
}

func TestEnvironmentAssignKeepsType(t *testing.T) {
	env := NewEnvironment()
	env.Define("n", IntegerValue{Val: 0}, namedType("int"))
	require.NoError(t, env.Assign("n", IntegerValue{Val: 5}))

	v, err := env.Lookup("n")
	require.NoError(t, err)
	assert.Equal(t, IntegerValue{Val: 5}, v.Value)
	assert.Equal(t, "int", v.Type.TypeName())
}

func TestEnvironmentUnboundName(t *testing.T) {
	env := NewEnvironment()

	_, err := env.Lookup("missing")
	var unbound *UnboundNameError
	require.ErrorAs(t, err, &unbound)
	assert.Equal(t, "missing", unbound.Name)
	assert.EqualError(t, err, "Undefined variable 'missing'")

	require.ErrorAs(t, env.Assign("missing", NullValue{}), &unbound)
	assert.False(t, env.Has("missing"))
}

func TestEnvironmentUnsetVariable(t *testing.T) {
	env := NewEnvironment()
	v := env.Define("pending", nil, nil)
	assert.False(t, v.IsSet())
	assert.True(t, env.Has("pending"))
}

func TestEnvironmentNamesAndSnapshot(t *testing.T) {
	env := NewEnvironment()
	env.Define("b", BoolValue{Val: true}, nil)
	env.Define("a", IntegerValue{Val: 1}, nil)

	assert.Equal(t, []string{"b", "a"}, env.Names())
	snap := env.Snapshot()
	assert.Equal(t, map[string]Value{"a": IntegerValue{Val: 1}, "b": BoolValue{Val: true}}, snap)

	snap["a"] = IntegerValue{Val: 9}
	v, err := env.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, IntegerValue{Val: 1}, v.Value)
}
