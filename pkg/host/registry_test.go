package host

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapush/interpreter-go/pkg/runtime"
)

func noop(*Call) (runtime.Value, error) { return nil, nil }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register(
		NewClass(ObjectClass).Constructor(nil, noop),
		NewInterface(CharSequenceClass).Method("length", nil, IntType, noop),
		NewClass(StringClass).Implements(CharSequenceClass).Method("length", nil, IntType, noop),
		NewClass("android.content.Context").Method("getPackageName", nil, StringClass, noop),
		NewClass("android.content.ContextWrapper").Extends("android.content.Context"),
		NewClass("android.app.Application").Extends("android.content.ContextWrapper"),
	))
	return reg
}

func TestRegistryLookupAndBuiltins(t *testing.T) {
	reg := newTestRegistry(t)

	c, ok := reg.Lookup("android.app.Application")
	require.True(t, ok)
	assert.Equal(t, "Application", c.SimpleName())

	str, ok := reg.ResolveBuiltin("String")
	require.True(t, ok)
	assert.Equal(t, StringClass, str.Name())

	intType, ok := reg.ResolveBuiltin("int")
	require.True(t, ok)
	assert.True(t, intType.IsPrimitive())

	_, ok = reg.ResolveBuiltin("Toast")
	assert.False(t, ok)
	_, ok = reg.ResolveBuiltin("java.lang.String")
	assert.False(t, ok, "qualified names are not builtins")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := newTestRegistry(t)
	err := reg.Register(NewClass(StringClass))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.Error(t, reg.Register(NewClass("")))
	assert.Panics(t, func() { reg.MustRegister(NewClass(ObjectClass)) })
}

func TestRegistryNamesOrder(t *testing.T) {
	reg := newTestRegistry(t)
	names := reg.Names()
	assert.Equal(t, []string{IntType, BooleanType, VoidType}, names[:3])
	assert.Equal(t, "android.app.Application", names[len(names)-1])
	assert.True(t, strings.HasPrefix(reg.SortedNames()[0], "android."))
}

func TestAssignability(t *testing.T) {
	reg := newTestRegistry(t)
	lookup := func(name string) *Class {
		c, ok := reg.Lookup(name)
		require.True(t, ok, name)
		return c
	}
	ctx := lookup("android.content.Context")
	app := lookup("android.app.Application")
	str := lookup(StringClass)
	seq := lookup(CharSequenceClass)
	obj := lookup(ObjectClass)
	intType := lookup(IntType)

	assert.True(t, ctx.IsAssignableFrom(app))
	assert.False(t, app.IsAssignableFrom(ctx))
	assert.True(t, seq.IsAssignableFrom(str))
	assert.True(t, obj.IsAssignableFrom(app))
	assert.False(t, obj.IsAssignableFrom(intType))
	assert.False(t, str.IsAssignableFrom(intType))
	assert.True(t, intType.IsAssignableFrom(intType))
	assert.Equal(t, "android.content.ContextWrapper", app.Superclass().Name())
	assert.Nil(t, obj.Superclass())
}

func TestInheritedMembers(t *testing.T) {
	reg := newTestRegistry(t)
	app, _ := reg.Lookup("android.app.Application")
	methods := app.MethodsNamed("getPackageName")
	require.Len(t, methods, 1)
	assert.Equal(t, "android.content.Context", methods[0].Owner.Name())

	str, _ := reg.Lookup(StringClass)
	length := str.MethodsNamed("length")
	require.Len(t, length, 1, "String.length overrides CharSequence.length")
	assert.Equal(t, StringClass, length[0].Owner.Name())
	assert.Contains(t, str.MemberNames(), "length")
}

func TestRestrictHidesTypes(t *testing.T) {
	reg := newTestRegistry(t)
	view := reg.Restrict(func(name string) bool { return strings.HasPrefix(name, "java.lang.") })

	_, ok := view.Lookup("android.content.Context")
	assert.False(t, ok)
	_, ok = view.Lookup(StringClass)
	assert.True(t, ok)
	_, ok = view.Lookup(IntType)
	assert.True(t, ok, "primitives stay visible")
	_, ok = view.ResolveBuiltin("String")
	assert.True(t, ok)

	assert.NotContains(t, view.Names(), "android.app.Application")
	assert.Error(t, view.Register(NewClass("x.Y")))

	nested := view.Restrict(func(name string) bool { return name != StringClass })
	_, ok = nested.Lookup(StringClass)
	assert.False(t, ok)
	_, ok = nested.Lookup("android.app.Application")
	assert.False(t, ok, "outer restriction still applies")
}

func TestProviderRegistersOnMiss(t *testing.T) {
	reg := newTestRegistry(t)
	calls := 0
	reg.AddProvider(ProviderFunc(func(r *Registry, name string) bool {
		calls++
		if name != "com.example.Lazy" {
			return false
		}
		return r.Register(NewClass(name)) == nil
	}))

	c, ok := reg.Lookup("com.example.Lazy")
	require.True(t, ok)
	assert.Equal(t, "com.example.Lazy", c.Name())
	_, ok = reg.Lookup("com.example.Lazy")
	require.True(t, ok)
	assert.Equal(t, 1, calls, "second lookup is served from the catalog")

	_, ok = reg.Lookup("com.example.Missing")
	assert.False(t, ok)
}

func TestConcurrentLookupsThroughProvider(t *testing.T) {
	reg := newTestRegistry(t)
	const lookups = 2
	var missed sync.WaitGroup
	missed.Add(lookups)
	reg.AddProvider(ProviderFunc(func(r *Registry, name string) bool {
		if name != "com.example.Lazy" {
			return false
		}
		// both lookups have missed before either registers
		missed.Done()
		missed.Wait()
		return r.Register(NewClass(name)) == nil
	}))

	found := make(chan bool, lookups)
	for i := 0; i < lookups; i++ {
		go func() {
			_, ok := reg.Lookup("com.example.Lazy")
			found <- ok
		}()
	}
	for i := 0; i < lookups; i++ {
		assert.True(t, <-found)
	}
	assert.Equal(t, 1, strings.Count(strings.Join(reg.Names(), " "), "com.example.Lazy"))
}

func TestValidateReportsEveryDanglingReference(t *testing.T) {
	reg := newTestRegistry(t)
	require.NoError(t, reg.Validate())

	require.NoError(t, reg.Register(
		NewClass("com.example.Broken").
			Extends("com.example.Nope").
			Method("f", []string{"com.example.Arg"}, "com.example.Ret", nil),
	))
	err := reg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "superclass refers to unknown type com.example.Nope")
	assert.Contains(t, msg, "unknown type com.example.Arg")
	assert.Contains(t, msg, "unknown type com.example.Ret")
	assert.Contains(t, msg, "has no implementation")
}

func TestTypeOf(t *testing.T) {
	reg := newTestRegistry(t)
	app, _ := reg.Lookup("android.app.Application")

	c, ok := reg.TypeOf(runtime.StringValue{Val: "x"})
	require.True(t, ok)
	assert.Equal(t, StringClass, c.Name())
	c, ok = reg.TypeOf(runtime.NewObject(app, nil))
	require.True(t, ok)
	assert.Same(t, app, c)
	_, ok = reg.TypeOf(runtime.NullValue{})
	assert.False(t, ok)
}
