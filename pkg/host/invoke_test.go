package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapush/interpreter-go/pkg/runtime"
)

func TestMethodInvoke(t *testing.T) {
	class := NewClass("com.example.Greeter").
		StaticMethod("greet", []string{StringClass}, StringClass, func(call *Call) (runtime.Value, error) {
			name, err := AsString(call.Arg(0))
			if err != nil {
				return nil, err
			}
			return Str("hi " + name), nil
		}).
		Method("touch", nil, VoidType, noop)
	reg := NewRegistry()
	require.NoError(t, reg.Register(class))

	greet := class.MethodsNamed("greet")[0]
	v, err := greet.Invoke(context.Background(), nil, []runtime.Value{Str("bob")})
	require.NoError(t, err)
	assert.Equal(t, runtime.StringValue{Val: "hi bob"}, v)

	_, err = greet.Invoke(context.Background(), nil, nil)
	assert.ErrorContains(t, err, "expects 1 arguments, got 0")

	_, err = greet.Invoke(context.Background(), nil, []runtime.Value{Int(1)})
	assert.ErrorContains(t, err, "expected String, got int")

	touch := class.MethodsNamed("touch")[0]
	_, err = touch.Invoke(context.Background(), runtime.NullValue{}, nil)
	assert.ErrorContains(t, err, "without a receiver")

	v, err = touch.Invoke(context.Background(), runtime.NewObject(class, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, runtime.VoidValue{}, v)
}

func TestInvokeRecoversPanics(t *testing.T) {
	class := NewClass("com.example.Boom").StaticMethod("boom", nil, VoidType, func(*Call) (runtime.Value, error) {
		panic("kaboom")
	})
	_, err := class.MethodsNamed("boom")[0].Invoke(context.Background(), nil, nil)
	assert.EqualError(t, err, "panic: kaboom")
}

func TestConstructAndRead(t *testing.T) {
	sentinel := errors.New("refused")
	class := NewClass("com.example.Box").
		Constructor([]string{IntType}, func(call *Call) (runtime.Value, error) {
			n, err := AsInt(call.Arg(0))
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, sentinel
			}
			return runtime.NewObject(call.Class, n), nil
		}).
		Constructor(nil, noop).
		StaticField("SIZE", IntType, Int(3)).
		StaticGetter("NOW", IntType, func(*Call) (runtime.Value, error) { return Int(42), nil }).
		InstanceField("width", IntType)

	ctors := class.Constructors()
	require.Len(t, ctors, 2)
	v, err := ctors[0].Construct(context.Background(), []runtime.Value{Int(2)})
	require.NoError(t, err)
	n, err := Ref[int64](v)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = ctors[0].Construct(context.Background(), []runtime.Value{Int(-1)})
	assert.ErrorIs(t, err, sentinel)
	_, err = ctors[1].Construct(context.Background(), nil)
	assert.ErrorContains(t, err, "returned no instance")

	size, _ := class.LookupField("SIZE")
	v, err = size.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, runtime.IntegerValue{Val: 3}, v)

	now, _ := class.LookupField("NOW")
	v, err = now.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, runtime.IntegerValue{Val: 42}, v)

	width, _ := class.LookupField("width")
	_, err = width.Read(context.Background())
	assert.ErrorContains(t, err, "not static")
}

func TestArgHelpers(t *testing.T) {
	call := &Call{Args: []runtime.Value{Bool(true)}}
	assert.Equal(t, runtime.NullValue{}, call.Arg(5))

	b, err := AsBool(call.Arg(0))
	require.NoError(t, err)
	assert.True(t, b)
	_, err = AsBool(nil)
	assert.ErrorContains(t, err, "got null")
	_, err = AsInt(Str("1"))
	assert.ErrorContains(t, err, "expected int, got String")
	_, err = AsString(runtime.NullValue{})
	assert.ErrorContains(t, err, "got null")
	assert.Equal(t, "true", AsText(Bool(true)))

	_, err = Ref[string](Int(1))
	assert.ErrorContains(t, err, "expected object")
	_, err = Ref[string](runtime.NewObject(nil, 1))
	assert.ErrorContains(t, err, "holds int")
}

func TestEventString(t *testing.T) {
	e := Event{Kind: EventInvoke, Target: "android.widget.Toast.show()", Args: []runtime.Value{Str("x"), Int(1)}}
	assert.Equal(t, `invoke android.widget.Toast.show() ["x", 1]`, e.String())

	var seen []Event
	var observer Observer = ObserverFunc(func(e Event) { seen = append(seen, e) })
	observer.Observe(e)
	assert.Len(t, seen, 1)
}
