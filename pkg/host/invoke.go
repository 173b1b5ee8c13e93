package host

import (
	"context"
	"fmt"

	"zapush/interpreter-go/pkg/runtime"
)

// Call carries one invocation into a host thunk. Receiver is nil for static
// methods, constructors and static field getters.
type Call struct {
	Context  context.Context
	Class    *Class
	Receiver runtime.Value
	Args     []runtime.Value
}

// Arg returns the argument at idx, or NullValue when out of range.
func (c *Call) Arg(idx int) runtime.Value {
	if c == nil || idx < 0 || idx >= len(c.Args) {
		return runtime.NullValue{}
	}
	return c.Args[idx]
}

// Invoke runs the method. A panic in the thunk is reported as an error.
func (m *Method) Invoke(ctx context.Context, receiver runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if m == nil || m.Impl == nil {
		return nil, fmt.Errorf("host: method has no implementation")
	}
	if len(args) != len(m.Params) {
		return nil, fmt.Errorf("host: %s expects %d arguments, got %d", m, len(m.Params), len(args))
	}
	if !m.Static && runtime.IsNull(receiver) {
		return nil, fmt.Errorf("host: %s invoked without a receiver", m)
	}
	result, err := safeCall(m.Impl, &Call{Context: ctx, Class: m.Owner, Receiver: receiver, Args: args})
	if err != nil {
		return nil, err
	}
	return normalizeResult(result, m.Returns), nil
}

// Construct runs the constructor and returns the new instance.
func (c *Constructor) Construct(ctx context.Context, args []runtime.Value) (runtime.Value, error) {
	if c == nil || c.Impl == nil {
		return nil, fmt.Errorf("host: constructor has no implementation")
	}
	if len(args) != len(c.Params) {
		return nil, fmt.Errorf("host: %s expects %d arguments, got %d", c, len(c.Params), len(args))
	}
	result, err := safeCall(c.Impl, &Call{Context: ctx, Class: c.Owner, Args: args})
	if err != nil {
		return nil, err
	}
	if runtime.IsNull(result) {
		return nil, fmt.Errorf("host: %s returned no instance", c)
	}
	return result, nil
}

// Read returns the value of a static field.
func (f *Field) Read(ctx context.Context) (runtime.Value, error) {
	if f == nil {
		return nil, fmt.Errorf("host: nil field")
	}
	if !f.Static {
		return nil, fmt.Errorf("host: field %s is not static", f.Name)
	}
	if f.Getter != nil {
		result, err := safeCall(f.Getter, &Call{Context: ctx, Class: f.Owner})
		if err != nil {
			return nil, err
		}
		return normalizeResult(result, f.Type), nil
	}
	return normalizeResult(f.Value, f.Type), nil
}

func safeCall(fn Func, call *Call) (result runtime.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if call.Context == nil {
		call.Context = context.Background()
	}
	return fn(call)
}

func normalizeResult(v runtime.Value, declared string) runtime.Value {
	if v == nil {
		if declared == VoidType {
			return runtime.VoidValue{}
		}
		return runtime.NullValue{}
	}
	return v
}
